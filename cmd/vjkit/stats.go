package main

import (
	"fmt"
	"io"
	"time"

	"github.com/opd-ai/vjkit/audio"
	"github.com/opd-ai/vjkit/video"
)

const (
	statsInterval = 250 * time.Millisecond
	beatFlash     = 200 * time.Millisecond
)

// statsSink is a terminal display backend. It cannot show pixels, so it
// overwrites a single status line describing what would be on screen.
type statsSink struct {
	w         io.Writer
	frames    uint64
	lastPrint time.Time
	lastBeat  time.Time
}

func newStatsSink(w io.Writer) *statsSink {
	return &statsSink{w: w}
}

// display runs on the tick goroutine, so plain fields are fine.
func (s *statsSink) display(frame *video.Frame, feat *audio.AudioFeatureSnapshot) {
	s.frames++
	now := time.Now()
	if feat.Beat {
		s.lastBeat = now
	}
	if now.Sub(s.lastPrint) < statsInterval {
		return
	}
	s.lastPrint = now

	beat := " "
	if now.Sub(s.lastBeat) < beatFlash {
		beat = "*"
	}
	fmt.Fprintf(s.w, "\r%7d frames  %dx%d  rms %5.3f  %5.1f bpm %s ",
		s.frames, frame.Width, frame.Height, feat.RMS, feat.TempoBPM, beat)
}
