package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opd-ai/vjkit"
	"github.com/opd-ai/vjkit/capture"
	"github.com/opd-ai/vjkit/config"
)

// defaultChain is the effect stack assembled at startup. Grade and
// trail start enabled; the rest wait on the control surface.
var defaultChain = []struct {
	kind    string
	enabled bool
}{
	{"flip", false},
	{"grade", true},
	{"trail", true},
	{"diamond", false},
	{"reveal", false},
	{"spotlight", false},
}

func newRunCommand(load configLoader) *cobra.Command {
	var pattern bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the effects pipeline until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runPipeline(cfg, pattern)
		},
	}
	cmd.Flags().BoolVar(&pattern, "pattern", false, "Use the synthetic test pattern instead of a camera")
	return cmd
}

func runPipeline(cfg *config.Config, pattern bool) error {
	if err := capture.Initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	defer capture.Terminate()

	sink := newStatsSink(os.Stdout)
	opts := &vjkit.Options{
		Config:  cfg,
		Display: sink.display,
	}
	if pattern {
		opts.OpenCamera = func(_, width, height int) (capture.Camera, error) {
			return capture.NewPatternSource(width, height), nil
		}
	}

	pipe, err := vjkit.New(opts)
	if err != nil {
		return err
	}
	if err := buildDefaultChain(pipe); err != nil {
		return err
	}

	if err := pipe.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = pipe.Run(ctx)

	m := pipe.Metrics()
	fmt.Fprintf(os.Stdout, "\n%d frames (%0.1f fps), %d dropped, %d audio blocks, %d beats\n",
		m.FramesProcessed, m.ActualFPS, m.FramesDropped, m.AudioBlocks, m.Beats)
	return err
}

// buildDefaultChain populates the pipeline's chain with the standard
// effect stack.
func buildDefaultChain(pipe *vjkit.Pipeline) error {
	for _, entry := range defaultChain {
		e, err := pipe.Registry().New(entry.kind)
		if err != nil {
			return fmt.Errorf("build effect %s: %w", entry.kind, err)
		}
		if err := pipe.Chain().Append(e); err != nil {
			return err
		}
		if !entry.enabled {
			if err := pipe.Chain().Disable(e.ID()); err != nil {
				return err
			}
		}
	}
	return nil
}
