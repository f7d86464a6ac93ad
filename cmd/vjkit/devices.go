package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opd-ai/vjkit/capture"
)

func newDevicesCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio inputs and cameras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(); err != nil {
				return err
			}
			return listDevices(cmd.OutOrStdout())
		},
	}
}

func listDevices(w io.Writer) error {
	if err := capture.Initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	defer capture.Terminate()

	mics, err := capture.AudioDevices()
	if err != nil {
		return fmt.Errorf("list audio inputs: %w", err)
	}
	micRows := make([][]string, 0, len(mics))
	for _, d := range mics {
		micRows = append(micRows, []string{
			strconv.Itoa(d.Index),
			d.Name,
			strconv.Itoa(d.Channels),
			strconv.FormatFloat(d.SampleRate, 'f', 0, 64),
		})
	}
	fmt.Fprintln(w, "Audio inputs")
	fmt.Fprintln(w, renderTable([]string{"Index", "Name", "Channels", "Rate"}, micRows, 0, 2, 3))

	cams, err := capture.CameraDevices()
	if err != nil {
		return fmt.Errorf("list cameras: %w", err)
	}
	camRows := make([][]string, 0, len(cams))
	for _, d := range cams {
		camRows = append(camRows, []string{strconv.Itoa(d.Index), d.Path, d.Name})
	}
	fmt.Fprintln(w, "Cameras")
	fmt.Fprintln(w, renderTable([]string{"Index", "Path", "Name"}, camRows, 0))

	return nil
}
