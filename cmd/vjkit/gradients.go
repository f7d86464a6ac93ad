package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opd-ai/vjkit/gradient"
)

func newGradientsCommand(load configLoader) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "gradients [dir]",
		Short: "List gradient assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			dir := cfg.Gradients.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if validate {
				return validateGradients(cmd.OutOrStdout(), dir)
			}
			return listGradients(cmd.OutOrStdout(), dir)
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Check every gradient file, failing on the malformed ones")
	return cmd
}

func listGradients(w io.Writer, dir string) error {
	lib := gradient.NewLibrary(dir)

	rows := make([][]string, 0, lib.Len())
	for i := 0; i < lib.Len(); i++ {
		a := lib.Get(i)
		rows = append(rows, []string{strconv.Itoa(i), a.Name, strconv.Itoa(len(a.Stops))})
	}
	fmt.Fprintln(w, renderTable([]string{"#", "Name", "Stops"}, rows, 0, 2))
	return nil
}

// validateGradients loads every .json file in dir itself, reporting
// per-file results. Unlike the library scan, malformed files here are
// an error, not a skip.
func validateGradients(w io.Writer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read gradient directory: %w", err)
	}

	var bad int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := gradient.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			bad++
			fmt.Fprintf(w, "%s: %v\n", entry.Name(), err)
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", entry.Name())
	}

	if bad > 0 {
		return fmt.Errorf("%d invalid gradient file(s) in %s", bad, dir)
	}
	return nil
}
