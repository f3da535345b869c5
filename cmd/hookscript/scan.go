package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/oxhq/hookscript/internal/diagnostics"
)

// scanResult is one file's diagnostics in a scan's NDJSON output.
type scanResult struct {
	File        string `json:"file"`
	Diagnostics any    `json:"diagnostics"`
	Error       string `json:"error,omitempty"`
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <glob>",
		Short: "Batch-diagnose every script matched by a doublestar glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := doublestar.FilepathGlob(args[0])
			if err != nil {
				return fmt.Errorf("expanding glob: %w", err)
			}

			e, closer, err := buildEngine()
			if err != nil {
				return err
			}
			defer closer()
			ctx, err := featureContext()
			if err != nil {
				return err
			}

			for _, path := range matches {
				source, err := readSource(path)
				if err != nil {
					if jerr := printJSON(scanResult{File: path, Error: err.Error()}); jerr != nil {
						return jerr
					}
					continue
				}
				diags := e.Diagnostics(source, ctx, diagnostics.Options{})
				if err := printJSON(scanResult{File: path, Diagnostics: diags}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
