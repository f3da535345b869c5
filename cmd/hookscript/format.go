package main

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "format <file|->",
		Short: "Run the indent/spacing normalizer over a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			e, closer, err := buildEngine()
			if err != nil {
				return err
			}
			defer closer()
			formatted := e.Format(source)

			if !showDiff {
				fmt.Print(formatted)
				return nil
			}
			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(source),
				B:        difflib.SplitLines(formatted),
				FromFile: args[0],
				ToFile:   args[0] + " (formatted)",
				Context:  3,
			}
			text, err := difflib.GetUnifiedDiffString(diff)
			if err != nil {
				return fmt.Errorf("generating diff: %w", err)
			}
			fmt.Fprint(os.Stdout, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff instead of the formatted source")
	return cmd
}
