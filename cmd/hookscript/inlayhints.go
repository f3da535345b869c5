package main

import "github.com/spf13/cobra"

func newInlayHintsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inlay-hints <file|->",
		Short: "Print inferred-type inlay hints for local declarations",
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
			ctx, err := featureContext()
			if err != nil {
				return err
			}
			return printJSON(e.InlayHints(source, ctx))
		},
	}
}
