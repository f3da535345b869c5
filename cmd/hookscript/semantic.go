package main

import "github.com/spf13/cobra"

func newSemanticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "semantic <file|->",
		Short: "Print semantic highlighting tokens",
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
			return printJSON(e.SemanticTokens(source, ctx))
		},
	}
}
