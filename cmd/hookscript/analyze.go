package main

import "github.com/spf13/cobra"

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Parse, build scope/type info, and run diagnostics",
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
			res := e.AnalyzeWithContext(source, ctx)
			return printJSON(res)
		},
	}
}
