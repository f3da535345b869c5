package main

import "github.com/spf13/cobra"

func newHoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hover <file|->",
		Short: "Print hover text at --pos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			pos, err := requirePos(source)
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
			return printJSON(e.Hover(source, pos, ctx))
		},
	}
}
