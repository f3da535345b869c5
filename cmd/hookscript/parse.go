package main

import "github.com/spf13/cobra"

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a script and print its AST shape",
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
			res := e.Parse(source)
			return printJSON(res)
		},
	}
}
