package main

import "github.com/spf13/cobra"

func newReferencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "references <file|->",
		Short: "Print every reference to the declaration at --pos",
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
			return printJSON(e.ReferencesOf(source, pos))
		},
	}
}
