package main

import "github.com/spf13/cobra"

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file|->",
		Short: "Print the union of fields returned by a script",
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
			return printJSON(e.ReturnSchemaOf(source))
		},
	}
}
