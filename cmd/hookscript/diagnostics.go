package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/hookscript/internal/diagnostics"
)

var allDiagnosticCodes = []diagnostics.Code{
	diagnostics.CodeSyntaxError,
	diagnostics.CodeUndefinedIdentifier,
	diagnostics.CodeDisabledGlobal,
	diagnostics.CodeMissingReturnFields,
	diagnostics.CodeScriptTooLarge,
}

func newDiagnosticsCmd() *cobra.Command {
	var suppress string
	var capN int

	cmd := &cobra.Command{
		Use:   "diagnostics <file|->",
		Short: "Run the diagnostic passes and print the resulting list",
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

			opts := diagnostics.Options{}
			if suppress != "" {
				opts.Suppress = map[diagnostics.Code]bool{}
				for _, tok := range strings.Split(suppress, ",") {
					n, err := strconv.Atoi(strings.TrimSpace(tok))
					if err != nil {
						return err
					}
					opts.Suppress[diagnostics.Code(n)] = true
				}
			}
			if capN > 0 {
				opts.Cap = map[diagnostics.Code]int{}
				for _, code := range allDiagnosticCodes {
					opts.Cap[code] = capN
				}
			}

			diags := e.Diagnostics(source, ctx, opts)
			if diags == nil {
				diags = []diagnostics.Diagnostic{}
			}
			return printJSON(diags)
		},
	}
	cmd.Flags().StringVar(&suppress, "suppress", "", "comma-separated diagnostic codes to suppress")
	cmd.Flags().IntVar(&capN, "cap", 0, "maximum diagnostics to report per code")
	return cmd
}
