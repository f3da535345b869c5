// Command hookscript is a thin cobra CLI over the engine package's
// Analysis API: a command tree with one subcommand per Analysis API
// method.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oxhq/hookscript/engine"
	"github.com/oxhq/hookscript/internal/schemastore"
)

var (
	flagHook        string
	flagMode        string
	flagPos         string
	flagCacheDB     string
	flagEnvFile     string
	flagPrevSource  string
	flagOutputsJSON string
)

func main() {
	root := &cobra.Command{
		Use:           "hookscript",
		Short:         "Analysis CLI for the hook script language",
		Long:          "hookscript exercises the engine's Analysis API from the command line: parsing, diagnostics, and editor-feature queries against pipeline hook scripts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagEnvFile != "" {
				if err := godotenv.Load(flagEnvFile); err != nil {
					return fmt.Errorf("loading env file: %w", err)
				}
			}
			return nil
		},
	}

	registerPersistentFlags(root.PersistentFlags())

	root.AddCommand(
		newParseCmd(),
		newAnalyzeCmd(),
		newDiagnosticsCmd(),
		newCompleteCmd(),
		newHoverCmd(),
		newSignatureCmd(),
		newDefinitionCmd(),
		newReferencesCmd(),
		newSemanticCmd(),
		newInlayHintsCmd(),
		newFormatCmd(),
		newSchemaCmd(),
		newScanCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// registerPersistentFlags binds the flags shared by every subcommand onto
// the root command's pflag.FlagSet.
func registerPersistentFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagHook, "hook", "", "hook name for context-aware analysis (e.g. before_signup)")
	fs.StringVarP(&flagMode, "mode", "m", "", "execution mode for return-shape diagnostics (blocking, enrichment, async)")
	fs.StringVarP(&flagPos, "pos", "p", "", "cursor position as line:column (1-based line, 0-based column)")
	fs.StringVar(&flagCacheDB, "cache-db", "", "sqlite path for persisting returnSchemaOf results across invocations")
	fs.StringVar(&flagEnvFile, "env-file", "", "dotenv file to load before running")
	fs.StringVar(&flagPrevSource, "prev-source", "", "path to the previous pipeline script, for context.prev completions")
	fs.StringVar(&flagOutputsJSON, "outputs", "", "JSON object mapping step id to its script file path, for context.outputs completions")
}

// buildEngine constructs an Engine honoring --cache-db, closing over the
// default in-memory host model and schema store otherwise.
func buildEngine() (*engine.Engine, func(), error) {
	opts := engine.Options{}
	closer := func() {}
	if flagCacheDB != "" {
		store, err := schemastore.OpenSQLStore(flagCacheDB)
		if err != nil {
			return nil, closer, fmt.Errorf("opening cache db: %w", err)
		}
		opts.SchemaStore = store
		closer = func() { store.Close() }
	}
	e := engine.New(opts)
	prevCloser := closer
	closer = func() {
		e.Close()
		prevCloser()
	}
	return e, closer, nil
}
