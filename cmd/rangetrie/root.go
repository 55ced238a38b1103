package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags = struct {
	logLevel *string
	logFile  *string
}{}

var rootCmd = &cobra.Command{
	Use:   "rangetrie",
	Short: "Compile character classes into UTF-8 byte automata",
	Long: `rangetrie provides the following features:
- Compiles character classes into transition tables over bytes.
- Prints the byte range trie a character class compiles into.
- Tests which characters of a text a character class matches.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func init() {
	rootFlags.logLevel = rootCmd.PersistentFlags().String("log-level", "warn", "log level (trace|debug|info|warn|error); "+logLevelEnv+" sets the default")
	rootFlags.logFile = rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to a rotated file")
}

func Execute() error {
	defer closeLogger()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
