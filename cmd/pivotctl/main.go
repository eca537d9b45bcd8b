// Command pivotctl is the PIVOT analysis pipeline's CLI: analyze an
// interview document into mart output, lint a document's markup, or
// serve the classification API over HTTP. Subcommand structure and
// persistent-flag registration follow codeNERD's cmd/nerd/main.go
// rootCmd idiom (global flags in init(), subcommands added to rootCmd),
// scaled down to this pipeline's three verbs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightseries/pivot-insight/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "pivotctl",
	Short: "Classify interview transcripts into PIVOT voice insights",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Configure(logLevel, true)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pivot.yaml", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd, lintCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
