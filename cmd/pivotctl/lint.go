package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/validate"
)

var lintQuiet bool

var lintCmd = &cobra.Command{
	Use:   "lint [document.txt]",
	Short: "Check an interview document's markup and print a quality report",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintQuiet, "quiet", false, "Print only the score, suppress individual issues")
}

func runLint(cmd *cobra.Command, args []string) error {
	lex, err := lexicon.Load()
	if err != nil {
		return fmt.Errorf("pivotctl: loading lexicon: %w", err)
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("pivotctl: reading %s: %w", args[0], err)
	}

	report, err := validate.New(lex).Validate(string(text))
	if err != nil {
		return fmt.Errorf("pivotctl: linting %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "score: %d/100\n", report.Score)
	if !lintQuiet {
		for _, issue := range report.Issues {
			fmt.Fprintf(out, "  line %d [%s/%s] %s\n", issue.Line, issue.Severity, issue.Type, issue.Message)
		}
	}
	if len(report.Issues) > 0 {
		return errLintIssuesFound
	}
	return nil
}

// errLintIssuesFound signals a nonzero exit (handled in main) without
// printing its own message — the report above already told the operator
// what's wrong.
var errLintIssuesFound = silentError{}

type silentError struct{}

func (silentError) Error() string { return "" }
