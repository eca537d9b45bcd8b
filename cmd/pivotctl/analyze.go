package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightseries/pivot-insight/engine"
	"github.com/insightseries/pivot-insight/internal/config"
	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/internal/metrics"
	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/splitter"
	"github.com/insightseries/pivot-insight/voice"
)

var (
	analyzeOutPath     string
	analyzeSummaryPath string
	analyzeObservedAt  string
	analyzePeriodType  string
	analyzePeriodStart string
	analyzePeriodEnd   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [document.txt]",
	Short: "Classify an interview document and emit mart records",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutPath, "out", "", "Path to write the per-insight JSONL mart (required)")
	analyzeCmd.Flags().StringVar(&analyzeSummaryPath, "summary-out", "", "Path to write the period summary JSON (optional)")
	analyzeCmd.Flags().StringVar(&analyzeObservedAt, "observed-at", "", "Observation date, YYYY-MM-DD (defaults to today)")
	analyzeCmd.Flags().StringVar(&analyzePeriodType, "period-type", "month", "Summary period type")
	analyzeCmd.Flags().StringVar(&analyzePeriodStart, "period-start", "", "Summary period start, YYYY-MM-DD")
	analyzeCmd.Flags().StringVar(&analyzePeriodEnd, "period-end", "", "Summary period end, YYYY-MM-DD")
	analyzeCmd.MarkFlagRequired("out")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("pivotctl: reading %s: %w", args[0], err)
	}

	ctx := context.Background()
	start := time.Now()
	result, err := e.Process(ctx, string(text))
	metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("parse_error").Inc()
		return fmt.Errorf("pivotctl: analyzing %s: %w", args[0], err)
	}
	metrics.DocumentsProcessedTotal.WithLabelValues("ok").Inc()
	for _, ins := range result.Items {
		metrics.InsightsByVoiceTotal.WithLabelValues(ins.Voice.String()).Inc()
	}

	if err := e.SaveMarts(ctx, result, analyzeOutPath, analyzeObservedAt); err != nil {
		return fmt.Errorf("pivotctl: writing marts: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d insights to %s\n", len(result.Items), analyzeOutPath)

	if analyzeSummaryPath != "" {
		periodStart, periodEnd := analyzePeriodStart, analyzePeriodEnd
		if periodStart == "" {
			periodStart = analyzeObservedAt
		}
		if periodEnd == "" {
			periodEnd = periodStart
		}
		if err := e.SaveSummaryMart(ctx, result, analyzeSummaryPath, periodStart, periodEnd, analyzePeriodType); err != nil {
			return fmt.Errorf("pivotctl: writing summary: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote period summary to %s\n", analyzeSummaryPath)
	}
	return nil
}

// buildEngine constructs an engine.Engine from a loaded config, parsing
// its classifier domain name and propagating splitter bounds as-is
// (splitter.New rejects an invalid min/max pair at construction).
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	lex, err := lexicon.Load()
	if err != nil {
		return nil, fmt.Errorf("pivotctl: loading lexicon: %w", err)
	}

	domain, err := voice.ParseDomain(cfg.Classifier.Domain)
	if err != nil {
		return nil, fmt.Errorf("pivotctl: config: %w", err)
	}

	splitOpts := splitter.Options{
		SplitBySentence:    cfg.Splitter.SplitBySentence,
		SplitByConjunction: cfg.Splitter.SplitByConjunction,
		MinLength:          cfg.Splitter.MinLength,
		MaxLength:          cfg.Splitter.MaxLength,
	}
	classifierCfg := pivot.Config{
		Domain:        domain,
		MinConfidence: cfg.Classifier.MinConfidence,
		UseMorphology: cfg.Classifier.UseMorphology,
	}

	e, err := engine.New(lex, splitOpts, classifierCfg)
	if err != nil {
		return nil, fmt.Errorf("pivotctl: building engine: %w", err)
	}
	return e, nil
}
