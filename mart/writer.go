package mart

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// Writer emits mart records to an io.Writer destination. It holds no state
// of its own; a new Writer is cheap to construct per call.
type Writer struct{}

// NewWriter constructs a Writer.
func NewWriter() Writer {
	return Writer{}
}

// WriteInsights writes one JSON object per line: newline-delimited, UTF-8,
// HTML-unescaped. It opens no file itself — the caller supplies the
// destination and owns its lifecycle — so a failure partway through leaves
// however many lines were already flushed; partial output on failure is a
// caller concern.
func (Writer) WriteInsights(ctx context.Context, w io.Writer, insights []Insight) error {
	bw := bufio.NewWriter(w)
	cfg := sonic.Config{EscapeHTML: false}.Froze()
	for i, insight := range insights {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := cfg.Marshal(insight)
		if err != nil {
			return fmt.Errorf("mart: marshaling insight %d: %w", i, err)
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("mart: writing insight %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("mart: writing insight %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteSummary writes a single indented JSON object, matching the
// <path>.summary.json contract (§6).
func (Writer) WriteSummary(ctx context.Context, w io.Writer, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := sonic.Config{EscapeHTML: false, SortMapKeys: true}.Froze()
	data, err := cfg.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("mart: marshaling summary: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("mart: writing summary: %w", err)
	}
	return nil
}
