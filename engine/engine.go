// Package engine wires parser, splitter, pivot, and mart into three entry
// points — process a full document, process a single Q&A pair, process a
// bare list of utterance texts — plus the two mart-writing operations. It
// is the only layer besides mart.Writer that performs I/O or carries a
// context.Context, following the same Structured/Convenience two-layer API
// as the rest of the pipeline: an Engine struct for callers who already
// hold a *lexicon.Lexicon, and top-level convenience functions
// (AnalyzeInterview, AnalyzeTexts) backed by a package-level default
// Engine, the way parser.Parse wraps a package-level default Parser over
// the embedded lexicon.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/mart"
	"github.com/insightseries/pivot-insight/parser"
	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/splitter"
)

// Engine orchestrates one parse/split/classify pipeline over an injected
// lexicon and configuration.
type Engine struct {
	parser     *parser.Parser
	splitter   *splitter.Splitter
	classifier *pivot.Classifier
	writer     mart.Writer
}

// New constructs an Engine backed by lex, splitOpts, and classifierCfg.
// It returns an error only if splitOpts is invalid (min_length >
// max_length); lex and classifierCfg cannot make construction fail.
func New(lex *lexicon.Lexicon, splitOpts splitter.Options, classifierCfg pivot.Config) (*Engine, error) {
	sp, err := splitter.New(splitOpts)
	if err != nil {
		return nil, err
	}
	return &Engine{
		parser:     parser.New(lex),
		splitter:   sp,
		classifier: pivot.New(lex, classifierCfg),
		writer:     mart.NewWriter(),
	}, nil
}

// QAInput is one question/answer pair to classify in isolation, outside
// the context of a full document.
type QAInput struct {
	Question     string
	Answer       string
	QuestionNo   int
	InterviewID  string
	SpeakerID    string
	Role         string
	Department   string
}

// Process parses a full interview document and classifies every utterance
// split out of its answer sections.
func (e *Engine) Process(ctx context.Context, text string) (pivot.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return pivot.ClassificationResult{}, err
	}

	doc, err := e.parser.Parse(text)
	if err != nil {
		return pivot.ClassificationResult{}, fmt.Errorf("engine: parsing document: %w", err)
	}

	var utterances []pivot.Utterance
	for _, section := range doc.Sections {
		meta := splitter.Meta{
			SpeakerID:    doc.Metadata.Respondent,
			Role:         doc.Metadata.Role,
			Department:   doc.Metadata.Department,
			QuestionNo:   section.QuestionNo,
			QuestionText: section.QuestionText,
			InterviewID:  doc.Metadata.InterviewID,
			BaseLineNo:   section.LineNo,
		}
		utterances = append(utterances, e.splitter.Split(section.AnswerText, meta)...)
	}

	return e.classifier.Classify(utterances), nil
}

// ProcessQA classifies a single question/answer pair without requiring
// the surrounding document markup Process expects.
func (e *Engine) ProcessQA(ctx context.Context, in QAInput) (pivot.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return pivot.ClassificationResult{}, err
	}

	meta := splitter.Meta{
		SpeakerID:    in.SpeakerID,
		Role:         in.Role,
		Department:   in.Department,
		QuestionNo:   in.QuestionNo,
		QuestionText: in.Question,
		InterviewID:  in.InterviewID,
		BaseLineNo:   1,
	}
	utterances := e.splitter.Split(in.Answer, meta)
	return e.classifier.Classify(utterances), nil
}

// ProcessTexts classifies a bare list of already-segmented utterance
// texts, bypassing both parsing and splitting.
func (e *Engine) ProcessTexts(ctx context.Context, texts []string) (pivot.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return pivot.ClassificationResult{}, err
	}

	utterances := make([]pivot.Utterance, 0, len(texts))
	for i, t := range texts {
		utterances = append(utterances, pivot.Utterance{ID: fmt.Sprintf("text-%d", i), Text: t})
	}
	return e.classifier.Classify(utterances), nil
}

// dateLayout is the mart "defaults to today" layout.
const dateLayout = "2006-01-02"

// SaveMarts writes one mart.Insight per classified item in result to path
// as newline-delimited JSON. observedAt is stamped onto every record's
// source_time; an empty string defaults to today (UTC) when the caller
// omits it. Each record's doc_id comes from the originating insight's own
// provenance (PIVOTInsight.Source.InterviewID), not a single path-wide
// value, since one ClassificationResult can span multiple interviews
// (e.g. built via ProcessTexts from several documents).
func (e *Engine) SaveMarts(ctx context.Context, result pivot.ClassificationResult, path, observedAt string) error {
	if observedAt == "" {
		observedAt = time.Now().UTC().Format(dateLayout)
	}

	insights := make([]mart.Insight, len(result.Items))
	for i, ins := range result.Items {
		insights[i] = mart.NewInsight(ins, ins.Source.InterviewID, observedAt)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: creating %s: %w", path, err)
	}
	defer f.Close()

	return e.writer.WriteInsights(ctx, f, insights)
}

// SaveSummaryMart writes result's period Summary to path as a single
// indented JSON object.
func (e *Engine) SaveSummaryMart(ctx context.Context, result pivot.ClassificationResult, path, periodStart, periodEnd, periodType string) error {
	summary := mart.NewSummary(result, periodType, periodStart, periodEnd)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: creating %s: %w", path, err)
	}
	defer f.Close()

	return e.writer.WriteSummary(ctx, f, summary)
}

var defaultEngine = func() *Engine {
	lex := lexicon.MustLoad()
	e, err := New(lex, splitter.DefaultOptions(), pivot.DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: building default engine: %v", err))
	}
	return e
}()

// AnalyzeInterview classifies a full interview document using the
// default engine (embedded lexicon, default splitter and classifier
// configuration). It is the package-level convenience counterpart of
// (*Engine).Process.
func AnalyzeInterview(ctx context.Context, text string) (pivot.ClassificationResult, error) {
	return defaultEngine.Process(ctx, text)
}

// AnalyzeTexts classifies a bare list of utterance texts using the
// default engine. It is the package-level convenience counterpart of
// (*Engine).ProcessTexts.
func AnalyzeTexts(ctx context.Context, texts []string) (pivot.ClassificationResult, error) {
	return defaultEngine.ProcessTexts(ctx, texts)
}
