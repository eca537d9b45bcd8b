//go:build ignore

// e2e_pipeline exercises the PIVOT analysis pipeline end to end — parsing,
// splitting, morphology, pattern fallback, layer/temperature tagging,
// classification, and mart emission — and writes structured results to
// data/e2e_pipeline.log.
// Run from the project root:
//
//	go run e2e/e2e_pipeline.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/insightseries/pivot-insight/datetime"
	"github.com/insightseries/pivot-insight/engine"
	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/keywords"
	"github.com/insightseries/pivot-insight/layer"
	"github.com/insightseries/pivot-insight/mart"
	"github.com/insightseries/pivot-insight/morph"
	"github.com/insightseries/pivot-insight/ner"
	"github.com/insightseries/pivot-insight/normalize"
	"github.com/insightseries/pivot-insight/parser"
	"github.com/insightseries/pivot-insight/pattern"
	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/splitter"
	"github.com/insightseries/pivot-insight/temperature"
	"github.com/insightseries/pivot-insight/tokenizer"
	"github.com/insightseries/pivot-insight/validate"
	"github.com/insightseries/pivot-insight/voice"
)

// ---------- constants ----------

const (
	logPath      = "data/e2e_pipeline.log"
	moduleCount  = 14
	maxDetailLen = 200
	concWorkers  = 8
	concIter     = 100
	separator    = "=========================================================="
	suiteCount   = 14
	goldenDir    = "data/golden"
	truncMaxRunes = 80
)

// ---------- test corpus ----------

const textPain = `工程管理が非常に遅くて困っている。毎回同じ確認作業で残業が増えてしまう。`

const textVision = `来期はもっと自動化を進めたい。承認フローを一本化できれば理想的だ。`

const textObjection = `そのツールは導入したくない。前にも似たもので失敗した経験がある。`

const textTraction = `新しい申請システムのおかげでとても助かっている。処理時間が半分になった。`

const textWithEntities = `担当者の連絡先は info@example.com、電話は03-1234-5678です。予算は¥500,000でした。`

const textWithDates = `先週の月曜日に打ち合わせがあり、来月の5日までに資料を提出する予定です。`

const textKeywordsSample = `承認フローの遅延が続いている。承認フローの見直しが必要で、承認フローに関する相談を何度も受けている。`

const textBroken = `見出しのない本文だけの行。

Q1. 現在の課題は？
困っていることが多い。

Q1. 重複した質問番号
同じ番号をもう一度使っている。`

const sampleDocument = `# 業務改善インタビュー

メタデータ:
- インタビューID: INT_20260301_ab12cd
- 回答者: 山田太郎
- 会社: 株式会社サンプル
- 役職: マネージャー
- 部署: 経理部
- 日付: 2026-03-01
- インタビュアー: 鈴木
- 所要時間: 45分

Q1. 現在の業務で困っていることはありますか？
工程管理が非常に遅くて困っている。毎回同じ確認作業で残業が増えてしまう。承認フローが複雑すぎる。

Q2. 今後どうしていきたいですか？
来期はもっと自動化を進めたい。承認フローを一本化できれば理想的だ。

Q3. 最近うまくいったことはありますか？
新しい申請システムのおかげでとても助かっている。処理時間が半分になった。
`

// ---------- types ----------

type testResult struct {
	name     string
	module   string
	passed   bool
	duration time.Duration
	detail   string
}

type moduleReport struct {
	name     string
	tests    int
	passed   int
	failed   int
	duration time.Duration
}

// ---------- helpers ----------

func pass(module, name string, start time.Time) testResult {
	return testResult{name: name, module: module, passed: true, duration: time.Since(start)}
}

func fail(module, name, detail string, start time.Time) testResult {
	return testResult{name: name, module: module, passed: false, duration: time.Since(start), detail: truncate(detail, maxDetailLen)}
}

func truncate(s string, maxRunes int) string {
	n := 0
	for i := range s {
		n++
		if n > maxRunes {
			return s[:i] + "..."
		}
	}
	return s
}

func safeRun(module, name string, fn func() testResult) (r testResult) {
	defer func() {
		if p := recover(); p != nil {
			r = fail(module, name, fmt.Sprintf("PANIC: %v", p), time.Now())
		}
	}()
	return fn()
}

// ---------- test suites ----------

func testDatetime() []testResult {
	const mod = "datetime"
	var results []testResult
	ref := time.Date(2026, time.February, 20, 10, 30, 0, 0, time.UTC)

	results = append(results, safeRun(mod, "parse_kanji_date", func() testResult {
		start := time.Now()
		r, err := datetime.Parse("3月5日", ref)
		if err != nil {
			return fail(mod, "parse_kanji_date", fmt.Sprintf("Parse error: %v", err), start)
		}
		if r.Time.Month() != time.March || r.Time.Day() != 5 {
			return fail(mod, "parse_kanji_date",
				fmt.Sprintf("got %v, want month=3 day=5", r.Time.Format("2006-01-02")), start)
		}
		return pass(mod, "parse_kanji_date", start)
	}))

	results = append(results, safeRun(mod, "parse_relative", func() testResult {
		start := time.Now()
		r, err := datetime.Parse("明日", ref)
		if err != nil {
			return fail(mod, "parse_relative", fmt.Sprintf("Parse error: %v", err), start)
		}
		if r.Time.Day() != ref.AddDate(0, 0, 1).Day() {
			return fail(mod, "parse_relative", fmt.Sprintf("got day=%d, want %d", r.Time.Day(), ref.AddDate(0, 0, 1).Day()), start)
		}
		return pass(mod, "parse_relative", start)
	}))

	results = append(results, safeRun(mod, "extract_offsets", func() testResult {
		start := time.Now()
		rs := datetime.Extract(textWithDates, ref)
		if len(rs) == 0 {
			return fail(mod, "extract_offsets", "Extract returned 0 results", start)
		}
		for _, r := range rs {
			if r.Start < 0 || r.End > len(textWithDates) || r.Start >= r.End {
				return fail(mod, "extract_offsets",
					fmt.Sprintf("invalid offset [%d:%d] for text len %d", r.Start, r.End, len(textWithDates)), start)
			}
			if textWithDates[r.Start:r.End] != r.Text {
				return fail(mod, "extract_offsets", "offset invariant broken", start)
			}
		}
		return pass(mod, "extract_offsets", start)
	}))

	return results
}

func testNER() []testResult {
	const mod = "ner"
	var results []testResult

	entities := ner.Recognize(textWithEntities)

	findEntity := func(typ ner.EntityType) *ner.Entity {
		for i := range entities {
			if entities[i].Type == typ {
				return &entities[i]
			}
		}
		return nil
	}

	results = append(results, safeRun(mod, "recognize_email", func() testResult {
		start := time.Now()
		e := findEntity(ner.Email)
		if e == nil {
			return fail(mod, "recognize_email", "no Email entity found", start)
		}
		if e.Text != "info@example.com" {
			return fail(mod, "recognize_email", fmt.Sprintf("Email text=%q", e.Text), start)
		}
		return pass(mod, "recognize_email", start)
	}))

	results = append(results, safeRun(mod, "recognize_phone", func() testResult {
		start := time.Now()
		e := findEntity(ner.Phone)
		if e == nil {
			return fail(mod, "recognize_phone", "no Phone entity found", start)
		}
		if !strings.Contains(e.Text, "1234-5678") {
			return fail(mod, "recognize_phone", fmt.Sprintf("Phone text=%q", e.Text), start)
		}
		return pass(mod, "recognize_phone", start)
	}))

	results = append(results, safeRun(mod, "recognize_yen_amount", func() testResult {
		start := time.Now()
		e := findEntity(ner.YenAmount)
		if e == nil {
			return fail(mod, "recognize_yen_amount", "no YenAmount entity found", start)
		}
		return pass(mod, "recognize_yen_amount", start)
	}))

	results = append(results, safeRun(mod, "offset_invariant", func() testResult {
		start := time.Now()
		for _, e := range entities {
			slice := textWithEntities[e.Start:e.End]
			if slice != e.Text {
				return fail(mod, "offset_invariant",
					fmt.Sprintf("text[%d:%d]=%q != entity.Text=%q", e.Start, e.End, slice, e.Text), start)
			}
		}
		return pass(mod, "offset_invariant", start)
	}))

	return results
}

func testTokenizer() []testResult {
	const mod = "tokenizer"
	var results []testResult

	results = append(results, safeRun(mod, "word_tokens_reconstruction", func() testResult {
		start := time.Now()
		tokens := tokenizer.WordTokens(textPain)
		var sb strings.Builder
		for _, t := range tokens {
			sb.WriteString(t.Text)
		}
		if sb.String() != textPain {
			return fail(mod, "word_tokens_reconstruction", "concatenated tokens != original", start)
		}
		return pass(mod, "word_tokens_reconstruction", start)
	}))

	results = append(results, safeRun(mod, "word_tokens_offset_invariant", func() testResult {
		start := time.Now()
		tokens := tokenizer.WordTokens(textPain)
		for _, t := range tokens {
			slice := textPain[t.Start:t.End]
			if slice != t.Text {
				return fail(mod, "word_tokens_offset_invariant",
					fmt.Sprintf("text[%d:%d]=%q != token.Text=%q", t.Start, t.End, slice, t.Text), start)
			}
		}
		return pass(mod, "word_tokens_offset_invariant", start)
	}))

	results = append(results, safeRun(mod, "sentence_tokens_offset_invariant", func() testResult {
		start := time.Now()
		tokens := tokenizer.SentenceTokens(textPain)
		for _, t := range tokens {
			slice := textPain[t.Start:t.End]
			if slice != t.Text {
				return fail(mod, "sentence_tokens_offset_invariant",
					fmt.Sprintf("text[%d:%d]=%q != token.Text=%q", t.Start, t.End, slice, t.Text), start)
			}
		}
		return pass(mod, "sentence_tokens_offset_invariant", start)
	}))

	results = append(results, safeRun(mod, "sentences_count", func() testResult {
		start := time.Now()
		sents := tokenizer.Sentences(textPain)
		if len(sents) != 2 {
			return fail(mod, "sentences_count", fmt.Sprintf("expected 2 sentences, got %d", len(sents)), start)
		}
		return pass(mod, "sentences_count", start)
	}))

	return results
}

func testNormalize() []testResult {
	const mod = "normalize"
	var results []testResult

	results = append(results, safeRun(mod, "fold_zenkaku_ascii", func() testResult {
		start := time.Now()
		out := normalize.Normalize("ＡＢＣ１２３")
		if out != "ABC123" {
			return fail(mod, "fold_zenkaku_ascii", fmt.Sprintf("got %q, want \"ABC123\"", out), start)
		}
		return pass(mod, "fold_zenkaku_ascii", start)
	}))

	results = append(results, safeRun(mod, "collapse_whitespace", func() testResult {
		start := time.Now()
		out := normalize.Normalize("工程　　管理")
		if strings.Contains(out, "  ") {
			return fail(mod, "collapse_whitespace", fmt.Sprintf("whitespace not collapsed: %q", out), start)
		}
		return pass(mod, "collapse_whitespace", start)
	}))

	results = append(results, safeRun(mod, "idempotent", func() testResult {
		start := time.Now()
		out := normalize.Normalize(textPain)
		if out != textPain {
			return fail(mod, "idempotent", "Normalize changed already-canonical text", start)
		}
		return pass(mod, "idempotent", start)
	}))

	return results
}

func testKeywords() []testResult {
	const mod = "keywords"
	var results []testResult

	results = append(results, safeRun(mod, "extract_ranked", func() testResult {
		start := time.Now()
		kws := keywords.Extract(textKeywordsSample, 5)
		if len(kws) == 0 || len(kws) > 5 {
			return fail(mod, "extract_ranked", fmt.Sprintf("Extract returned %d keywords, want 1-5", len(kws)), start)
		}
		found := false
		for _, kw := range kws {
			if strings.Contains(kw.Normalized, "承認") {
				found = true
				break
			}
		}
		if !found {
			return fail(mod, "extract_ranked", "no 承認-related keyword in result", start)
		}
		return pass(mod, "extract_ranked", start)
	}))

	results = append(results, safeRun(mod, "surfaces_convenience", func() testResult {
		start := time.Now()
		ss := keywords.Surfaces(textKeywordsSample)
		if len(ss) == 0 {
			return fail(mod, "surfaces_convenience", "Surfaces returned empty slice", start)
		}
		return pass(mod, "surfaces_convenience", start)
	}))

	return results
}

func testValidate() []testResult {
	const mod = "validate"
	var results []testResult

	results = append(results, safeRun(mod, "well_formed_high_score", func() testResult {
		start := time.Now()
		report, err := validate.Validate(sampleDocument)
		if err != nil {
			return fail(mod, "well_formed_high_score", fmt.Sprintf("Validate error: %v", err), start)
		}
		if report.Score < 80 {
			return fail(mod, "well_formed_high_score",
				fmt.Sprintf("Score=%d, want >=80 (issues=%d)", report.Score, len(report.Issues)), start)
		}
		return pass(mod, "well_formed_high_score", start)
	}))

	results = append(results, safeRun(mod, "broken_has_issues", func() testResult {
		start := time.Now()
		report, err := validate.Validate(textBroken)
		if err != nil {
			return fail(mod, "broken_has_issues", fmt.Sprintf("Validate error: %v", err), start)
		}
		if len(report.Issues) == 0 {
			return fail(mod, "broken_has_issues", "no issues found in broken document", start)
		}
		return pass(mod, "broken_has_issues", start)
	}))

	results = append(results, safeRun(mod, "is_valid", func() testResult {
		start := time.Now()
		if !validate.IsValid(sampleDocument) {
			return fail(mod, "is_valid", "IsValid returned false for well-formed document", start)
		}
		return pass(mod, "is_valid", start)
	}))

	return results
}

func testMorph() []testResult {
	const mod = "morph"
	var results []testResult

	results = append(results, safeRun(mod, "infer_pain", func() testResult {
		start := time.Now()
		f := morph.Analyze(textPain)
		inf, ok := morph.Infer(f)
		if !ok {
			return fail(mod, "infer_pain", "Infer reached no verdict", start)
		}
		if inf.Voice != voice.Pain {
			return fail(mod, "infer_pain", fmt.Sprintf("Voice=%v, want Pain (reason=%s)", inf.Voice, inf.Reason), start)
		}
		return pass(mod, "infer_pain", start)
	}))

	results = append(results, safeRun(mod, "infer_traction", func() testResult {
		start := time.Now()
		f := morph.Analyze(textTraction)
		inf, ok := morph.Infer(f)
		if !ok {
			return fail(mod, "infer_traction", "Infer reached no verdict", start)
		}
		if inf.Voice != voice.Traction {
			return fail(mod, "infer_traction", fmt.Sprintf("Voice=%v, want Traction (reason=%s)", inf.Voice, inf.Reason), start)
		}
		return pass(mod, "infer_traction", start)
	}))

	results = append(results, safeRun(mod, "features_bounds", func() testResult {
		start := time.Now()
		f := morph.Analyze(textVision)
		if f.SentimentScore < -1 || f.SentimentScore > 1 {
			return fail(mod, "features_bounds", fmt.Sprintf("SentimentScore=%.2f out of [-1,1]", f.SentimentScore), start)
		}
		if f.Certainty < 0 || f.Certainty > 1 {
			return fail(mod, "features_bounds", fmt.Sprintf("Certainty=%.2f out of [0,1]", f.Certainty), start)
		}
		return pass(mod, "features_bounds", start)
	}))

	return results
}

func testPattern() []testResult {
	const mod = "pattern"
	var results []testResult

	results = append(results, safeRun(mod, "classify_objection", func() testResult {
		start := time.Now()
		r, ok := pattern.Classify(textObjection)
		if !ok {
			return fail(mod, "classify_objection", "Classify found no match", start)
		}
		if r.Voice != voice.Objection {
			return fail(mod, "classify_objection", fmt.Sprintf("Voice=%v, want Objection", r.Voice), start)
		}
		if r.Confidence <= 0 || r.Confidence > 0.95 {
			return fail(mod, "classify_objection", fmt.Sprintf("Confidence=%.2f out of (0,0.95]", r.Confidence), start)
		}
		return pass(mod, "classify_objection", start)
	}))

	return results
}

func testLayerTemperature() []testResult {
	const mod = "layer_temperature"
	var results []testResult

	results = append(results, safeRun(mod, "layer_process_extracted", func() testResult {
		start := time.Now()
		l := layer.Extract(textPain)
		if !l.Any() {
			return fail(mod, "layer_process_extracted", "no layer populated for process-heavy utterance", start)
		}
		return pass(mod, "layer_process_extracted", start)
	}))

	results = append(results, safeRun(mod, "temperature_detect", func() testResult {
		start := time.Now()
		t := temperature.Detect(textPain)
		if t < temperature.Low || t > temperature.High {
			return fail(mod, "temperature_detect", fmt.Sprintf("Temperature=%v out of range", t), start)
		}
		return pass(mod, "temperature_detect", start)
	}))

	return results
}

func testParserSplitter() []testResult {
	const mod = "parser_splitter"
	var results []testResult

	results = append(results, safeRun(mod, "parse_document_structure", func() testResult {
		start := time.Now()
		doc, err := parser.Parse(sampleDocument)
		if err != nil {
			return fail(mod, "parse_document_structure", fmt.Sprintf("Parse error: %v", err), start)
		}
		if doc.Title == "" {
			return fail(mod, "parse_document_structure", "Title is empty", start)
		}
		if len(doc.Sections) != 3 {
			return fail(mod, "parse_document_structure", fmt.Sprintf("len(Sections)=%d, want 3", len(doc.Sections)), start)
		}
		if doc.Metadata.InterviewID != "INT_20260301_ab12cd" {
			return fail(mod, "parse_document_structure",
				fmt.Sprintf("InterviewID=%q, want INT_20260301_ab12cd", doc.Metadata.InterviewID), start)
		}
		return pass(mod, "parse_document_structure", start)
	}))

	results = append(results, safeRun(mod, "split_into_utterances", func() testResult {
		start := time.Now()
		s, err := splitter.New(splitter.DefaultOptions())
		if err != nil {
			return fail(mod, "split_into_utterances", fmt.Sprintf("New error: %v", err), start)
		}
		utts := s.Split(textPain, splitter.Meta{InterviewID: "INT_test", QuestionNo: 1})
		if len(utts) == 0 {
			return fail(mod, "split_into_utterances", "Split returned 0 utterances", start)
		}
		for i, u := range utts {
			if u.LineNo != i {
				return fail(mod, "split_into_utterances", fmt.Sprintf("utterance %d has LineNo=%d", i, u.LineNo), start)
			}
		}
		return pass(mod, "split_into_utterances", start)
	}))

	results = append(results, safeRun(mod, "invalid_options_rejected", func() testResult {
		start := time.Now()
		_, err := splitter.New(splitter.Options{MinLength: 100, MaxLength: 10})
		if err == nil {
			return fail(mod, "invalid_options_rejected", "New accepted MinLength > MaxLength", start)
		}
		if _, ok := err.(splitter.InvalidOptionsError); !ok {
			return fail(mod, "invalid_options_rejected", fmt.Sprintf("error is %T, want splitter.InvalidOptionsError", err), start)
		}
		return pass(mod, "invalid_options_rejected", start)
	}))

	return results
}

func testClassifierAndMart() []testResult {
	const mod = "classifier_mart"
	var results []testResult

	lex := lexicon.MustLoad()
	clf := pivot.New(lex, pivot.DefaultConfig())
	w := mart.NewWriter()

	results = append(results, safeRun(mod, "classify_mixed_utterances", func() testResult {
		start := time.Now()
		utts := []pivot.Utterance{
			{ID: "u1", Text: textPain, InterviewID: "INT_test", QuestionNo: 1},
			{ID: "u2", Text: textVision, InterviewID: "INT_test", QuestionNo: 2},
			{ID: "u3", Text: textObjection, InterviewID: "INT_test", QuestionNo: 3},
			{ID: "u4", Text: textTraction, InterviewID: "INT_test", QuestionNo: 4},
		}
		result := clf.Classify(utts)
		if len(result.Items) == 0 {
			return fail(mod, "classify_mixed_utterances", "Classify returned 0 items", start)
		}
		if len(result.ByVoice) == 0 {
			return fail(mod, "classify_mixed_utterances", "ByVoice is empty", start)
		}
		if result.Stats.InsightCount != len(result.Items) {
			return fail(mod, "classify_mixed_utterances",
				fmt.Sprintf("Stats.InsightCount=%d != len(Items)=%d", result.Stats.InsightCount, len(result.Items)), start)
		}
		return pass(mod, "classify_mixed_utterances", start)
	}))

	results = append(results, safeRun(mod, "priority_matrix", func() testResult {
		start := time.Now()
		urgentUtts := []pivot.Utterance{
			{ID: "u1", Text: textPain, InterviewID: "INT_test", QuestionNo: 1},
		}
		result := clf.Classify(urgentUtts)
		matrix := pivot.PriorityMatrix(result.ByProcess)
		if matrix == nil {
			return fail(mod, "priority_matrix", "PriorityMatrix returned nil", start)
		}
		return pass(mod, "priority_matrix", start)
	}))

	results = append(results, safeRun(mod, "write_insights_ndjson", func() testResult {
		start := time.Now()
		utts := []pivot.Utterance{{ID: "u1", Text: textPain, InterviewID: "INT_test", QuestionNo: 1}}
		result := clf.Classify(utts)
		if len(result.Items) == 0 {
			return fail(mod, "write_insights_ndjson", "no items to write", start)
		}
		insights := make([]mart.Insight, len(result.Items))
		for i, item := range result.Items {
			insights[i] = mart.NewInsight(item, "INT_test", "2026-03-01")
		}
		var sb strings.Builder
		if err := w.WriteInsights(context.Background(), &sb, insights); err != nil {
			return fail(mod, "write_insights_ndjson", fmt.Sprintf("WriteInsights error: %v", err), start)
		}
		lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
		if len(lines) != len(insights) {
			return fail(mod, "write_insights_ndjson", fmt.Sprintf("wrote %d lines, want %d", len(lines), len(insights)), start)
		}
		var decoded mart.Insight
		if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
			return fail(mod, "write_insights_ndjson", fmt.Sprintf("line 0 not valid JSON: %v", err), start)
		}
		if decoded.MartType != "pivot_insight" {
			return fail(mod, "write_insights_ndjson", fmt.Sprintf("MartType=%q, want pivot_insight", decoded.MartType), start)
		}
		return pass(mod, "write_insights_ndjson", start)
	}))

	results = append(results, safeRun(mod, "write_summary_mart", func() testResult {
		start := time.Now()
		utts := []pivot.Utterance{
			{ID: "u1", Text: textPain, InterviewID: "INT_test", QuestionNo: 1},
			{ID: "u2", Text: textTraction, InterviewID: "INT_test", QuestionNo: 2},
		}
		result := clf.Classify(utts)
		summary := mart.NewSummary(result, "month", "2026-03-01", "2026-03-31")
		var sb strings.Builder
		if err := w.WriteSummary(context.Background(), &sb, summary); err != nil {
			return fail(mod, "write_summary_mart", fmt.Sprintf("WriteSummary error: %v", err), start)
		}
		var decoded mart.Summary
		if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
			return fail(mod, "write_summary_mart", fmt.Sprintf("output not valid JSON: %v", err), start)
		}
		if decoded.MartType != "pivot_summary" {
			return fail(mod, "write_summary_mart", fmt.Sprintf("MartType=%q, want pivot_summary", decoded.MartType), start)
		}
		return pass(mod, "write_summary_mart", start)
	}))

	return results
}

func testEngine() []testResult {
	const mod = "engine"
	var results []testResult

	results = append(results, safeRun(mod, "process_document", func() testResult {
		start := time.Now()
		result, err := engine.AnalyzeInterview(context.Background(), sampleDocument)
		if err != nil {
			return fail(mod, "process_document", fmt.Sprintf("AnalyzeInterview error: %v", err), start)
		}
		if result.Stats.UtteranceCount == 0 {
			return fail(mod, "process_document", "UtteranceCount is 0", start)
		}
		if result.Stats.InsightCount == 0 {
			return fail(mod, "process_document", "InsightCount is 0", start)
		}
		return pass(mod, "process_document", start)
	}))

	results = append(results, safeRun(mod, "process_texts", func() testResult {
		start := time.Now()
		result, err := engine.AnalyzeTexts(context.Background(), []string{textPain, textVision, textTraction})
		if err != nil {
			return fail(mod, "process_texts", fmt.Sprintf("AnalyzeTexts error: %v", err), start)
		}
		if len(result.Items) == 0 {
			return fail(mod, "process_texts", "Items is empty", start)
		}
		return pass(mod, "process_texts", start)
	}))

	results = append(results, safeRun(mod, "process_qa", func() testResult {
		start := time.Now()
		lex := lexicon.MustLoad()
		eng, err := engine.New(lex, splitter.DefaultOptions(), pivot.DefaultConfig())
		if err != nil {
			return fail(mod, "process_qa", fmt.Sprintf("New error: %v", err), start)
		}
		result, err := eng.ProcessQA(context.Background(), engine.QAInput{
			Question:    "今後の展望は？",
			Answer:      textVision,
			QuestionNo:  1,
			InterviewID: "INT_qa_test",
		})
		if err != nil {
			return fail(mod, "process_qa", fmt.Sprintf("ProcessQA error: %v", err), start)
		}
		if len(result.Items) == 0 {
			return fail(mod, "process_qa", "ProcessQA produced 0 items", start)
		}
		return pass(mod, "process_qa", start)
	}))

	return results
}

func testConcurrent() []testResult {
	const mod = "concurrent"
	var results []testResult

	results = append(results, safeRun(mod, "all_modules_8_goroutines_x100", func() testResult {
		start := time.Now()
		ref := time.Date(2026, time.February, 20, 10, 30, 0, 0, time.UTC)
		var panics atomic.Int64
		var wg sync.WaitGroup

		for range concWorkers {
			wg.Go(func() {
				for range concIter {
					func() {
						defer func() {
							if p := recover(); p != nil {
								panics.Add(1)
							}
						}()
						tokenizer.WordTokens(textPain)
						tokenizer.Sentences(textPain)
						_, _ = datetime.Parse("明日", ref)
						ner.Recognize(textWithEntities)
						normalize.Normalize(textPain)
						keywords.Surfaces(textKeywordsSample)
						_, _ = validate.Validate(sampleDocument)
						morph.Analyze(textPain)
						pattern.Classify(textObjection)
						layer.Extract(textPain)
						temperature.Detect(textPain)
						_, _ = parser.Parse(sampleDocument)
						_, _ = engine.AnalyzeTexts(context.Background(), []string{textPain})
					}()
				}
			})
		}
		wg.Wait()

		if n := panics.Load(); n > 0 {
			return fail(mod, "all_modules_8_goroutines_x100",
				fmt.Sprintf("%d panics detected across goroutines", n), start)
		}
		return pass(mod, "all_modules_8_goroutines_x100", start)
	}))

	return results
}

// ---------- corpus helpers ----------

// goldenEntry represents one entry from a golden JSON test file.
type goldenEntry struct {
	Input string `json:"input"`
}

// loadGoldenCorpus reads all golden JSON files and returns concatenated input texts.
func loadGoldenCorpus() (string, int, error) {
	files, err := filepath.Glob(filepath.Join(goldenDir, "*.json"))
	if err != nil {
		return "", 0, err
	}
	if len(files) == 0 {
		return "", 0, fmt.Errorf("no golden files found in %s", goldenDir)
	}

	var texts []string
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return "", 0, fmt.Errorf("reading %s: %w", f, err)
		}
		var entries []goldenEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			continue // skip non-array golden files
		}
		for _, e := range entries {
			if e.Input != "" {
				texts = append(texts, e.Input)
			}
		}
	}
	corpus := strings.Join(texts, "\n\n")
	return corpus, len(texts), nil
}

func testCorpus() []testResult {
	const mod = "corpus"
	var results []testResult

	corpus, inputCount, err := loadGoldenCorpus()
	if err != nil {
		results = append(results, fail(mod, "load_golden_corpus", fmt.Sprintf("error: %v", err), time.Now()))
		return results
	}

	results = append(results, safeRun(mod, "load_golden_corpus", func() testResult {
		start := time.Now()
		if inputCount == 0 {
			return fail(mod, "load_golden_corpus", "no inputs found", start)
		}
		log.Printf("  corpus: %d inputs, %d bytes", inputCount, len(corpus))
		return pass(mod, "load_golden_corpus", start)
	}))

	results = append(results, safeRun(mod, "tokenize_full_corpus", func() testResult {
		start := time.Now()
		tokens := tokenizer.WordTokens(corpus)
		if len(tokens) == 0 {
			return fail(mod, "tokenize_full_corpus", "WordTokens returned 0 tokens", start)
		}
		var sb strings.Builder
		for _, t := range tokens {
			sb.WriteString(t.Text)
		}
		if sb.String() != corpus {
			return fail(mod, "tokenize_full_corpus", "reconstruction failed on full corpus", start)
		}
		return pass(mod, "tokenize_full_corpus", start)
	}))

	results = append(results, safeRun(mod, "ner_full_corpus", func() testResult {
		start := time.Now()
		entities := ner.Recognize(corpus)
		for _, e := range entities {
			if e.Start < 0 || e.End > len(corpus) || e.Start >= e.End {
				return fail(mod, "ner_full_corpus",
					fmt.Sprintf("invalid offset [%d:%d]", e.Start, e.End), start)
			}
			if corpus[e.Start:e.End] != e.Text {
				return fail(mod, "ner_full_corpus",
					fmt.Sprintf("offset invariant broken for %s entity", e.Type), start)
			}
		}
		return pass(mod, "ner_full_corpus", start)
	}))

	results = append(results, safeRun(mod, "normalize_full_corpus", func() testResult {
		start := time.Now()
		out := normalize.Normalize(corpus)
		if out == "" && corpus != "" {
			return fail(mod, "normalize_full_corpus", "Normalize returned empty for non-empty corpus", start)
		}
		return pass(mod, "normalize_full_corpus", start)
	}))

	results = append(results, safeRun(mod, "keywords_full_corpus", func() testResult {
		start := time.Now()
		kws := keywords.Surfaces(corpus)
		if len(kws) == 0 {
			return fail(mod, "keywords_full_corpus", "Surfaces returned 0 results", start)
		}
		return pass(mod, "keywords_full_corpus", start)
	}))

	results = append(results, safeRun(mod, "morph_full_corpus", func() testResult {
		start := time.Now()
		f := morph.Analyze(corpus)
		if f.Certainty < 0 || f.Certainty > 1 {
			return fail(mod, "morph_full_corpus", fmt.Sprintf("Certainty=%.2f out of [0,1]", f.Certainty), start)
		}
		return pass(mod, "morph_full_corpus", start)
	}))

	results = append(results, safeRun(mod, "classify_full_corpus", func() testResult {
		start := time.Now()
		s, err := splitter.New(splitter.DefaultOptions())
		if err != nil {
			return fail(mod, "classify_full_corpus", fmt.Sprintf("splitter.New error: %v", err), start)
		}
		utts := s.Split(corpus, splitter.Meta{InterviewID: "INT_corpus"})
		if len(utts) == 0 {
			return fail(mod, "classify_full_corpus", "Split returned 0 utterances", start)
		}
		lex := lexicon.MustLoad()
		clf := pivot.New(lex, pivot.DefaultConfig())
		result := clf.Classify(utts)
		if result.Stats.UtteranceCount != len(utts) {
			return fail(mod, "classify_full_corpus",
				fmt.Sprintf("Stats.UtteranceCount=%d, want %d", result.Stats.UtteranceCount, len(utts)), start)
		}
		return pass(mod, "classify_full_corpus", start)
	}))

	return results
}

// ---------- orchestration ----------

func runAllSuites() []testResult {
	suites := []func() []testResult{
		testDatetime,
		testNER,
		testTokenizer,
		testNormalize,
		testKeywords,
		testValidate,
		testMorph,
		testPattern,
		testLayerTemperature,
		testParserSplitter,
		testClassifierAndMart,
		testEngine,
		testConcurrent,
		testCorpus,
	}

	var all []testResult
	for _, suite := range suites {
		all = append(all, suite()...)
	}
	return all
}

func buildReports(results []testResult) []moduleReport {
	order := make(map[string]int)
	var reports []moduleReport

	for _, r := range results {
		idx, exists := order[r.module]
		if !exists {
			idx = len(reports)
			order[r.module] = idx
			reports = append(reports, moduleReport{name: r.module})
		}
		reports[idx].tests++
		reports[idx].duration += r.duration
		if r.passed {
			reports[idx].passed++
		} else {
			reports[idx].failed++
		}
	}
	return reports
}

func writeLog(path string, results []testResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)

	now := time.Now().UTC().Format(time.RFC3339)
	goVer := runtime.Version()
	platform := runtime.GOOS + "/" + runtime.GOARCH

	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw, "  pivot-insight E2E Pipeline Test")
	fmt.Fprintf(bw, "  Timestamp: %s\n", now)
	fmt.Fprintf(bw, "  Go: %s  OS: %s\n", goVer, platform)
	fmt.Fprintf(bw, "  Modules: %d\n", moduleCount)
	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw)

	reports := buildReports(results)
	var totalDuration time.Duration
	for _, rep := range reports {
		totalDuration += rep.duration
	}

	// Per-module sections.
	for _, rep := range reports {
		fmt.Fprintf(bw, "[%s] %d tests | %d passed | %d failed | %s\n",
			rep.name, rep.tests, rep.passed, rep.failed, rep.duration.Round(time.Microsecond))
		for _, r := range results {
			if r.module != rep.name {
				continue
			}
			status := "PASS"
			if !r.passed {
				status = "FAIL"
			}
			fmt.Fprintf(bw, "  %-6s %-45s %s\n", status, r.name, r.duration.Round(time.Microsecond))
		}
		fmt.Fprintln(bw)
	}

	// Failures section.
	var failures []testResult
	for _, r := range results {
		if !r.passed {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintln(bw, "--- FAILURES ---")
		for _, r := range failures {
			fmt.Fprintf(bw, "  FAIL  [%s] %-40s %s\n", r.module, r.name, r.duration.Round(time.Microsecond))
			if r.detail != "" {
				for line := range strings.SplitSeq(r.detail, "\n") {
					fmt.Fprintf(bw, "        %s\n", line)
				}
			}
		}
		fmt.Fprintln(bw)
	}

	// Summary.
	totalTests := len(results)
	totalPassed := 0
	totalFailed := 0
	for _, r := range results {
		if r.passed {
			totalPassed++
		} else {
			totalFailed++
		}
	}

	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "  SUMMARY: %d tests | %d passed | %d failed | %s\n",
		totalTests, totalPassed, totalFailed, totalDuration.Round(time.Microsecond))
	fmt.Fprintln(bw, separator)

	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(results []testResult) {
	reports := buildReports(results)
	totalPassed := 0
	totalFailed := 0
	var totalDuration time.Duration

	for _, rep := range reports {
		totalPassed += rep.passed
		totalFailed += rep.failed
		totalDuration += rep.duration

		status := "OK"
		if rep.failed > 0 {
			status = "FAIL"
		}
		log.Printf("  %-18s %d/%d %s", rep.name, rep.passed, rep.tests, status)
	}

	log.Printf("")
	log.Printf("  %d tests | %d passed | %d failed | %s",
		len(results), totalPassed, totalFailed, totalDuration.Round(time.Microsecond))

	for _, r := range results {
		if !r.passed {
			log.Printf("  FAIL [%s] %s: %s", r.module, r.name, r.detail)
		}
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[e2e] ")

	log.Printf("starting E2E pipeline test (%d modules, %d suites)", moduleCount, suiteCount)
	totalStart := time.Now()

	results := runAllSuites()

	log.Printf("completed in %s", time.Since(totalStart).Round(time.Microsecond))
	log.Printf("")

	printSummary(results)

	if err := writeLog(logPath, results); err != nil {
		log.Fatalf("cannot write log: %v", err)
	}
	log.Printf("log written to %s", logPath)

	for _, r := range results {
		if !r.passed {
			os.Exit(1)
		}
	}
}
