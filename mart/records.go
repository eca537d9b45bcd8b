// Package mart builds and emits the denormalized insight records a
// classified interview is reduced to: one newline-delimited JSON object per
// insight, plus a single indented JSON period summary.
//
// Records are an algebraic sum in spirit — Insight | Summary — modeled as
// two distinct Go types sharing a MartType discriminator field rather than
// a single duck-typed map, avoiding string-keyed bags except at the
// serialization boundary.
//
// Building a record (NewInsight, NewSummary) is pure and takes no context;
// writing one (Writer) performs I/O and does, reserving context.Context for
// boundary-crossing calls.
package mart

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/insightseries/pivot-insight/keywords"
	"github.com/insightseries/pivot-insight/layer"
	"github.com/insightseries/pivot-insight/ner"
	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/voice"
)

const (
	insightType = "pivot_insight"
	summaryType = "pivot_summary"
)

// Keywords bundles the surface/normalized/entity projections of an
// insight's body text.
type Keywords struct {
	Surface    []string `json:"surface"`
	Normalized []string `json:"normalized"`
	Entities   []string `json:"entities"`
}

// SourceRef cites the document and position an insight was extracted from.
type SourceRef struct {
	DocID       string `json:"doc_id"`
	SectionPath string `json:"section_path,omitempty"`
	LineNo      int    `json:"line_no,omitempty"`
}

// SourceTime records when an insight was observed, independent of when the
// source document itself was produced.
type SourceTime struct {
	ObservedAt string `json:"observed_at"`
}

// Morphology bundles the morphology-derived scoring detail behind an
// insight's base score.
type Morphology struct {
	IntensityScore float64 `json:"intensity_score"`
	DegreeFactor   float64 `json:"degree_factor"`
	Certainty      float64 `json:"certainty"`
	Reasoning      string  `json:"reasoning"`
}

// Payload carries the raw evidence an insight was built from.
type Payload struct {
	RawUtterance    string   `json:"raw_utterance"`
	MatchedKeywords []string `json:"matched_keywords"`
	MatchedPatterns []string `json:"matched_patterns"`
}

// Insight is one denormalized, classified utterance record (§4.11's
// per-insight schema).
type Insight struct {
	ID               string       `json:"id"`
	MartType         string       `json:"mart_type"`
	PivotVoice       string       `json:"pivot_voice"`
	PivotLabel       string       `json:"pivot_label"`
	PivotScore       int          `json:"pivot_score"`
	TargetLayers     layer.Layers `json:"target_layers"`
	Title            string       `json:"title"`
	Body             string       `json:"body"`
	Speaker          string       `json:"speaker,omitempty"`
	Context          string       `json:"context,omitempty"`
	Keywords         Keywords     `json:"keywords"`
	Temperature      string       `json:"temperature"`
	Frequency        int          `json:"frequency"`
	SourceRef        SourceRef    `json:"source_ref"`
	SourceTime       SourceTime   `json:"source_time"`
	Confidence       float64      `json:"confidence"`
	ExtractionMethod string       `json:"extraction_method"`
	Morphology       Morphology   `json:"morphology"`
	Payload          Payload      `json:"payload"`
}

// NewInsight builds a mart Insight from a classified PIVOTInsight. observedAt
// is the caller-supplied observation date (YYYY-MM-DD); callers that want a
// "defaults to today" fallback resolve that default before calling
// NewInsight (see engine.Engine.SaveMarts).
func NewInsight(ins pivot.PIVOTInsight, docID, observedAt string) Insight {
	entities := ner.Recognize(ins.Body)
	entityTexts := make([]string, len(entities))
	for i, e := range entities {
		entityTexts[i] = e.Text
	}

	sectionPath := ""
	if ins.Source.QuestionNo > 0 {
		sectionPath = questionSectionPath(ins.Source.QuestionNo)
	}

	return Insight{
		ID:           "pivot_" + uuid.NewString(),
		MartType:     insightType,
		PivotVoice:   ins.Voice.String(),
		PivotLabel:   ins.Label,
		PivotScore:   ins.BaseScore,
		TargetLayers: ins.TargetLayers,
		Title:        ins.Title,
		Body:         ins.Body,
		Speaker:      ins.Source.SpeakerID,
		Context:      ins.Source.Role,
		Keywords: Keywords{
			Surface:    keywords.Surfaces(ins.Body),
			Normalized: keywords.Normalized(ins.Body),
			Entities:   entityTexts,
		},
		Temperature: ins.Temperature.String(),
		Frequency:   1,
		SourceRef: SourceRef{
			DocID:       docID,
			SectionPath: sectionPath,
			LineNo:      ins.Source.LineNo,
		},
		SourceTime:       SourceTime{ObservedAt: observedAt},
		Confidence:       ins.Confidence,
		ExtractionMethod: ins.ExtractionMethod.String(),
		Morphology: Morphology{
			IntensityScore: round2(ins.IntensityScore),
			DegreeFactor:   ins.DegreeFactor,
			Certainty:      ins.Certainty,
			Reasoning:      ins.Reasoning,
		},
		Payload: Payload{
			RawUtterance:    ins.Body,
			MatchedKeywords: ins.MatchedKeywords,
			MatchedPatterns: ins.MatchedPatterns,
		},
	}
}

func questionSectionPath(questionNo int) string {
	return "Q" + strconv.Itoa(questionNo)
}

// round2 rounds to two decimal places. Rounding happens only here, at mart
// emission — never during internal aggregation (Design Notes §9).
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Period describes the time window a Summary aggregates over.
type Period struct {
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// VoiceTotal is the insight count and summed base score for one voice.
type VoiceTotal struct {
	Count int `json:"count"`
	Score int `json:"score"`
}

// LayerTotal is the per-voice insight counts and summed base score for one
// process or tool label.
type LayerTotal struct {
	VoiceCounts map[string]int `json:"voice_counts"`
	Score       int            `json:"score"`
}

// ItemSummary is the abbreviated form of an insight used in a Summary's
// top_items.
type ItemSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
}

// Summary is the period-level aggregate record (§4.11's summary schema).
type Summary struct {
	ID                string                  `json:"id"`
	MartType          string                  `json:"mart_type"`
	Period            Period                  `json:"period"`
	PivotDistribution map[string]VoiceTotal   `json:"pivot_distribution"`
	TotalScore        int                     `json:"total_score"`
	SentimentIndex    float64                 `json:"sentiment_index"`
	ByProcess         map[string]LayerTotal   `json:"by_process"`
	ByTool            map[string]LayerTotal   `json:"by_tool"`
	PriorityMatrix    map[string][]string     `json:"priority_matrix"`
	TopItems          map[string][]ItemSummary `json:"top_items"`
}

const topItemsPerVoice = 5

// NewSummary builds a period Summary from a classification result.
func NewSummary(result pivot.ClassificationResult, periodType, periodStart, periodEnd string) Summary {
	dist := make(map[string]VoiceTotal, len(voice.Ordered))
	topItems := make(map[string][]ItemSummary, len(voice.Ordered))
	for _, v := range voice.Ordered {
		items := result.ByVoice[v]
		dist[v.String()] = VoiceTotal{
			Count: len(items),
			Score: len(items) * voice.Scores[v],
		}
		topItems[v.String()] = summarizeItems(result.TopByVoice(v, topItemsPerVoice))
	}

	byProcess := layerTotals(result.ByProcess)
	byTool := layerTotals(result.ByTool)

	matrix := pivot.PriorityMatrix(result.ByProcess)
	priorityMatrix := make(map[string][]string, len(matrix))
	for bucket, processes := range matrix {
		priorityMatrix[bucket.String()] = processes
	}

	return Summary{
		ID:                "pivot_" + uuid.NewString(),
		MartType:          summaryType,
		Period:            Period{Type: periodType, Start: periodStart, End: periodEnd},
		PivotDistribution: dist,
		TotalScore:        result.TotalScore,
		SentimentIndex:    round2(result.SentimentIndex),
		ByProcess:         byProcess,
		ByTool:            byTool,
		PriorityMatrix:    priorityMatrix,
		TopItems:          topItems,
	}
}

func layerTotals(byLabel map[string]map[voice.Voice]int) map[string]LayerTotal {
	out := make(map[string]LayerTotal, len(byLabel))
	for label, counts := range byLabel {
		voiceCounts := make(map[string]int, len(counts))
		score := 0
		for v, n := range counts {
			voiceCounts[v.String()] = n
			score += n * voice.Scores[v]
		}
		out[label] = LayerTotal{VoiceCounts: voiceCounts, Score: score}
	}
	return out
}

func summarizeItems(items []pivot.PIVOTInsight) []ItemSummary {
	out := make([]ItemSummary, len(items))
	for i, it := range items {
		out[i] = ItemSummary{ID: it.ID, Title: it.Title, Confidence: it.Confidence}
	}
	return out
}
