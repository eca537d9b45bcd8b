// Package pivot holds the core PIVOT data model (Utterance, PIVOTInsight,
// ClassificationResult) and the Classifier that orchestrates morphology,
// pattern matching, layer extraction, and temperature detection into a
// scored, domain-weighted, sorted classification result.
//
// Utterance is deliberately owned here rather than by splitter or parser:
// every downstream package (splitter produces them, the Classifier
// consumes them, mart reads them back out as provenance) needs the same
// shape, so this package is the data model's home.
package pivot

import (
	"encoding/json"

	"github.com/insightseries/pivot-insight/layer"
	"github.com/insightseries/pivot-insight/temperature"
	"github.com/insightseries/pivot-insight/voice"
)

// Utterance is one atomic unit of speech after splitting. It is immutable
// once constructed by splitter and is consumed, never mutated, by the
// Classifier.
type Utterance struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	SpeakerID  string `json:"speaker_id,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`

	QuestionNo   int    `json:"question_no,omitempty"`
	QuestionText string `json:"question_text,omitempty"`
	InterviewID  string `json:"interview_id,omitempty"`
	LineNo       int    `json:"line_no,omitempty"`
}

// PIVOTInsight is one classified, scored utterance. Source is a weak
// back-reference to the utterance that produced it — provenance, not
// ownership: it carries only the identifying fields an insight needs to
// cite where it came from, not the whole Utterance value.
type PIVOTInsight struct {
	ID    string      `json:"id"`
	Voice voice.Voice `json:"voice"`
	Label string      `json:"label"`

	// BaseScore satisfies BaseScore == voice.Scores[Voice] for every insight.
	BaseScore int `json:"base_score"`

	TargetLayers layer.Layers `json:"target_layers"`

	Title string `json:"title"`
	Body  string `json:"body"`

	Confidence  float64               `json:"confidence"`
	Temperature temperature.Temperature `json:"temperature"`

	MatchedKeywords []string `json:"matched_keywords"`
	MatchedPatterns []string `json:"matched_patterns"`

	Source Provenance `json:"source"`

	// IntensityScore = BaseScore * DegreeFactor * Certainty, unrounded —
	// rounding happens only at mart emission (Design Notes §9).
	IntensityScore float64 `json:"intensity_score"`
	DegreeFactor   float64 `json:"degree_factor"`
	Certainty      float64 `json:"certainty"`
	Reasoning      string  `json:"reasoning"`

	// ExtractionMethod records which signal (§4.4) produced this insight.
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
}

// Provenance is the small immutable record an insight carries back to its
// source utterance: identifying fields only, never the utterance itself,
// so there is no cyclic owner graph (Design Notes §9).
type Provenance struct {
	InterviewID string `json:"interview_id,omitempty"`
	QuestionNo  int    `json:"question_no,omitempty"`
	LineNo      int    `json:"line_no,omitempty"`
	SpeakerID   string `json:"speaker_id,omitempty"`
	Role        string `json:"role,omitempty"`
}

// ExtractionMethod records whether morphology or the pattern fallback
// produced an insight (§4.4).
type ExtractionMethod int

const (
	RuleBased ExtractionMethod = iota
	MorphologyBased
)

func (m ExtractionMethod) String() string {
	if m == MorphologyBased {
		return "morphology_based"
	}
	return "rule_based"
}

func (m ExtractionMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// ClassificationResult is the immutable output of classifying a list of
// utterances.
type ClassificationResult struct {
	// Items are ordered by confidence * domain_weight, descending.
	Items []PIVOTInsight

	ByVoice map[voice.Voice][]PIVOTInsight

	// ByProcess[process][voice] and ByTool[tool][voice] are integer counts
	// over Items.
	ByProcess map[string]map[voice.Voice]int
	ByTool    map[string]map[voice.Voice]int

	TotalScore     int
	SentimentIndex float64

	Stats Stats
}

// Stats bundles summary counters over one ClassificationResult.
type Stats struct {
	UtteranceCount int
	InsightCount   int
	DroppedCount   int // utterances that produced no insight
}
