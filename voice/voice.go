// Package voice defines the PIVOT taxonomy shared by every classification
// stage: the five voice categories, their base scores, and the domain
// profiles used to re-rank classification output.
//
// It sits at the bottom of the dependency graph — morph, pattern, layer,
// temperature, and pivot all import it, and it imports nothing of its own —
// so that none of those stage packages need to import each other just to
// share one enum.
package voice

import (
	"encoding/json"
	"fmt"
)

// Voice is one of the five PIVOT categories.
type Voice int

const (
	Pain Voice = iota
	Insecurity
	Vision
	Objection
	Traction
)

// Ordered lists every voice in the tie-break order mandated for
// deterministic output: P < I < V < O < T.
var Ordered = []Voice{Pain, Insecurity, Vision, Objection, Traction}

var voiceNames = map[Voice]string{
	Pain:       "P",
	Insecurity: "I",
	Vision:     "V",
	Objection:  "O",
	Traction:   "T",
}

var voiceFromName = map[string]Voice{
	"P": Pain,
	"I": Insecurity,
	"V": Vision,
	"O": Objection,
	"T": Traction,
}

// labels are the human-readable forms used for PIVOTInsight.Label.
var labels = map[Voice]string{
	Pain:       "Pain",
	Insecurity: "Insecurity",
	Vision:     "Vision",
	Objection:  "Objection",
	Traction:   "Traction",
}

// Scores is the fixed base_score table: SCORES = {P:-2, I:-1, V:+1, O:-1, T:+2}.
var Scores = map[Voice]int{
	Pain:       -2,
	Insecurity: -1,
	Vision:     1,
	Objection:  -1,
	Traction:   2,
}

// String returns the single-letter code (e.g. "P").
func (v Voice) String() string {
	if s, ok := voiceNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Voice(%d)", int(v))
}

// Label returns the human-readable name (e.g. "Pain").
func (v Voice) Label() string {
	if s, ok := labels[v]; ok {
		return s
	}
	return v.String()
}

// BaseScore returns SCORES[v].
func (v Voice) BaseScore() int {
	return Scores[v]
}

// Parse converts a single-letter code into a Voice.
func Parse(s string) (Voice, error) {
	v, ok := voiceFromName[s]
	if !ok {
		return 0, fmt.Errorf("voice: unknown code %q", s)
	}
	return v, nil
}

// MarshalJSON encodes the voice as its single-letter code string.
func (v Voice) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a single-letter code string into a Voice.
func (v *Voice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Domain is a calibration profile selecting per-voice ranking weights.
// The zero value, None, means no domain: all weights are 1.0.
type Domain int

const (
	None Domain = iota
	Requirements
	BizAnalysis
	HREvaluation
	DailyConcerns
	CustomerVoice
	Retrospective
)

var domainNames = map[Domain]string{
	None:          "",
	Requirements:  "requirements",
	BizAnalysis:   "biz_analysis",
	HREvaluation:  "hr_evaluation",
	DailyConcerns: "daily_concerns",
	CustomerVoice: "customer_voice",
	Retrospective: "retrospective",
}

var domainFromName = map[string]Domain{
	"":               None,
	"requirements":   Requirements,
	"biz_analysis":   BizAnalysis,
	"hr_evaluation":  HREvaluation,
	"daily_concerns": DailyConcerns,
	"customer_voice": CustomerVoice,
	"retrospective":  Retrospective,
}

// String returns the domain's config-file name ("" for None).
func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}

// ParseDomain converts a config-file name into a Domain. The empty string
// maps to None.
func ParseDomain(s string) (Domain, error) {
	d, ok := domainFromName[s]
	if !ok {
		return None, fmt.Errorf("voice: unknown domain %q", s)
	}
	return d, nil
}
