// Package morph performs rule-based morphological feature extraction on
// Japanese utterances: closed-dictionary substring matching for verb
// category, adjective sentiment, degree/frequency adverbs, and a
// priority-ordered sentence-tail pattern, followed by the feature
// aggregation and PIVOT-inference decision table that turn those matches
// into a voice verdict.
//
// The package provides two API layers:
//
//   - Structured: (*Analyzer).Analyze returns a Features bundle with every
//     matched dictionary entry and the aggregated degree_factor,
//     frequency_factor, certainty, sentiment_score, and pivot_tendency.
//
//   - Convenience: the package-level Analyze function runs the same
//     extraction against a lazily-built default Analyzer backed by the
//     embedded dictionaries, for callers that don't need to inject a
//     calibration swap.
//
// Analyze is a pure function of its input text and the Analyzer's
// dictionaries: it holds no state across calls beyond the compiled
// dictionary tables, which are read-only after construction. It is safe
// for concurrent use by multiple goroutines.
//
// Matching is substring-based, not tokenizer-based: for every dictionary
// entry whose surface form appears anywhere in the text, one feature
// record is emitted. Overlapping matches are permitted and both recorded.
// This is a deterministic approximation, not a statistical model, traded
// for predictability and zero training data.
package morph

import (
	"strings"
	"sync"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/voice"
)

// Verb is one matched verb surface form with its dictionary category.
type Verb struct {
	Surface  string       `json:"surface"`
	Category VerbCategory `json:"category"`
}

// Adjective is one matched adjective surface form with its sentiment bucket.
type Adjective struct {
	Surface   string    `json:"surface"`
	Sentiment Sentiment `json:"sentiment"`
}

// Adverb is one matched degree or frequency adverb. An entry matched from
// the degree table carries its factor in DegreeFactor and leaves
// FrequencyFactor at 1.0 (and vice versa for the frequency table), so
// Features.DegreeFactor/FrequencyFactor can each be computed as a plain
// max over the whole slice.
type Adverb struct {
	Surface         string  `json:"surface"`
	DegreeFactor    float64 `json:"degree_factor"`
	FrequencyFactor float64 `json:"frequency_factor"`
}

// Tail is the single sentence-tail pattern matched in priority order, if
// any. Absence (a nil *Tail on Features) means the utterance is treated as
// a plain assertion: certainty 1.0, no pivot tendency.
type Tail struct {
	Pattern   string   `json:"pattern"`
	Certainty float64  `json:"certainty"`
	Type      TailType `json:"type"`
	PivotBias voice.Voice `json:"pivot_bias"`
}

// Features is the extracted feature bundle for one utterance: every raw
// dictionary match plus the aggregated scalars the PIVOT inference table
// and the intensity-score formula consume.
type Features struct {
	Verbs      []Verb      `json:"verbs"`
	Adjectives []Adjective `json:"adjectives"`
	Adverbs    []Adverb    `json:"adverbs"`
	Tail       *Tail       `json:"tail,omitempty"`

	DegreeFactor    float64 `json:"degree_factor"`
	FrequencyFactor float64 `json:"frequency_factor"`
	Certainty       float64 `json:"certainty"`
	SentimentScore  float64 `json:"sentiment_score"`

	// PivotTendency is the tail's bias voice, or nil if there is no tail.
	PivotTendency *voice.Voice `json:"pivot_tendency,omitempty"`
}

// HasVerbCategory reports whether any matched verb belongs to cat.
func (f Features) HasVerbCategory(cat VerbCategory) bool {
	for _, v := range f.Verbs {
		if v.Category == cat {
			return true
		}
	}
	return false
}

// HasSentiment reports whether any matched adjective carries sentiment s.
func (f Features) HasSentiment(s Sentiment) bool {
	for _, a := range f.Adjectives {
		if a.Sentiment == s {
			return true
		}
	}
	return false
}

// Analyzer extracts Features from text using a fixed, compiled Lexicon.
// The zero value is not usable; construct with New.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// New builds an Analyzer over the given compiled lexicon.
func New(lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

var (
	defaultAnalyzer     *Analyzer
	defaultAnalyzerOnce sync.Once
)

func defaultAnalyzerInstance() *Analyzer {
	defaultAnalyzerOnce.Do(func() {
		defaultAnalyzer = New(lexicon.MustLoad())
	})
	return defaultAnalyzer
}

// Analyze runs feature extraction against the default, embedded-dictionary
// Analyzer. Equivalent to defaultAnalyzerInstance().Analyze(text).
func Analyze(text string) Features {
	return defaultAnalyzerInstance().Analyze(text)
}

// Analyze extracts morphological Features from text: every dictionary
// surface form present in text is recorded, and the aggregated scalars are
// computed from those matches.
func (a *Analyzer) Analyze(text string) Features {
	f := Features{
		DegreeFactor:    1.0,
		FrequencyFactor: 1.0,
		Certainty:       1.0,
	}

	for _, v := range a.lex.Verbs {
		if strings.Contains(text, v.Surface) {
			cat, err := parseVerbCategory(v.Category)
			if err != nil {
				continue
			}
			f.Verbs = append(f.Verbs, Verb{Surface: v.Surface, Category: cat})
		}
	}

	var pos, neg, anx int
	for _, adj := range a.lex.Adjectives {
		if !strings.Contains(text, adj.Surface) {
			continue
		}
		sent, err := parseSentiment(adj.Sentiment)
		if err != nil {
			continue
		}
		f.Adjectives = append(f.Adjectives, Adjective{Surface: adj.Surface, Sentiment: sent})
		switch sent {
		case Positive:
			pos++
		case Negative:
			neg++
		case Anxiety:
			anx++
		}
	}
	if total := pos + neg + anx; total > 0 {
		score := float64(pos-neg-anx) / float64(total)
		f.SentimentScore = clamp(score, -1, 1)
	}

	for _, adv := range a.lex.DegreeAdverbs {
		if strings.Contains(text, adv.Surface) {
			f.Adverbs = append(f.Adverbs, Adverb{Surface: adv.Surface, DegreeFactor: adv.Factor, FrequencyFactor: 1.0})
			if adv.Factor > f.DegreeFactor {
				f.DegreeFactor = adv.Factor
			}
		}
	}
	for _, adv := range a.lex.FrequencyAdverbs {
		if strings.Contains(text, adv.Surface) {
			f.Adverbs = append(f.Adverbs, Adverb{Surface: adv.Surface, DegreeFactor: 1.0, FrequencyFactor: adv.Factor})
			if adv.Factor > f.FrequencyFactor {
				f.FrequencyFactor = adv.Factor
			}
		}
	}

	for _, tail := range a.lex.Tails {
		loc := tail.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		tt, err := parseTailType(tail.TailType)
		if err != nil {
			continue
		}
		f.Tail = &Tail{
			Pattern:   text[loc[0]:loc[1]],
			Certainty: tail.Certainty,
			Type:      tt,
			PivotBias: tail.PivotBias,
		}
		f.Certainty = tail.Certainty
		bias := tail.PivotBias
		f.PivotTendency = &bias
		break
	}

	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
