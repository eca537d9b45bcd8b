// Package pattern implements the additive keyword/regex voice classifier:
// the fallback signal used whenever morphology (see package morph) reaches
// no verdict, or is disabled.
//
// The package follows the same two-layer API convention as morph: a
// Classifier type holding a compiled Lexicon for Structured use, and a
// package-level Classify convenience function backed by a lazily-built
// default Classifier for everything else.
//
// Classify is a pure function of its input text and the Classifier's
// dictionaries and is safe for concurrent use by multiple goroutines.
package pattern

import (
	"strings"
	"sync"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/voice"
)

// keywordWeight and patternWeight are the additive per-match weights;
// perVoiceCap and totalCap are the caps each stage of the score applies.
const (
	keywordWeight = 0.2
	patternWeight = 0.3
	perVoiceCap   = 0.6
	totalCap      = 0.95
)

// Result is the winning voice's additive score plus the evidence that
// produced it.
type Result struct {
	Voice           voice.Voice
	Confidence      float64
	MatchedKeywords []string
	MatchedPatterns []string
}

// Classifier scores text against a fixed, compiled Lexicon. The zero value
// is not usable; construct with New.
type Classifier struct {
	lex *lexicon.Lexicon
}

// New builds a Classifier over the given compiled lexicon.
func New(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

var (
	defaultClassifier     *Classifier
	defaultClassifierOnce sync.Once
)

func defaultClassifierInstance() *Classifier {
	defaultClassifierOnce.Do(func() {
		defaultClassifier = New(lexicon.MustLoad())
	})
	return defaultClassifier
}

// Classify scores text against the default, embedded-dictionary Classifier.
func Classify(text string) (Result, bool) {
	return defaultClassifierInstance().Classify(text)
}

// Classify scores text for every voice by additive keyword and regex
// matches: kw_score = min(n_keywords*0.2, 0.6),
// pat_score = min(n_patterns*0.3, 0.6), score = min(kw+pat, 0.95). The
// highest-scoring voice wins; ties break in voice.Ordered order (P < I < V
// < O < T). Returns false if every voice scored zero.
func (c *Classifier) Classify(text string) (Result, bool) {
	var best Result
	bestScore := 0.0
	found := false

	for _, v := range voice.Ordered {
		var keywords []string
		for _, kw := range c.lex.VoiceKeywords[v] {
			if strings.Contains(text, kw) {
				keywords = append(keywords, kw)
			}
		}
		var patterns []string
		for _, re := range c.lex.VoicePatterns[v] {
			if m := re.FindString(text); m != "" {
				patterns = append(patterns, re.String())
			}
		}

		kwScore := minF(float64(len(keywords))*keywordWeight, perVoiceCap)
		patScore := minF(float64(len(patterns))*patternWeight, perVoiceCap)
		score := minF(kwScore+patScore, totalCap)
		if score <= 0 {
			continue
		}
		if !found || score > bestScore {
			found = true
			bestScore = score
			best = Result{Voice: v, Confidence: score, MatchedKeywords: keywords, MatchedPatterns: patterns}
		}
	}

	return best, found
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
