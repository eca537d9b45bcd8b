// Package layer implements the target-layer extractor: an orthogonal,
// independent tag for each of process/tool/people identifying what an
// utterance's subject is, alongside which PIVOT voice it expresses.
//
// The package follows the same two-layer API convention as morph and
// pattern: an Extractor type holding a compiled Lexicon for Structured
// use, and a package-level Extract convenience function backed by a
// lazily-built default Extractor.
package layer

import (
	"strings"
	"sync"

	"github.com/insightseries/pivot-insight/internal/lexicon"
)

const (
	process = "process"
	tool    = "tool"
	people  = "people"
)

// Layers is the {process?, tool?, people?} result of one extraction. Each
// field is empty when that layer was not populated — extracted values are
// never themselves empty strings, so the zero value doubles as "absent"
// without a separate presence flag.
type Layers struct {
	Process string `json:"process,omitempty"`
	Tool    string `json:"tool,omitempty"`
	People  string `json:"people,omitempty"`
}

// Any reports whether at least one of the three layers was populated.
func (l Layers) Any() bool {
	return l.Process != "" || l.Tool != "" || l.People != ""
}

// Extractor extracts Layers from text using a fixed, compiled Lexicon. The
// zero value is not usable; construct with New.
type Extractor struct {
	lex *lexicon.Lexicon
}

// New builds an Extractor over the given compiled lexicon.
func New(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

var (
	defaultExtractor     *Extractor
	defaultExtractorOnce sync.Once
)

func defaultExtractorInstance() *Extractor {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = New(lexicon.MustLoad())
	})
	return defaultExtractor
}

// Extract runs layer extraction against the default, embedded-dictionary
// Extractor.
func Extract(text string) Layers {
	return defaultExtractorInstance().Extract(text)
}

// Extract populates each of process/tool/people independently: if any
// layer keyword is present in text, the layer's extraction regexes are
// tried in order and the first capture group wins; if no regex matches,
// the matched keyword itself is used as the value.
func (e *Extractor) Extract(text string) Layers {
	return Layers{
		Process: e.extractOne(text, process),
		Tool:    e.extractOne(text, tool),
		People:  e.extractOne(text, people),
	}
}

func (e *Extractor) extractOne(text, layerName string) string {
	var matchedKeyword string
	for _, kw := range e.lex.LayerKeywords[layerName] {
		if strings.Contains(text, kw) {
			matchedKeyword = kw
			break
		}
	}
	if matchedKeyword == "" {
		return ""
	}
	for _, p := range e.lex.LayerPatterns[layerName] {
		if m := p.Pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return matchedKeyword
}
