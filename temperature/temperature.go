// Package temperature implements the temperature detector: a closed
// three-level keyword classification of an utterance's urgency register,
// independent of its PIVOT voice.
package temperature

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/insightseries/pivot-insight/internal/lexicon"
)

// Temperature is the urgency register of an utterance.
type Temperature int

const (
	Low Temperature = iota
	Medium
	High
)

var names = map[Temperature]string{Low: "low", Medium: "medium", High: "high"}
var fromName = map[string]Temperature{"low": Low, "medium": Medium, "high": High}

func (t Temperature) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Temperature(%d)", int(t))
}

func (t Temperature) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Temperature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := fromName[s]
	if !ok {
		return fmt.Errorf("temperature: unknown level %q", s)
	}
	*t = v
	return nil
}

// Detector classifies text using a fixed, compiled Lexicon. The zero value
// is not usable; construct with New.
type Detector struct {
	lex *lexicon.Lexicon
}

// New builds a Detector over the given compiled lexicon.
func New(lex *lexicon.Lexicon) *Detector {
	return &Detector{lex: lex}
}

var (
	defaultDetector     *Detector
	defaultDetectorOnce sync.Once
)

func defaultDetectorInstance() *Detector {
	defaultDetectorOnce.Do(func() {
		defaultDetector = New(lexicon.MustLoad())
	})
	return defaultDetector
}

// Detect classifies text against the default, embedded-dictionary Detector.
func Detect(text string) Temperature {
	return defaultDetectorInstance().Detect(text)
}

// Detect returns High if any high-level word is present, else Medium if
// any medium-level word is present, else Low if any low-level word is
// present, else Medium as the default when nothing matches.
func (d *Detector) Detect(text string) Temperature {
	if containsAny(text, d.lex.TemperatureWords["high"]) {
		return High
	}
	if containsAny(text, d.lex.TemperatureWords["medium"]) {
		return Medium
	}
	if containsAny(text, d.lex.TemperatureWords["low"]) {
		return Low
	}
	return Medium
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
