// Package lexicon parses the embedded calibration tables in data into
// compiled, typed structures and exposes them behind a single Lexicon value
// that morph, pattern, layer, temperature, and parser accept as a
// constructor argument.
//
// The dictionaries in data are configuration, not logic: closed
// dictionaries of Japanese surface forms are exposed through an injected
// abstraction so recalibrating them (editing a TSV, swapping in a
// different table for a new customer vertical) never requires recompiling
// the packages that
// consume them. Lexicon is that abstraction: a plain struct rather than an
// interface, because every consumer needs the full set of tables and there
// is, at present, exactly one implementation of it — but callers depend on
// *Lexicon values they construct or receive, never on the data package's
// globals directly, which is what keeps the seam real.
//
// Grounded on data/embed.go's embed-then-parse-in-init idiom (itself
// grounded on morph/dict.go and sentiment/lexicon.go in the source this
// package's conventions were learned from), generalized from package-level
// globals into an injectable, independently constructible type.
package lexicon

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/insightseries/pivot-insight/data"
	"github.com/insightseries/pivot-insight/voice"
)

// VerbEntry is one dictionary verb surface form tagged with its category
// ("OBSTACLE", "DIFFICULTY", "LOSS", "DESIRE", "REJECTION", "SUCCESS").
type VerbEntry struct {
	Surface  string
	Category string
}

// AdjectiveEntry is one dictionary adjective surface form tagged with its
// sentiment bucket ("POSITIVE", "NEGATIVE", "ANXIETY").
type AdjectiveEntry struct {
	Surface   string
	Sentiment string
}

// AdverbEntry is one degree or frequency adverb surface form with its
// scaling factor.
type AdverbEntry struct {
	Surface string
	Factor  float64
}

// TailEntry is one sentence-tail pattern: a compiled regex tried in the
// priority order the table was declared in, with its certainty, tail-type
// label, and PIVOT voice bias.
type TailEntry struct {
	Pattern   *regexp.Regexp
	Certainty float64
	TailType  string
	PivotBias voice.Voice
}

// LayerPattern is one layer extraction regex with exactly one capture
// group: the extracted subject.
type LayerPattern struct {
	Pattern *regexp.Regexp
}

// Lexicon bundles every compiled calibration table the pipeline consults.
// Construct one with Load (from the embedded data package) or Parse (from
// caller-supplied sources, e.g. in tests or for a future calibration swap).
type Lexicon struct {
	Verbs            []VerbEntry
	Adjectives       []AdjectiveEntry
	DegreeAdverbs    []AdverbEntry
	FrequencyAdverbs []AdverbEntry
	Tails            []TailEntry

	VoiceKeywords map[voice.Voice][]string
	VoicePatterns map[voice.Voice][]*regexp.Regexp

	// LayerKeywords and LayerPatterns are keyed by layer name: "process",
	// "tool", "people". The layer package owns the typed result shape;
	// lexicon only needs to round-trip these three string buckets.
	LayerKeywords map[string][]string
	LayerPatterns map[string][]LayerPattern

	// TemperatureWords is keyed by level: "high", "medium", "low".
	TemperatureWords map[string][]string

	// MetadataAliases maps a lower-cased alias to its canonical field name.
	MetadataAliases map[string]string

	DomainWeights map[voice.Domain]map[voice.Voice]float64
}

// Sources bundles the raw TSV text for Parse. Load builds one from the
// embedded data package; tests or calibration tooling can build their own.
type Sources struct {
	Verbs            string
	Adjectives       string
	DegreeAdverbs    string
	FrequencyAdverbs string
	Tails            string
	VoiceKeywords    string
	VoicePatterns    string
	LayerKeywords    string
	LayerPatterns    string
	TemperatureWords string
	MetadataAliases  string
	DomainWeights    string
}

// embeddedSources returns the Sources backed by the data package's
// go:embed'd tables.
func embeddedSources() Sources {
	return Sources{
		Verbs:            data.Verbs,
		Adjectives:       data.Adjectives,
		DegreeAdverbs:    data.DegreeAdverbs,
		FrequencyAdverbs: data.FrequencyAdverbs,
		Tails:            data.Tails,
		VoiceKeywords:    data.VoiceKeywords,
		VoicePatterns:    data.VoicePatterns,
		LayerKeywords:    data.LayerKeywords,
		LayerPatterns:    data.LayerPatterns,
		TemperatureWords: data.TemperatureWords,
		MetadataAliases:  data.MetadataAliases,
		DomainWeights:    data.DomainWeights,
	}
}

// Load parses the embedded calibration tables shipped with this module.
func Load() (*Lexicon, error) {
	return Parse(embeddedSources())
}

// MustLoad is Load, panicking on error. Used for package-level defaults
// where a malformed embedded table would be a build-time bug, not a
// runtime condition callers can recover from.
func MustLoad() *Lexicon {
	lex, err := Load()
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded tables failed to parse: %v", err))
	}
	return lex
}

// Parse builds a Lexicon from caller-supplied TSV sources, compiling every
// regex once. An empty field in Sources yields an empty (not nil, where a
// map is expected) table for that concern.
func Parse(src Sources) (*Lexicon, error) {
	lex := &Lexicon{
		VoiceKeywords:    make(map[voice.Voice][]string),
		VoicePatterns:    make(map[voice.Voice][]*regexp.Regexp),
		LayerKeywords:    make(map[string][]string),
		LayerPatterns:    make(map[string][]LayerPattern),
		TemperatureWords: make(map[string][]string),
		MetadataAliases:  make(map[string]string),
		DomainWeights:    make(map[voice.Domain]map[voice.Voice]float64),
	}

	var err error
	if lex.Verbs, err = parseVerbs(src.Verbs); err != nil {
		return nil, fmt.Errorf("lexicon: verbs: %w", err)
	}
	if lex.Adjectives, err = parseAdjectives(src.Adjectives); err != nil {
		return nil, fmt.Errorf("lexicon: adjectives: %w", err)
	}
	if lex.DegreeAdverbs, err = parseAdverbs(src.DegreeAdverbs); err != nil {
		return nil, fmt.Errorf("lexicon: degree adverbs: %w", err)
	}
	if lex.FrequencyAdverbs, err = parseAdverbs(src.FrequencyAdverbs); err != nil {
		return nil, fmt.Errorf("lexicon: frequency adverbs: %w", err)
	}
	if lex.Tails, err = parseTails(src.Tails); err != nil {
		return nil, fmt.Errorf("lexicon: tails: %w", err)
	}
	if err = parseVoiceKeywords(src.VoiceKeywords, lex.VoiceKeywords); err != nil {
		return nil, fmt.Errorf("lexicon: voice keywords: %w", err)
	}
	if err = parseVoicePatterns(src.VoicePatterns, lex.VoicePatterns); err != nil {
		return nil, fmt.Errorf("lexicon: voice patterns: %w", err)
	}
	if err = parseLayerKeywords(src.LayerKeywords, lex.LayerKeywords); err != nil {
		return nil, fmt.Errorf("lexicon: layer keywords: %w", err)
	}
	if err = parseLayerPatterns(src.LayerPatterns, lex.LayerPatterns); err != nil {
		return nil, fmt.Errorf("lexicon: layer patterns: %w", err)
	}
	if err = parseTemperatureWords(src.TemperatureWords, lex.TemperatureWords); err != nil {
		return nil, fmt.Errorf("lexicon: temperature words: %w", err)
	}
	if err = parseMetadataAliases(src.MetadataAliases, lex.MetadataAliases); err != nil {
		return nil, fmt.Errorf("lexicon: metadata aliases: %w", err)
	}
	if err = parseDomainWeights(src.DomainWeights, lex.DomainWeights); err != nil {
		return nil, fmt.Errorf("lexicon: domain weights: %w", err)
	}
	return lex, nil
}

// lines splits TSV text into tab-separated fields, skipping blank lines and
// lines starting with "#".
func lines(src string, fields int, fn func(cols []string) error) error {
	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != fields {
			return fmt.Errorf("line %d: want %d tab-separated fields, got %d: %q", lineNo, fields, len(cols), line)
		}
		if err := fn(cols); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

func parseVerbs(src string) ([]VerbEntry, error) {
	var out []VerbEntry
	err := lines(src, 2, func(c []string) error {
		out = append(out, VerbEntry{Category: c[0], Surface: c[1]})
		return nil
	})
	return out, err
}

func parseAdjectives(src string) ([]AdjectiveEntry, error) {
	var out []AdjectiveEntry
	err := lines(src, 2, func(c []string) error {
		out = append(out, AdjectiveEntry{Sentiment: c[0], Surface: c[1]})
		return nil
	})
	return out, err
}

func parseAdverbs(src string) ([]AdverbEntry, error) {
	var out []AdverbEntry
	err := lines(src, 2, func(c []string) error {
		f, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			return fmt.Errorf("bad factor %q: %w", c[1], err)
		}
		out = append(out, AdverbEntry{Surface: c[0], Factor: f})
		return nil
	})
	return out, err
}

func parseTails(src string) ([]TailEntry, error) {
	var out []TailEntry
	err := lines(src, 4, func(c []string) error {
		re, err := regexp.Compile(c[0])
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", c[0], err)
		}
		certainty, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			return fmt.Errorf("bad certainty %q: %w", c[1], err)
		}
		bias, err := voice.Parse(c[3])
		if err != nil {
			return fmt.Errorf("bad pivot_bias %q: %w", c[3], err)
		}
		out = append(out, TailEntry{Pattern: re, Certainty: certainty, TailType: c[2], PivotBias: bias})
		return nil
	})
	return out, err
}

func parseVoiceKeywords(src string, out map[voice.Voice][]string) error {
	return lines(src, 2, func(c []string) error {
		v, err := voice.Parse(c[0])
		if err != nil {
			return fmt.Errorf("bad voice %q: %w", c[0], err)
		}
		out[v] = append(out[v], c[1])
		return nil
	})
}

func parseVoicePatterns(src string, out map[voice.Voice][]*regexp.Regexp) error {
	return lines(src, 2, func(c []string) error {
		v, err := voice.Parse(c[0])
		if err != nil {
			return fmt.Errorf("bad voice %q: %w", c[0], err)
		}
		re, err := regexp.Compile(c[1])
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", c[1], err)
		}
		out[v] = append(out[v], re)
		return nil
	})
}

func parseLayerKeywords(src string, out map[string][]string) error {
	return lines(src, 2, func(c []string) error {
		out[c[0]] = append(out[c[0]], c[1])
		return nil
	})
}

func parseLayerPatterns(src string, out map[string][]LayerPattern) error {
	return lines(src, 2, func(c []string) error {
		re, err := regexp.Compile(c[1])
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", c[1], err)
		}
		if re.NumSubexp() != 1 {
			return fmt.Errorf("pattern %q must have exactly one capture group, has %d", c[1], re.NumSubexp())
		}
		out[c[0]] = append(out[c[0]], LayerPattern{Pattern: re})
		return nil
	})
}

func parseTemperatureWords(src string, out map[string][]string) error {
	return lines(src, 2, func(c []string) error {
		out[c[0]] = append(out[c[0]], c[1])
		return nil
	})
}

func parseMetadataAliases(src string, out map[string]string) error {
	return lines(src, 2, func(c []string) error {
		out[strings.ToLower(c[1])] = c[0]
		return nil
	})
}

func parseDomainWeights(src string, out map[voice.Domain]map[voice.Voice]float64) error {
	return lines(src, 3, func(c []string) error {
		d, err := voice.ParseDomain(c[0])
		if err != nil {
			return fmt.Errorf("bad domain %q: %w", c[0], err)
		}
		v, err := voice.Parse(c[1])
		if err != nil {
			return fmt.Errorf("bad voice %q: %w", c[1], err)
		}
		w, err := strconv.ParseFloat(c[2], 64)
		if err != nil {
			return fmt.Errorf("bad weight %q: %w", c[2], err)
		}
		if out[d] == nil {
			out[d] = make(map[voice.Voice]float64)
		}
		out[d][v] = w
		return nil
	})
}
