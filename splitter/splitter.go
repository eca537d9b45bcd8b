// Package splitter implements the utterance splitter: sentence splitting on
// Japanese terminators, conjunctive-particle splitting, and length
// normalization into utterances bounded by a configurable min/max character
// length.
//
// Sentence splitting calls tokenizer.Sentences directly. The length
// normalization pass uses a merge-back strategy: a short trailing fragment
// folds into the buffer, while an oversized fragment is sliced into
// fixed-size pieces bounded by min/max utterance length rather than a
// generic chunk size, so there's no separate chunking package — the
// algorithm lives here as one step of utterance production.
package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/tokenizer"
)

// Options configures a Splitter. The zero value is not a valid
// configuration; use DefaultOptions or New with explicit fields.
type Options struct {
	SplitBySentence    bool
	SplitByConjunction bool
	MinLength          int
	MaxLength          int
}

// DefaultOptions returns the standard defaults: both splitting passes
// enabled, min_length 10, max_length 500.
func DefaultOptions() Options {
	return Options{SplitBySentence: true, SplitByConjunction: true, MinLength: 10, MaxLength: 500}
}

// InvalidOptionsError reports a Splitter configuration that cannot be
// constructed. Splitter construction rejects min_length > max_length
// rather than panicking or silently swapping the bounds.
type InvalidOptionsError struct {
	MinLength int
	MaxLength int
}

func (e InvalidOptionsError) Error() string {
	return fmt.Sprintf("splitter: min_length %d exceeds max_length %d", e.MinLength, e.MaxLength)
}

// conjunctions are conjunctive particles that, followed by a comma (or the
// Japanese comma "、"), start a new fragment when conjunction splitting is
// enabled. Priority is irrelevant here — unlike the tail-pattern table in
// package morph, every occurrence in the text is split on, not just the
// first.
var conjunctions = []string{
	"が", "しかし", "また", "ので", "けど", "けれど", "だが", "ただ", "一方",
}

// Splitter splits answer text into length-normalized utterances. The zero
// value is not usable; construct with New.
type Splitter struct {
	opts Options
}

// New validates opts and constructs a Splitter.
func New(opts Options) (*Splitter, error) {
	if opts.MinLength > opts.MaxLength {
		return nil, InvalidOptionsError{MinLength: opts.MinLength, MaxLength: opts.MaxLength}
	}
	return &Splitter{opts: opts}, nil
}

// Meta carries the metadata that Split propagates onto every Utterance it
// produces, and the starting line number for this answer block.
type Meta struct {
	SpeakerID    string
	Role         string
	Department   string
	QuestionNo   int
	QuestionText string
	InterviewID  string
	BaseLineNo   int
}

// Split splits one answer block into utterances. Empty or whitespace-only
// input yields no utterances — not an error.
func (s *Splitter) Split(text string, meta Meta) []pivot.Utterance {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fragments := s.sentenceSplit(text)
	if s.opts.SplitByConjunction {
		fragments = s.conjunctionSplit(fragments)
	}
	fragments = s.normalizeLengths(fragments)

	out := make([]pivot.Utterance, 0, len(fragments))
	lineNo := meta.BaseLineNo
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		out = append(out, pivot.Utterance{
			ID:           uuid.NewString(),
			Text:         frag,
			SpeakerID:    meta.SpeakerID,
			Role:         meta.Role,
			Department:   meta.Department,
			QuestionNo:   meta.QuestionNo,
			QuestionText: meta.QuestionText,
			InterviewID:  meta.InterviewID,
			LineNo:       lineNo,
		})
		lineNo++
	}
	return out
}

func (s *Splitter) sentenceSplit(text string) []string {
	if !s.opts.SplitBySentence {
		return []string{text}
	}
	var out []string
	for _, sent := range tokenizer.Sentences(text) {
		if strings.TrimSpace(sent) == "" {
			continue
		}
		out = append(out, sent)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Splitter) conjunctionSplit(fragments []string) []string {
	var out []string
	for _, frag := range fragments {
		out = append(out, splitOnConjunctions(frag)...)
	}
	return out
}

// splitOnConjunctions splits frag immediately after every occurrence of a
// conjunctive particle followed by a comma ("、" or ","), leftmost match
// first.
func splitOnConjunctions(frag string) []string {
	var out []string
	remaining := frag
	for {
		cutAt := -1
		for _, conj := range conjunctions {
			for _, comma := range []string{"、", ","} {
				marker := conj + comma
				if idx := strings.Index(remaining, marker); idx >= 0 {
					end := idx + len(marker)
					if cutAt == -1 || end < cutAt {
						cutAt = end
					}
				}
			}
		}
		if cutAt == -1 {
			break
		}
		out = append(out, remaining[:cutAt])
		remaining = remaining[cutAt:]
		if strings.TrimSpace(remaining) == "" {
			remaining = ""
			break
		}
	}
	if remaining != "" {
		out = append(out, remaining)
	}
	if len(out) == 0 {
		return []string{frag}
	}
	return out
}

// normalizeLengths is the final splitting pass: an accumulating
// buffer absorbs fragments shorter than min_length; a fragment that would
// push the buffer over max_length is sliced into fixed-size runs, with any
// short trailing slice becoming the new buffer.
func (s *Splitter) normalizeLengths(fragments []string) []string {
	var out []string
	buffer := ""

	flush := func() {
		if buffer != "" {
			out = append(out, buffer)
			buffer = ""
		}
	}

	for _, frag := range fragments {
		combined := buffer + frag
		switch {
		case runeLen(combined) < s.opts.MinLength:
			buffer = combined
		case runeLen(combined) > s.opts.MaxLength:
			flush()
			chunks := sliceToMax(frag, s.opts.MaxLength)
			if len(chunks) == 0 {
				continue
			}
			last := chunks[len(chunks)-1]
			if runeLen(last) < s.opts.MinLength {
				out = append(out, chunks[:len(chunks)-1]...)
				buffer = last
			} else {
				out = append(out, chunks...)
			}
		default:
			flush()
			out = append(out, combined)
		}
	}
	flush()
	return out
}

// sliceToMax splits text into consecutive rune slices of at most max
// length each.
func sliceToMax(text string, max int) []string {
	if max <= 0 {
		return []string{text}
	}
	var out []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := max
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
