// Package ner extracts named entities from Japanese interview text using
// rule-based pattern matching, feeding the mart insight record's
// keywords.entities field.
//
// The package recognizes four entity types: Email, URL, Phone (Japanese
// landline/mobile formats), and YenAmount (¥ prefix or 円 suffix amounts).
// Each entity is returned with byte offsets satisfying the invariant
// s[e.Start:e.End] == e.Text.
//
// Two API layers are provided:
//
//   - Structured: Recognize returns []Entity with offsets and type.
//   - Convenience: Emails, URLs, Phones, YenAmounts return []string.
//
// All functions are safe for concurrent use by multiple goroutines.
package ner

import (
	"encoding/json"
	"fmt"
)

// EntityType classifies a recognized entity.
type EntityType int

const (
	Email     EntityType = iota // email address
	URL                         // http or https URL
	Phone                       // Japanese phone number
	YenAmount                   // a ¥-prefixed or 円-suffixed amount
)

var entityTypeNames = [...]string{
	Email:     "Email",
	URL:       "URL",
	Phone:     "Phone",
	YenAmount: "YenAmount",
}

var entityTypeFromName = map[string]EntityType{
	"Email":     Email,
	"URL":       URL,
	"Phone":     Phone,
	"YenAmount": YenAmount,
}

// String returns the name of the entity type.
func (t EntityType) String() string {
	if int(t) >= 0 && int(t) < len(entityTypeNames) {
		return entityTypeNames[t]
	}
	return fmt.Sprintf("EntityType(%d)", int(t))
}

// MarshalJSON encodes the entity type as a JSON string (e.g. "Phone").
func (t EntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string (e.g. "Phone") into an EntityType.
func (t *EntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	et, ok := entityTypeFromName[s]
	if !ok {
		return fmt.Errorf("ner: unknown entity type: %q", s)
	}
	*t = et
	return nil
}

// Entity represents a recognized named entity with its position in the
// source text.
type Entity struct {
	Text  string     `json:"text"`
	Start int        `json:"start"` // byte offset, inclusive
	End   int        `json:"end"`   // byte offset, exclusive
	Type  EntityType `json:"type"`
}

// String returns a debug representation, e.g. Phone("03-1234-5678")[8:20].
func (e Entity) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", e.Type, e.Text, e.Start, e.End)
}

// maxInputBytes is the maximum input length Recognize will process.
const maxInputBytes = 1 << 20 // 1 MiB

// Recognize extracts all named entities from the input string, sorted by
// Start offset. When entities overlap, the one that starts first is kept;
// at the same start the longer match wins, and at equal length the
// pattern tried first (URL, Email, YenAmount, Phone) wins.
func Recognize(s string) []Entity {
	if s == "" || len(s) > maxInputBytes {
		return nil
	}
	return recognize(s)
}

// Emails returns all email address texts found in s.
func Emails(s string) []string {
	return filterTexts(Recognize(s), Email)
}

// URLs returns all URL texts found in s.
func URLs(s string) []string {
	return filterTexts(Recognize(s), URL)
}

// Phones returns all phone number texts found in s.
func Phones(s string) []string {
	return filterTexts(Recognize(s), Phone)
}

// YenAmounts returns all yen amount texts found in s.
func YenAmounts(s string) []string {
	return filterTexts(Recognize(s), YenAmount)
}

func filterTexts(entities []Entity, typ EntityType) []string {
	var out []string
	for _, e := range entities {
		if e.Type == typ {
			out = append(out, e.Text)
		}
	}
	return out
}
