package ner

import (
	"cmp"
	"regexp"
	"slices"
)

// Compiled patterns, checked in priority order by recognize. URL and Email
// are checked first because their delimiters (scheme, @) are unambiguous;
// YenAmount and Phone are both digit-heavy and could otherwise collide on
// a bare run of digits, so YenAmount (which requires a currency marker) is
// tried before the more permissive Phone patterns.
var (
	reURL   = regexp.MustCompile(`https?://[^\s<>"'「」『』]*[^\s<>"'「」『』,.、。]`)
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// ¥12,000 / ￥12000 or 1万2000円 / 12,000円 style amounts.
	reYenSymbol = regexp.MustCompile(`[¥￥]\s?[0-9０-９,，]+(?:\.[0-9]+)?`)
	reYenSuffix = regexp.MustCompile(`[0-9０-９,，]+(?:万)?[0-9０-９,，]*円`)

	// Japanese phone numbers: 0AB-CDEF-GHIJ (landline/mobile) or a +81
	// international form. Hyphens may be full-width or absent.
	rePhoneLocal = regexp.MustCompile(`0[0-9０-９]{1,4}[-－]?[0-9０-９]{1,4}[-－]?[0-9０-９]{4}`)
	rePhoneIntl  = regexp.MustCompile(`\+81[-－]?[0-9０-９]{1,4}[-－]?[0-9０-９]{1,4}[-－]?[0-9０-９]{4}`)
)

// maxEntities bounds how many entities a single recognize call will return,
// guarding against pathological input built from many tiny matches.
const maxEntities = 10000

func recognize(s string) []Entity {
	var found []Entity

	found = appendMatches(found, s, reURL, URL)
	found = appendMatches(found, s, reEmail, Email)
	found = appendMatches(found, s, reYenSymbol, YenAmount)
	found = appendMatches(found, s, reYenSuffix, YenAmount)
	found = appendMatches(found, s, rePhoneIntl, Phone)
	found = appendMatches(found, s, rePhoneLocal, Phone)

	return resolveOverlaps(found)
}

func appendMatches(found []Entity, s string, re *regexp.Regexp, typ EntityType) []Entity {
	for _, loc := range re.FindAllStringIndex(s, -1) {
		found = append(found, Entity{
			Text:  s[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
			Type:  typ,
		})
	}
	return found
}

// resolveOverlaps orders candidates by start offset (ties broken by
// longest match first) and greedily keeps non-overlapping matches, so a
// longer match always wins over a shorter one starting at the same place.
func resolveOverlaps(found []Entity) []Entity {
	if len(found) == 0 {
		return nil
	}

	slices.SortStableFunc(found, func(a, b Entity) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End-b.Start, a.End-a.Start)
	})

	kept := make([]Entity, 0, len(found))
	for _, e := range found {
		if len(kept) >= maxEntities {
			break
		}
		if len(kept) > 0 {
			last := kept[len(kept)-1]
			if e.Start < last.End {
				// Overlaps the last kept entity; only the longer of the
				// two survives, and the sort above already put it first
				// for a given Start, so any later overlap here is shorter.
				continue
			}
		}
		kept = append(kept, e)
	}

	return kept
}
