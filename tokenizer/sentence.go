package tokenizer

import "unicode/utf8"

// terminators are the Japanese sentence-terminating runes: 。(U+3002),
// ．(U+FF0E fullwidth period), ！(U+FF01 fullwidth exclamation),
// ？(U+FF1F fullwidth question mark). ASCII '.', '!', '?' are treated as
// ordinary punctuation — Japanese prose uses the fullwidth forms, and
// there is no abbreviation list to disambiguate the ASCII forms the way
// Latin-script sentence splitting needs one.
var terminators = map[rune]bool{
	'。': true,
	'．': true,
	'！': true,
	'？': true,
}

// sentenceTokens splits s into sentence-level tokens on Japanese
// terminators and newlines. A terminator cluster (e.g. "！？", "。。。")
// is consumed as a single break; a run of newlines is consumed as a
// single break and is left out of every token, so Sentences never carries
// a newline. SentenceTokens attaches those runs back onto adjacent tokens
// so that its output reconstructs s exactly.
func sentenceTokens(s string) []Token {
	tokens := make([]Token, 0, len(s)/40+1)
	sentStart := 0

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		if r == '\n' {
			if sentStart < i {
				tokens = append(tokens, Token{Text: s[sentStart:i], Start: sentStart, End: i, Type: Sentence})
			}
			j := i
			for j < len(s) && s[j] == '\n' {
				j++
			}
			sentStart = j
			i = j
			continue
		}

		if terminators[r] {
			j := i + size
			for j < len(s) {
				nr, ns := utf8.DecodeRuneInString(s[j:])
				if terminators[nr] {
					j += ns
				} else {
					break
				}
			}
			tokens = append(tokens, Token{Text: s[sentStart:j], Start: sentStart, End: j, Type: Sentence})
			sentStart = j
			i = j
			continue
		}

		i += size
	}

	if sentStart < len(s) {
		tokens = append(tokens, Token{Text: s[sentStart:], Start: sentStart, End: len(s), Type: Sentence})
	}

	return tokens
}
