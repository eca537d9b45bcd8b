// Package data embeds the closed dictionaries and pattern tables that
// calibrate the PIVOT pipeline: verb categories, adjective sentiment,
// degree/frequency adverbs, sentence-tail patterns, per-voice keyword and
// pattern sets, layer keywords and extraction patterns, temperature words,
// metadata key aliases, and domain weights.
//
// These are configuration, not logic: the files are tab-separated,
// hand-curated, and small enough to read at a glance. Callers
// should go through internal/lexicon rather than parsing these files
// directly — see internal/lexicon's doc comment for why.
package data

import _ "embed"

//go:embed verbs.tsv
var Verbs string

//go:embed adjectives.tsv
var Adjectives string

//go:embed degree_adverbs.tsv
var DegreeAdverbs string

//go:embed frequency_adverbs.tsv
var FrequencyAdverbs string

//go:embed tails.tsv
var Tails string

//go:embed voice_keywords.tsv
var VoiceKeywords string

//go:embed voice_patterns.tsv
var VoicePatterns string

//go:embed layer_keywords.tsv
var LayerKeywords string

//go:embed layer_patterns.tsv
var LayerPatterns string

//go:embed temperature_words.tsv
var TemperatureWords string

//go:embed metadata_aliases.tsv
var MetadataAliases string

//go:embed domain_weights.tsv
var DomainWeights string
