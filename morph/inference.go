package morph

import "github.com/insightseries/pivot-insight/voice"

// Inference is the verdict PIVOT inference reaches from a Features bundle:
// a voice, a confidence, and the human-readable rule that fired.
type Inference struct {
	Voice      voice.Voice
	Confidence float64
	Reason     string
}

// rule is one row of the priority-ordered decision table. Rules are tried
// in slice order; the first whose condition holds wins.
type rule struct {
	reason string
	fires  func(f Features) bool
	voice  voice.Voice
	conf   float64
}

var rules = []rule{
	{
		reason: "obstacle/difficulty verb with negative sentiment and high certainty",
		fires: func(f Features) bool {
			return (f.HasVerbCategory(Obstacle) || f.HasVerbCategory(Difficulty)) &&
				f.SentimentScore < 0 && f.Certainty >= 0.9
		},
		voice: voice.Pain, conf: 0.90,
	},
	{
		reason: "loss verb present",
		fires:  func(f Features) bool { return f.HasVerbCategory(Loss) },
		voice:  voice.Insecurity, conf: 0.85,
	},
	{
		reason: "anxiety adjective present",
		fires:  func(f Features) bool { return f.HasSentiment(Anxiety) },
		voice:  voice.Insecurity, conf: 0.80,
	},
	{
		reason: "low certainty with insecurity pivot tendency",
		fires: func(f Features) bool {
			return f.Certainty <= 0.6 && f.PivotTendency != nil && *f.PivotTendency == voice.Insecurity
		},
		voice: voice.Insecurity, conf: 0.75,
	},
	{
		reason: "desire verb present",
		fires:  func(f Features) bool { return f.HasVerbCategory(Desire) },
		voice:  voice.Vision, conf: 0.85,
	},
	{
		reason: "vision pivot tendency from sentence tail",
		fires:  func(f Features) bool { return f.PivotTendency != nil && *f.PivotTendency == voice.Vision },
		voice:  voice.Vision, conf: 0.80,
	},
	{
		reason: "rejection verb present",
		fires:  func(f Features) bool { return f.HasVerbCategory(Rejection) },
		voice:  voice.Objection, conf: 0.85,
	},
	{
		reason: "objection pivot tendency from sentence tail",
		fires:  func(f Features) bool { return f.PivotTendency != nil && *f.PivotTendency == voice.Objection },
		voice:  voice.Objection, conf: 0.80,
	},
	{
		reason: "success verb with positive sentiment",
		fires:  func(f Features) bool { return f.HasVerbCategory(Success) && f.SentimentScore > 0 },
		voice:  voice.Traction, conf: 0.90,
	},
	{
		reason: "success verb present",
		fires:  func(f Features) bool { return f.HasVerbCategory(Success) },
		voice:  voice.Traction, conf: 0.70,
	},
	{
		reason: "strongly negative sentiment",
		fires:  func(f Features) bool { return f.SentimentScore < -0.5 },
		voice:  voice.Pain, conf: 0.60,
	},
	{
		reason: "strongly positive sentiment",
		fires:  func(f Features) bool { return f.SentimentScore > 0.5 },
		voice:  voice.Traction, conf: 0.60,
	},
}

// Infer applies the priority-ordered PIVOT inference table to a Features
// bundle. The second return value is false when no rule fires — morphology
// has no verdict and the caller should fall back to the pattern classifier.
//
// Infer is a pure function of f: it touches no dictionary state, so unlike
// Analyze it has no Structured/Convenience split and no receiver.
func Infer(f Features) (Inference, bool) {
	for _, r := range rules {
		if r.fires(f) {
			return Inference{Voice: r.voice, Confidence: r.conf, Reason: r.reason}, true
		}
	}
	return Inference{}, false
}
