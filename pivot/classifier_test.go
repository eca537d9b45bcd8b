package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/voice"
)

func mustLex(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Load()
	require.NoError(t, err)
	return lex
}

func TestClassifyEmptyUtteranceProducesNoInsight(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify([]Utterance{{ID: "u1", Text: "   "}})
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.Stats.DroppedCount)
}

func TestClassifyMorphologyWinsOverPattern(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify([]Utterance{{ID: "u1", Text: "工程管理が非常に遅くて困っている"}})
	require.Len(t, result.Items, 1)
	insight := result.Items[0]
	assert.Equal(t, voice.Pain, insight.Voice)
	assert.Equal(t, MorphologyBased, insight.ExtractionMethod)
	assert.Equal(t, -2, insight.BaseScore)
}

func TestClassifyScoreLawHolds(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify([]Utterance{{ID: "u1", Text: "工程管理が非常に遅くて困っている"}})
	require.Len(t, result.Items, 1)
	insight := result.Items[0]
	assert.Equal(t, voice.Scores[insight.Voice], insight.BaseScore)
	assert.InDelta(t, float64(insight.BaseScore)*insight.DegreeFactor*insight.Certainty, insight.IntensityScore, 1e-9)
}

func TestClassifyBucketLawHolds(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify([]Utterance{
		{ID: "u1", Text: "工程管理が非常に遅くて困っている"},
		{ID: "u2", Text: "請求処理は基幹システムでうまく回っている"},
	})
	total := 0
	for _, v := range voice.Ordered {
		total += len(result.ByVoice[v])
	}
	assert.Equal(t, len(result.Items), total)
}

func TestClassifySentimentIndexZeroWhenEmpty(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify(nil)
	assert.Equal(t, 0.0, result.SentimentIndex)
}

func TestClassifyConfidenceFloorIsEnforced(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinConfidence = 0.99
	c := New(mustLex(t), cfg)
	result := c.Classify([]Utterance{{ID: "u1", Text: "何かツールが心配"}})
	for _, item := range result.Items {
		assert.GreaterOrEqual(t, item.Confidence, 0.99)
	}
}

func TestClassifyDeterministicAcrossRuns(t *testing.T) {
	utterances := []Utterance{
		{ID: "u1", Text: "工程管理が非常に遅くて困っている"},
		{ID: "u2", Text: "担当者が辞めたら引継ぎできるか心配"},
		{ID: "u3", Text: "ガントチャート機能があれば効率化できる"},
	}
	c1 := New(mustLex(t), DefaultConfig())
	c2 := New(mustLex(t), DefaultConfig())
	r1 := c1.Classify(utterances)
	r2 := c2.Classify(utterances)
	require.Equal(t, len(r1.Items), len(r2.Items))
	for i := range r1.Items {
		assert.Equal(t, r1.Items[i].Voice, r2.Items[i].Voice)
		assert.Equal(t, r1.Items[i].Confidence, r2.Items[i].Confidence)
	}
}

func TestClassifyDomainWeightReordersEqualConfidenceItems(t *testing.T) {
	lex := mustLex(t)

	// Both utterances fire exactly one keyword and no pattern, verb,
	// adjective, or tail — both score a raw pattern-classifier confidence
	// of 0.2 (kw_score = min(1*0.2, 0.6)). With no domain weighting, the
	// tie keeps the input order (V first). daily_concerns weighs Pain
	// above Vision, which must flip that order.
	utterances := []Utterance{
		{ID: "u1", Text: "システムの標準化を検討している"}, // V keyword "標準化" only
		{ID: "u2", Text: "業務の負担を感じる"},       // P keyword "負担" only
	}

	unweighted := New(lex, DefaultConfig())
	baseline := unweighted.Classify(utterances)
	require.Len(t, baseline.Items, 2)
	assert.InDelta(t, 0.2, baseline.Items[0].Confidence, 1e-9)
	assert.InDelta(t, 0.2, baseline.Items[1].Confidence, 1e-9)
	assert.Equal(t, voice.Vision, baseline.Items[0].Voice)
	assert.Equal(t, voice.Pain, baseline.Items[1].Voice)

	cfg := DefaultConfig()
	cfg.Domain = voice.DailyConcerns
	weightTable := lex.DomainWeights[voice.DailyConcerns]
	require.NotEmpty(t, weightTable)
	require.Greater(t, weightTable[voice.Pain], weightTable[voice.Vision])

	weighted := New(lex, cfg)
	result := weighted.Classify(utterances)
	require.Len(t, result.Items, 2)
	assert.Equal(t, voice.Pain, result.Items[0].Voice)
	assert.Equal(t, voice.Vision, result.Items[1].Voice)
}

func TestClassifyPopulatesProvenance(t *testing.T) {
	c := New(mustLex(t), DefaultConfig())
	result := c.Classify([]Utterance{{
		ID: "u1", Text: "工程管理が非常に遅くて困っている",
		InterviewID: "INT_1", QuestionNo: 2, LineNo: 5, SpeakerID: "sp1", Role: "engineer",
	}})
	require.Len(t, result.Items, 1)
	src := result.Items[0].Source
	assert.Equal(t, "INT_1", src.InterviewID)
	assert.Equal(t, 2, src.QuestionNo)
	assert.Equal(t, 5, src.LineNo)
	assert.Equal(t, "sp1", src.SpeakerID)
	assert.Equal(t, "engineer", src.Role)
}
