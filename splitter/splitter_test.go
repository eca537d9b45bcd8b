package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMinGreaterThanMax(t *testing.T) {
	_, err := New(Options{MinLength: 20, MaxLength: 10})
	require.Error(t, err)
	var invalid InvalidOptionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 20, invalid.MinLength)
	assert.Equal(t, 10, invalid.MaxLength)
}

func TestNewAcceptsEqualMinMax(t *testing.T) {
	_, err := New(Options{MinLength: 10, MaxLength: 10})
	require.NoError(t, err)
}

func TestSplitEmptyTextYieldsNoUtterances(t *testing.T) {
	s, err := New(DefaultOptions())
	require.NoError(t, err)
	got := s.Split("   ", Meta{})
	assert.Nil(t, got)
}

func TestSplitOnSentenceTerminators(t *testing.T) {
	s, err := New(Options{SplitBySentence: true, MinLength: 1, MaxLength: 500})
	require.NoError(t, err)
	got := s.Split("工程管理が遅い。とても困っている！", Meta{InterviewID: "INT_1", BaseLineNo: 5})
	require.Len(t, got, 2)
	assert.Equal(t, "工程管理が遅い。", got[0].Text)
	assert.Equal(t, "とても困っている！", got[1].Text)
	assert.Equal(t, 5, got[0].LineNo)
	assert.Equal(t, 6, got[1].LineNo)
	assert.Equal(t, "INT_1", got[0].InterviewID)
}

func TestSplitPropagatesMetadataToEveryUtterance(t *testing.T) {
	s, err := New(Options{SplitBySentence: true, MinLength: 1, MaxLength: 500})
	require.NoError(t, err)
	meta := Meta{SpeakerID: "sp1", Role: "engineer", Department: "ops", QuestionNo: 3, QuestionText: "課題は？", InterviewID: "INT_2"}
	got := s.Split("困っている。遅い。", meta)
	for _, u := range got {
		assert.Equal(t, "sp1", u.SpeakerID)
		assert.Equal(t, "engineer", u.Role)
		assert.Equal(t, "ops", u.Department)
		assert.Equal(t, 3, u.QuestionNo)
		assert.Equal(t, "課題は？", u.QuestionText)
		assert.Equal(t, "INT_2", u.InterviewID)
		assert.NotEmpty(t, u.ID)
	}
}

func TestSplitOnConjunctionParticle(t *testing.T) {
	s, err := New(Options{SplitBySentence: false, SplitByConjunction: true, MinLength: 1, MaxLength: 500})
	require.NoError(t, err)
	got := s.Split("工程は順調だが、ツールが古い", Meta{})
	require.Len(t, got, 2)
	assert.Equal(t, "工程は順調だが、", got[0].Text)
	assert.Equal(t, "ツールが古い", got[1].Text)
}

func TestSplitDisabledConjunctionKeepsWholeFragment(t *testing.T) {
	s, err := New(Options{SplitBySentence: false, SplitByConjunction: false, MinLength: 1, MaxLength: 500})
	require.NoError(t, err)
	got := s.Split("工程は順調だが、ツールが古い", Meta{})
	require.Len(t, got, 1)
	assert.Equal(t, "工程は順調だが、ツールが古い", got[0].Text)
}

func TestNormalizeLengthsMergesShortFragments(t *testing.T) {
	s, err := New(Options{SplitBySentence: true, MinLength: 20, MaxLength: 500})
	require.NoError(t, err)
	got := s.Split("短い。とても短い。", Meta{})
	require.Len(t, got, 1)
	assert.Equal(t, "短い。とても短い。", got[0].Text)
}

func TestNormalizeLengthsSlicesOversizedFragment(t *testing.T) {
	s, err := New(Options{SplitBySentence: false, SplitByConjunction: false, MinLength: 1, MaxLength: 5})
	require.NoError(t, err)
	long := strings.Repeat("困", 12)
	got := s.Split(long, Meta{})
	require.Len(t, got, 3)
	for i, u := range got {
		assert.LessOrEqual(t, len([]rune(u.Text)), 5, "fragment %d too long", i)
	}
	var rebuilt strings.Builder
	for _, u := range got {
		rebuilt.WriteString(u.Text)
	}
	assert.Equal(t, long, rebuilt.String())
}

func TestNormalizeLengthsFoldsShortTrailingSliceIntoBuffer(t *testing.T) {
	// 11 runes sliced at max=5 yields 5,5,1 — the trailing 1-rune slice is
	// below min=4 and folds into the buffer, which flushes as the final
	// utterance regardless of length: there is no later fragment left to
	// absorb it into.
	s, err := New(Options{SplitBySentence: false, SplitByConjunction: false, MinLength: 4, MaxLength: 5})
	require.NoError(t, err)
	got := s.Split(strings.Repeat("困", 11), Meta{})
	require.Len(t, got, 3)
	for i, u := range got[:len(got)-1] {
		assert.GreaterOrEqual(t, len([]rune(u.Text)), 4, "fragment %d", i)
	}
	assert.Equal(t, "困", got[len(got)-1].Text)
}
