package mart

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInsightsOneObjectPerLine(t *testing.T) {
	w := NewWriter()
	insights := []Insight{
		NewInsight(sampleInsight(), "doc1", "2026-05-01"),
		NewInsight(sampleInsight(), "doc1", "2026-05-01"),
	}

	var buf bytes.Buffer
	require.NoError(t, w.WriteInsights(context.Background(), &buf, insights))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	for _, line := range lines {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
		assert.Equal(t, insightType, decoded["mart_type"])
	}
}

func TestWriteInsightsEmptyProducesNoOutput(t *testing.T) {
	w := NewWriter()
	var buf bytes.Buffer
	require.NoError(t, w.WriteInsights(context.Background(), &buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteInsightsRespectsCancelledContext(t *testing.T) {
	w := NewWriter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := w.WriteInsights(ctx, &buf, []Insight{NewInsight(sampleInsight(), "doc1", "2026-05-01")})
	assert.Error(t, err)
}

func TestWriteSummaryProducesIndentedJSON(t *testing.T) {
	w := NewWriter()
	summary := Summary{ID: "pivot_x", MartType: summaryType, Period: Period{Type: "month"}}

	var buf bytes.Buffer
	require.NoError(t, w.WriteSummary(context.Background(), &buf, summary))

	assert.Contains(t, buf.String(), "\n  ")

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, summary.ID, decoded.ID)
}
