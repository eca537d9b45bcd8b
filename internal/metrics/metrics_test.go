package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDocumentsProcessedTotalIncrements(t *testing.T) {
	DocumentsProcessedTotal.WithLabelValues("ok").Add(0)
	before := testutil.ToFloat64(DocumentsProcessedTotal.WithLabelValues("ok"))

	DocumentsProcessedTotal.WithLabelValues("ok").Inc()

	after := testutil.ToFloat64(DocumentsProcessedTotal.WithLabelValues("ok"))
	assert.Equal(t, before+1, after)
}

func TestInsightsByVoiceTotalLabelsIndependently(t *testing.T) {
	InsightsByVoiceTotal.WithLabelValues("P").Add(0)
	InsightsByVoiceTotal.WithLabelValues("T").Add(0)

	InsightsByVoiceTotal.WithLabelValues("P").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(InsightsByVoiceTotal.WithLabelValues("P")))
	assert.Equal(t, float64(0), testutil.ToFloat64(InsightsByVoiceTotal.WithLabelValues("T")))
}

func TestHistogramsObserveWithoutPanicking(t *testing.T) {
	ProcessDuration.Observe(0.123)
	MartWriteDuration.WithLabelValues("insights").Observe(0.05)
	HTTPRequestDuration.WithLabelValues("GET", "/analyze").Observe(0.2)
}
