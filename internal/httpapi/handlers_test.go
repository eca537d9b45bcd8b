package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightseries/pivot-insight/engine"
	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/pivot"
	"github.com/insightseries/pivot-insight/splitter"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	lex, err := lexicon.Load()
	require.NoError(t, err)
	e, err := engine.New(lex, splitter.DefaultOptions(), pivot.DefaultConfig())
	require.NoError(t, err)
	return NewServer(e, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestHandleAnalyzeTexts(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/texts", analyzeTextsRequest{
		Texts: []string{"工程管理が非常に遅くて困っている。", "請求処理は基幹システムでうまく回っている。"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Insights, 2)
	assert.Equal(t, "pivot_summary", resp.Summary.MartType)
}

func TestHandleAnalyzeTextsRejectsEmptyList(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/texts", analyzeTextsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeQA(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/qa", analyzeQARequest{
		Question: "最近困っていることは？",
		Answer:   "工程管理が非常に遅くて困っている。",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Insights)
	assert.Equal(t, "P", resp.Insights[0].PivotVoice)
}

func TestHandleAnalyzeQARejectsEmptyAnswer(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze/qa", analyzeQARequest{Question: "質問？"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeDocumentRejectsMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeDocumentClassifiesFullInterview(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/analyze", analyzeDocumentRequest{
		Text: "# タイトル\n\n## Q1 質問？\n工程管理が非常に遅くて困っている。\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Insights)
}
