package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/insightseries/pivot-insight/engine"
	"github.com/insightseries/pivot-insight/mart"
	"github.com/insightseries/pivot-insight/pivot"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeDocumentRequest is the /api/v1/analyze request body: a full
// interview document's raw text.
type analyzeDocumentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req analyzeDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if s.cache != nil {
		key := Key("document", req.Text)
		if resp, ok := s.cache.Get(r.Context(), key); ok {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		result, err := s.engine.Process(r.Context(), req.Text)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp := buildAnalysisResponse(result)
		s.cache.Set(r.Context(), key, resp)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	result, err := s.engine.Process(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buildAnalysisResponse(result))
}

// analyzeQARequest is the /api/v1/analyze/qa request body.
type analyzeQARequest struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	QuestionNo  int    `json:"question_no"`
	InterviewID string `json:"interview_id"`
	SpeakerID   string `json:"speaker_id"`
	Role        string `json:"role"`
	Department  string `json:"department"`
}

func (s *Server) handleAnalyzeQA(w http.ResponseWriter, r *http.Request) {
	var req analyzeQARequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	result, err := s.engine.ProcessQA(r.Context(), engine.QAInput{
		Question:    req.Question,
		Answer:      req.Answer,
		QuestionNo:  req.QuestionNo,
		InterviewID: req.InterviewID,
		SpeakerID:   req.SpeakerID,
		Role:        req.Role,
		Department:  req.Department,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buildAnalysisResponse(result))
}

// analyzeTextsRequest is the /api/v1/analyze/texts request body.
type analyzeTextsRequest struct {
	Texts []string `json:"texts"`
}

func (s *Server) handleAnalyzeTexts(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must be non-empty")
		return
	}

	result, err := s.engine.ProcessTexts(r.Context(), req.Texts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buildAnalysisResponse(result))
}

// buildAnalysisResponse projects a ClassificationResult into the mart
// shapes the HTTP API serializes, stamping observed_at with today and
// framing the summary over a single-request "ad_hoc" period.
func buildAnalysisResponse(result pivot.ClassificationResult) AnalysisResponse {
	today := time.Now().UTC().Format("2006-01-02")

	insights := make([]mart.Insight, len(result.Items))
	for i, ins := range result.Items {
		insights[i] = mart.NewInsight(ins, ins.Source.InterviewID, today)
	}

	return AnalysisResponse{
		Insights: insights,
		Summary:  mart.NewSummary(result, "ad_hoc", today, today),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
