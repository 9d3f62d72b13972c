package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/c360studio/docsense/extract"
	"github.com/c360studio/docsense/reply"
	"github.com/c360studio/docsense/store"
)

// allowedExtensions whitelists upload file types before extraction runs.
var allowedExtensions = map[string]bool{
	".txt": true,
	".pdf": true,
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Summary    string `json:"summary"`
	WordCount  int    `json:"word_count"`
}

type askQuestionRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

type generateChallengeRequest struct {
	DocumentID string `json:"document_id"`
}

type generateChallengeResponse struct {
	Success   bool                      `json:"success"`
	Questions []reply.ChallengeQuestion `json:"questions"`
}

type evaluateAnswerRequest struct {
	DocumentID    string `json:"document_id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`

	// QuestionIndex, when present, selects a previously generated challenge
	// question instead of the inline question/correct_answer pair.
	QuestionIndex *int `json:"question_index,omitempty"`
}

// handleUploadDocument accepts a multipart document upload, extracts its
// text, stores it, and returns the id with an automatic summary.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	filename := header.Filename
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s (only .txt and .pdf)", ext))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	text, err := s.extractors.Extract(filename, content)
	if err != nil {
		s.logger.Warn("Extraction failed", "filename", filename, "error", err)
		s.respondDomainError(w, err)
		return
	}

	id := s.docs.Put(filename, text)

	// Re-uploads of identical content reuse the cached summary. Degraded
	// summaries are served but never cached, so a re-upload after the
	// gateway recovers gets a real one.
	summary, ok := s.docs.Summary(id)
	if !ok || summary == "" {
		var sumErr error
		summary, sumErr = s.assistant.Summarize(r.Context(), text, 0)
		if sumErr == nil {
			if err := s.docs.CacheSummary(id, summary); err != nil {
				s.logger.Warn("Caching summary failed", "document_id", id, "error", err)
			}
		}
	}

	s.logger.Info("Document uploaded",
		"document_id", id,
		"filename", filename,
		"bytes", len(content))

	s.respondJSON(w, http.StatusOK, uploadResponse{
		Success:    true,
		DocumentID: id,
		Filename:   filename,
		Summary:    summary,
		WordCount:  len(strings.Fields(text)),
	})
}

// handleAskQuestion answers a free-form question against a document.
func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DocumentID == "" || req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "document_id and question are required")
		return
	}

	answer, err := s.assistant.AnswerQuestion(r.Context(), req.DocumentID, req.Question)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, answer)
}

// handleGenerateChallenge generates challenge questions for a document.
func (s *Server) handleGenerateChallenge(w http.ResponseWriter, r *http.Request) {
	var req generateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DocumentID == "" {
		s.respondError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	questions, err := s.assistant.GenerateChallenge(r.Context(), req.DocumentID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, generateChallengeResponse{
		Success:   true,
		Questions: questions,
	})
}

// handleEvaluateAnswer grades a user's answer. With question_index set it
// grades against the stored challenge question; otherwise the caller
// supplies the question and expected answer inline.
func (s *Server) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req evaluateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DocumentID == "" || req.UserAnswer == "" {
		s.respondError(w, http.StatusBadRequest, "document_id and user_answer are required")
		return
	}

	var (
		eval reply.Evaluation
		err  error
	)
	if req.QuestionIndex != nil {
		eval, err = s.assistant.EvaluateStoredAnswer(r.Context(), req.DocumentID, *req.QuestionIndex, req.UserAnswer)
	} else {
		if req.Question == "" {
			s.respondError(w, http.StatusBadRequest, "question is required without question_index")
			return
		}
		eval, err = s.assistant.EvaluateAnswer(r.Context(), req.DocumentID, req.Question, req.CorrectAnswer, req.UserAnswer)
	}
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, eval)
}

// handleHealth reports process liveness only; it does not probe upstream
// model endpoints.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// respondDomainError maps domain errors to HTTP statuses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, extract.ErrDecoding),
		errors.Is(err, extract.ErrExtraction),
		errors.Is(err, extract.ErrUnsupportedType):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}
