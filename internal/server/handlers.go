package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/career-diagnosis/internal/server/middleware"
	"github.com/jonathan/career-diagnosis/internal/types"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuestions returns the questionnaire in display order
func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"questions":   s.service.Catalog().Questions(),
		"skillLevels": types.SkillLevels,
	})
}

// ---------------------------------------------------------------------
// Diagnosis Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSubmitDiagnosis(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req types.SubmitDiagnosisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: "回答が含まれていません"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	rec, err := s.service.Submit(ctx, ownerID, req.Answers)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, rec)
}

func (s *Server) handleListDiagnoses(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	summaries, err := s.service.List(r.Context(), ownerID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"diagnoses": summaries,
		"count":     len(summaries),
	})
}

func (s *Server) handleGetDiagnosis(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	view, err := s.service.View(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req types.UpdateMemoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: fmt.Sprintf("メモが正しくありません: %v", err)})
		return
	}

	rec, err := s.service.UpdateMemo(r.Context(), ownerID, r.PathValue("id"), *req.Memo)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDiagnosis(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := s.service.Delete(r.Context(), ownerID, r.PathValue("id")); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	profile, err := s.service.Profile(r.Context(), ownerID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: fmt.Sprintf("プロフィールが正しくありません: %v", err)})
		return
	}

	profile, err := req.ToProfile(ownerID)
	if err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: "生年月日が正しくありません"})
		return
	}
	if err := s.service.UpdateProfile(r.Context(), profile); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// ownerID reads the authenticated owner, answering 401 when it is missing
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.jsonResponse(w, http.StatusUnauthorized, ErrorBody{Error: "認証が必要です", Code: CodeUnauthorized})
		return "", false
	}
	return ownerID, true
}
