// Package server provides the HTTP REST API for the career diagnosis service.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/career-diagnosis/internal/diagnosis"
)

// Error codes for failures outside the diagnosis pipeline
const (
	CodeBadRequest   = "bad_request"
	CodeNotFound     = "not_found"
	CodeForbidden    = "forbidden"
	CodeUnavailable  = "unavailable"
	CodeInternal     = "internal_error"
	CodeRateLimited  = "rate_limit_exceeded"
	CodeUnauthorized = "unauthorized"
)

// msgDiagnosisFailed is shown for every non-validation pipeline failure.
// Clients tell causes apart by code only.
const msgDiagnosisFailed = "診断の実行に失敗しました"

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	QuestionID string `json:"questionId,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ErrBadRequest indicates a malformed or invalid request body
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// describe maps an error to its status and response body
func describe(err error) (int, ErrorBody) {
	var badReq *ErrBadRequest
	var stageErr *diagnosis.StageError

	switch {
	case err == nil:
		return http.StatusOK, ErrorBody{}
	case errors.As(err, &badReq):
		return http.StatusBadRequest, ErrorBody{Error: badReq.Message, Code: CodeBadRequest}
	case errors.Is(err, diagnosis.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: "診断結果が見つかりません", Code: CodeNotFound}
	case errors.Is(err, diagnosis.ErrForbidden):
		return http.StatusForbidden, ErrorBody{Error: "この診断結果にはアクセスできません", Code: CodeForbidden}
	case errors.Is(err, diagnosis.ErrProfilesUnavailable):
		return http.StatusServiceUnavailable, ErrorBody{Error: "プロフィール機能は利用できません", Code: CodeUnavailable}
	case errors.As(err, &stageErr):
		return describeStage(stageErr)
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "内部エラーが発生しました", Code: CodeInternal}
	}
}

func describeStage(e *diagnosis.StageError) (int, ErrorBody) {
	body := ErrorBody{Error: msgDiagnosisFailed, Code: string(e.Code)}

	switch e.Stage {
	case diagnosis.StageValidate:
		if vErr, ok := diagnosis.ValidationFailure(e); ok {
			body.Error = vErr.Error()
			body.QuestionID = vErr.QuestionID
			body.Reason = string(vErr.Reason)
		}
		return http.StatusBadRequest, body
	case diagnosis.StageGenerate, diagnosis.StageExtract:
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, body
	}
}
