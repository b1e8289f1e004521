package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/authcore/authcore/internal/apperr"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// statusByKind is the fixed mapping from domain error kinds to HTTP status
// codes. Every kind a service can report has exactly one status.
var statusByKind = map[apperr.Kind]int{
	apperr.KindValidationFailed:   http.StatusUnprocessableEntity,
	apperr.KindConflict:           http.StatusConflict,
	apperr.KindNotFound:           http.StatusNotFound,
	apperr.KindInvalidCredentials: http.StatusConflict,
	apperr.KindInvalidCode:        http.StatusBadRequest,
	apperr.KindExpired:            http.StatusGone,
	apperr.KindAlreadyVerified:    http.StatusConflict,
	apperr.KindSameAsOldSecret:    http.StatusConflict,
	apperr.KindInternal:           http.StatusInternalServerError,
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondWithDomainError classifies err and writes it with its mapped status.
func respondWithDomainError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	respondWithError(w, status, string(kind), apperr.MessageOf(err))
}

func respondWithValidationErrors(w http.ResponseWriter, details []FieldError) {
	respondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(apperr.KindValidationFailed),
			Message: "Validation failed",
			Details: details,
		},
	})
}
