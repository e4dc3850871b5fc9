package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: usecase.CodeValidationFailed, Message: msg})
}

// writeError maps a usecase error to its HTTP status. Technical failures are
// logged; their message is not echoed to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := usecase.ErrorCode(err)

	var status int
	switch code {
	case usecase.CodeNotFound:
		status = http.StatusNotFound
	case usecase.CodeValidationFailed:
		status = http.StatusBadRequest
	case usecase.CodeForbidden:
		status = http.StatusForbidden
	case usecase.CodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	var de *usecase.DomainError
	if !errors.As(err, &de) {
		logger.Error("request failed", zap.String("code", code), zap.Error(err))
		msg = "internal error"
		if code == usecase.CodeStoreUnavailable {
			msg = "store unavailable, retry later"
		}
	}
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

func failureKinds(failures []usecase.SubFailure) []string {
	kinds := make([]string, 0, len(failures))
	for _, k := range usecase.Kinds(failures) {
		kinds = append(kinds, string(k))
	}
	return kinds
}
