package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

var errInvalidID = errors.New("id must be a positive integer")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeQuotaExceeded:
		return http.StatusConflict
	case usecase.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a use case error onto its HTTP status. Store failures are
// logged and their cause is not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	code := usecase.ErrorCode(err)
	resp := ErrorResponse{Error: code, Message: err.Error()}

	var verrs usecase.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = verrs
	}

	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		resp.Message = "internal error"
	}

	if code == usecase.CodeQuotaExceeded {
		middleware.RecordFocusRejected()
	}

	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: usecase.CodeValidation, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, errInvalidID.Error())
		return 0, false
	}
	return id, true
}

// owner is set by middleware.RequireOwner on every API route.
func owner(r *http.Request) string {
	id, _ := middleware.OwnerFromContext(r.Context())
	return id
}

// queryEnum reads an optional enum filter from the query string.
func queryEnum[T ~string](w http.ResponseWriter, r *http.Request, key string, valid func(T) bool) (*T, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	v := T(raw)
	if !valid(v) {
		badRequest(w, "unknown "+key+": "+raw)
		return nil, false
	}
	return &v, true
}
