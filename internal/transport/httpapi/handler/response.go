package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/validation"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// DetailResponse is the error envelope for non-validation failures
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ValidationResponse is the 422 envelope
type ValidationResponse struct {
	Detail []finapi.ValidationDetail `json:"detail"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// respondDetail sends {"detail": message}
func respondDetail(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, DetailResponse{Detail: message}, statusCode)
}

// respondValidation sends a 422 with one entry per violated body field
func respondValidation(w http.ResponseWriter, verr *validation.Error) {
	details := make([]finapi.ValidationDetail, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		loc := []any{"body"}
		if v.Field != "" {
			loc = append(loc, v.Field)
		}
		details = append(details, finapi.ValidationDetail{
			Loc:  loc,
			Msg:  v.Message,
			Type: v.Code,
		})
	}
	respondJSON(w, ValidationResponse{Detail: details}, http.StatusUnprocessableEntity)
}

// decodeJSON reads a single JSON object from the body. Syntax problems come
// back as a *validation.Error located at the body itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *validation.Error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	verr := &validation.Error{}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		verr.Add("", "missing", "Field required")
	case errors.As(err, &typeErr):
		verr.Add(typeErr.Field, "type_error", "Input should be a valid "+typeErr.Type.String())
	default:
		verr.Add("", "json_invalid", "JSON decode error")
	}
	return verr
}
