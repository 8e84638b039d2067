package finapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport wraps network failures and timeouts
var ErrTransport = errors.New("finapi transport error")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string
	Fields     []ValidationDetail
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Field()+": "+f.Msg)
		}
		return fmt.Sprintf("finapi: status %d: %s", e.StatusCode, strings.Join(msgs, "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("finapi: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("finapi: status %d", e.StatusCode)
}

// newAPIError decodes the detail envelope if the body has one
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env errorBody
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		apiErr.Detail = s
		return apiErr
	}

	var fields []ValidationDetail
	if err := json.Unmarshal(env.Detail, &fields); err == nil {
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.Detail = string(env.Detail)
	return apiErr
}

// AsAPIError extracts an *APIError from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound checks if err is (or wraps) a 404 from the backend
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation checks if err is (or wraps) a backend validation failure
func IsValidation(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusUnprocessableEntity || len(apiErr.Fields) > 0
}

// IsTransport checks if err is (or wraps) a network failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
