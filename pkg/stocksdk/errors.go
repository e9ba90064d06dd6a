package stocksdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNoRefreshToken is returned by Refresh when nothing is stored to
	// refresh with.
	ErrNoRefreshToken = errors.New("stocksdk: no refresh token stored")

	// ErrBodyNotReplayable is returned when a request needs a retry after a
	// refresh but its body was already consumed.
	ErrBodyNotReplayable = errors.New("stocksdk: request body cannot be replayed")

	// ErrIncompleteTokenResponse is returned when the token endpoint answers
	// 200 without the tokens a session needs.
	ErrIncompleteTokenResponse = errors.New("stocksdk: incomplete token response")
)

// APIError is any non-success response from the API.
//
// The backend answers in several shapes: {"detail": ...} from the auth
// layer, {"error": ...} or {"message": ...} from views, a field map from
// serializer validation, or a bare list of messages. Whatever was found is
// mapped onto Detail and Fields; Body always holds the raw payload.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Fields     map[string][]string
	Body       []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error %d", e.StatusCode)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	for _, field := range sortedKeys(e.Fields) {
		fmt.Fprintf(&b, "; %s: %s", field, strings.Join(e.Fields[field], " "))
	}

	if e.Detail == "" && len(e.Fields) == 0 {
		b.WriteString(": ")
		b.WriteString(http.StatusText(e.StatusCode))
	}
	return b.String()
}

// IsUnauthorized reports whether err is (or wraps) a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is (or wraps) a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ValidationError is returned before any request is sent when the input is
// obviously invalid. Fields maps JSON field names to a reason.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// messageKeys hold a human readable summary rather than a field error.
var messageKeys = []string{"detail", "error", "message", "non_field_errors"}

// parseErrorResponse turns an error response into an *APIError.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	// Bare list: ["Stock item already exists."]
	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		apiErr.Detail = strings.Join(list, " ")
		return apiErr
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return apiErr
	}

	if raw, ok := obj["code"]; ok {
		_ = json.Unmarshal(raw, &apiErr.Code)
		delete(obj, "code")
	}

	var details []string
	for _, key := range messageKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		details = append(details, messages(raw)...)
		delete(obj, key)
	}
	apiErr.Detail = strings.Join(details, " ")

	// simplejwt adds a "messages" array of per-token diagnostics.
	delete(obj, "messages")

	for field, raw := range obj {
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string, len(obj))
		}
		apiErr.Fields[field] = messages(raw)
	}

	return apiErr
}

// messages flattens a string, a list of strings or anything else into a list.
func messages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	return []string{string(raw)}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
