package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// ErrInvalidRequest marks requests rejected before any network I/O
// (unknown HTTP verb, body that cannot be serialized, bad query parameters).
var ErrInvalidRequest = errors.New("invalid api request")

// Kind tags the normalized failure classes surfaced by Client.
type Kind int

const (
	// KindHTTP is a non-2xx response. Never retried.
	KindHTTP Kind = iota + 1
	// KindNetwork is a transport failure with no response at all.
	KindNetwork
	// KindTimeout is an attempt abandoned after the per-attempt ceiling.
	KindTimeout
	// KindDecode is a 2xx response whose body is not valid JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Client for failed calls.
// Message is meant to be shown to users as-is.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Location is the base location of the attempt that produced the error.
	Location string
	Err      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

// StatusCode returns the upstream status for HTTP failures, 0 otherwise.
func StatusCode(err error) int {
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != KindHTTP {
		return 0
	}
	return apiErr.StatusCode
}

// Messages holds the fixed user-facing texts of the generic failures.
type Messages struct {
	Unreachable string
	Timeout     string
	Decode      string
	Upload      string
}

// DefaultMessages returns the English message set.
func DefaultMessages() Messages {
	return Messages{
		Unreachable: "service unreachable, please contact the administrator",
		Timeout:     "the server did not respond in time, please contact the administrator",
		Decode:      "could not process the server response",
		Upload:      "image upload failed",
	}
}

// PersianMessages returns the message set the web frontend shows.
func PersianMessages() Messages {
	return Messages{
		Unreachable: "مشکل در سرور با ادمین تماس بگیرید",
		Timeout:     "مشکل در سرور با ادمین تماس بگیرید",
		Decode:      "خطا در پردازش پاسخ سرور",
		Upload:      "خطا در آپلود عکس",
	}
}

// MessagesFor maps a locale name ("fa", "en") to a message set.
func MessagesFor(locale string) Messages {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "fa", "fa-ir", "persian":
		return PersianMessages()
	default:
		return DefaultMessages()
	}
}

func (m Messages) withDefaults() Messages {
	def := DefaultMessages()
	if m.Unreachable == "" {
		m.Unreachable = def.Unreachable
	}
	if m.Timeout == "" {
		m.Timeout = def.Timeout
	}
	if m.Decode == "" {
		m.Decode = def.Decode
	}
	if m.Upload == "" {
		m.Upload = def.Upload
	}
	return m
}

// errorMessageFields is the priority order for human-readable error text.
var errorMessageFields = []string{"detail", "error", "message", "msg"}

// httpErrorMessage extracts the message of a failed response: JSON payload first,
// then plain text, then a status-based fallback.
func httpErrorMessage(status int, header http.Header, body []byte) string {
	fallback := fmt.Sprintf("API request failed: %d", status)

	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		if isJSONContent(header) {
			return fallback
		}
		return text
	}

	for _, field := range errorMessageFields {
		if msg := messageFrom(payload[field]); msg != "" {
			return msg
		}
	}
	return fallback
}

func isJSONContent(header http.Header) bool {
	if header == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// messageFrom renders a payload field as text. Validation error lists
// ([{"msg": ...}, ...]) are joined; empty values yield "".
func messageFrom(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if msg := messageFrom(item); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		for _, field := range []string{"msg", "message", "detail", "error"} {
			if msg, ok := val[field].(string); ok && strings.TrimSpace(msg) != "" {
				return strings.TrimSpace(msg)
			}
		}
		raw, _ := json.Marshal(val)
		return string(raw)
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}
