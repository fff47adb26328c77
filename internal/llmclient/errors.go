package llmclient

import "fmt"

// ErrorCode classifies completion client failures. Using a custom type keeps
// callers switching on well-known constants instead of string matching.
type ErrorCode string

const (
	// ErrCodeNotConnected covers an unreachable provider or a missing API
	// key; raised before any model call when the health probe is failing.
	ErrCodeNotConnected ErrorCode = "NOT_CONNECTED"
	// ErrCodeRequestFailed is any non-200 status other than a transport
	// failure.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrCodeTimeout means the request exceeded the configured interval.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInvalidResponse means the HTTP envelope itself could not be
	// decoded. Malformed model JSON inside a valid envelope is NOT this
	// error; that case degrades at the processor layer instead.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
)

// AIError is the typed error surfaced by the completion client and the
// pipeline's connectivity gate.
type AIError struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *AIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *AIError) Unwrap() error { return e.Err }

// NewAIError builds an AIError wrapping an optional cause.
func NewAIError(code ErrorCode, msg string, err error) *AIError {
	return &AIError{Code: code, Msg: msg, Err: err}
}

// CodeOf extracts the ErrorCode from an error chain, or "" when the error is
// not an AIError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if ae, ok := err.(*AIError); ok {
			return ae.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
