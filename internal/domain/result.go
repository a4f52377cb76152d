// Package domain holds the uniform result envelope shared by every
// repository and session operation. Nothing escapes those layers as a raw
// error; callers always get a Result they can render as-is.
package domain

// Result is the de facto wire contract with the frontend.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Stable codes so the frontend can branch without parsing message text.
const (
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "not_found"
	CodeDuplicate     = "duplicate"
	CodeInvalidStatus = "invalid_status"
	CodeValidation    = "validation"
	CodeRateLimited   = "rate_limited"
	CodeInternal      = "internal"
)

func OK(data any) Result {
	return Result{Success: true, Data: data}
}

func OKMsg(data any, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

func Fail(code, errMsg string) Result {
	return Result{Success: false, Error: errMsg, Code: code}
}

// Internal wraps infrastructure failures; the underlying error is logged at
// the call site, never surfaced to the caller.
func Internal() Result {
	return Result{Success: false, Error: "Something went wrong", Code: CodeInternal}
}
