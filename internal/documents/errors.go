package documents

import "errors"

// RenderError represents a failed render. No output is produced alongside it.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for RenderError
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeCanvasFailed   = "CANVAS_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

var (
	ErrNoLineItems     = errors.New("at least one line item is required")
	ErrNegativeAmount  = errors.New("price and tax rate must not be negative")
	ErrTaxRateRejected = errors.New("tax rate is not one of the accepted rates")
	ErrInvalidDueDate  = errors.New("due date must be formatted as YYYY-MM-DD or DD-MM-YYYY")
)

// IsInvalidRequest reports whether err is a RenderError caused by bad input
func IsInvalidRequest(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == ErrCodeInvalidRequest
}
