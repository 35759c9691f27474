package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation       = "validation_error"
	CodeUnknownTool      = "unknown_tool"
	CodeGenerationFailed = "generation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeInternal         = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func UnknownTool(err error) *Error {
	return New(http.StatusNotFound, CodeUnknownTool, err)
}

func GenerationFailed(err error) *Error {
	return New(http.StatusBadGateway, CodeGenerationFailed, err)
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
