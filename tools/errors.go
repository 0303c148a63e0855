package tools

import (
	"errors"
	"fmt"

	"github.com/richinex/tubegate/auth"
)

// Code classifies a failed dispatch.
type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeUnknownTool     Code = "UNKNOWN_TOOL"
	CodeUpstreamFailure Code = "UPSTREAM_FAILURE"
	CodeInternal        Code = "INTERNAL"
)

// Error is a classified dispatch failure. Message is what callers see.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInputf(format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Code: CodeInvalidInput, Message: "Invalid input: " + msg}
}

func unauthenticated() *Error {
	return &Error{
		Code:    CodeUnauthenticated,
		Message: "Unauthenticated: " + auth.ErrUnauthenticated.Error(),
		Err:     auth.ErrUnauthenticated,
	}
}

func unknownTool(name string) *Error {
	return &Error{Code: CodeUnknownTool, Message: "Unknown tool: " + name}
}

func internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: "Internal error: " + fmt.Sprintf(format, args...)}
}

// classify returns err as an *Error, assigning fallback when it carries no code.
func classify(err error, fallback Code) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, auth.ErrUnauthenticated) {
		return unauthenticated()
	}
	prefix := "Internal error: "
	switch fallback {
	case CodeUpstreamFailure:
		prefix = "Upstream failure: "
	case CodeInvalidInput:
		prefix = "Invalid input: "
	}
	return &Error{Code: fallback, Message: prefix + err.Error(), Err: err}
}
