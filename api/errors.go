// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for framepipe.

package api

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeInvalidUsage
	ErrCodeClosed
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid argument"
	case ErrCodeResourceExhausted:
		return "resource exhausted"
	case ErrCodeInvalidUsage:
		return "invalid usage"
	case ErrCodeClosed:
		return "closed"
	default:
		return "internal"
	}
}

// Error kinds. errors.Is(err, ErrInvalidUsage) matches every error carrying
// ErrCodeInvalidUsage, whatever its message.
var (
	ErrInvalidArgument   = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
	ErrResourceExhausted = &Error{Code: ErrCodeResourceExhausted, Message: "resource exhausted"}
	ErrInvalidUsage      = &Error{Code: ErrCodeInvalidUsage, Message: "invalid usage"}
	ErrPipeClosed        = &Error{Code: ErrCodeClosed, Message: "pipe is closed"}
)

// Contract violations. These indicate a bug in the caller and are never
// returned for ordinary backpressure.
var (
	ErrInvalidConsumer = &Error{Code: ErrCodeInvalidUsage, Message: "consumer id out of range"}
	ErrDoubleRelease   = &Error{Code: ErrCodeInvalidUsage, Message: "slot released without a matching receive"}
	ErrStaleHandle     = &Error{Code: ErrCodeInvalidUsage, Message: "handle refers to a recycled slot"}
	ErrForeignHandle   = &Error{Code: ErrCodeInvalidUsage, Message: "handle was not issued by this pipe"}
	ErrNotAcquired     = &Error{Code: ErrCodeInvalidUsage, Message: "slot is not held by the producer"}
)

var kinds = map[ErrorCode]*Error{
	ErrCodeInvalidArgument:   ErrInvalidArgument,
	ErrCodeResourceExhausted: ErrResourceExhausted,
	ErrCodeInvalidUsage:      ErrInvalidUsage,
	ErrCodeClosed:            ErrPipeClosed,
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is reports whether target is the same error or the kind sentinel for e's code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code != e.Code {
		return false
	}
	return t == kinds[t.Code] || t.Message == e.Message
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext returns a copy of e carrying one more context entry.
// Sentinels are never mutated.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{Code: e.Code, Message: e.Message, Context: ctx}
}

// IsInvalidUsage reports whether err is a contract violation.
func IsInvalidUsage(err error) bool {
	return errors.Is(err, ErrInvalidUsage)
}
