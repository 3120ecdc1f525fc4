/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides structured errors with stable codes.
//
// Every failure that reaches the user carries an ErrorCode so the CLI can map
// it to an exit status and the sandbox server can map it to an HTTP status.
// Use New for leaf errors and Wrap/WrapWithContext when annotating a cause:
//
//	return errors.WrapWithContext(errors.ErrCodeNotFound, "reference not found", nil,
//	    map[string]any{"resource": "l2_policy", "token": "web"})
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeAmbiguous         ErrorCode = "AMBIGUOUS_REFERENCE"
	ErrCodeNoFieldsToUpdate  ErrorCode = "NO_FIELDS_TO_UPDATE"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeBackend           ErrorCode = "BACKEND_ERROR"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StructuredError is an error with a code, a human message, an optional cause
// and optional key/value context (resource type, offending token, ...).
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error renders the message, the context keys in sorted order and the cause.
func (e *StructuredError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StructuredError with the same code, so that
// errors.Is(err, &StructuredError{Code: ErrCodeNotFound}) works through wraps.
func (e *StructuredError) Is(target error) bool {
	var t *StructuredError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// New creates a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext creates a StructuredError around cause with context details.
// cause may be nil.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether any StructuredError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &StructuredError{Code: code})
}

// Details returns the context of the outermost StructuredError in err's chain.
func Details(err error) map[string]any {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Context
	}
	return nil
}
