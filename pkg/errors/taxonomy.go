/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
)

// NotFound reports that token matches no resource of resourceType.
func NotFound(resourceType, token string) *StructuredError {
	return WrapWithContext(ErrCodeNotFound,
		fmt.Sprintf("unable to find %s with name or id '%s'", resourceType, token), nil,
		map[string]any{"resource": resourceType, "token": token})
}

// Ambiguous reports that token matches more than one resource of resourceType.
func Ambiguous(resourceType, token string, candidates []string) *StructuredError {
	return WrapWithContext(ErrCodeAmbiguous,
		fmt.Sprintf("multiple %s matches found for name '%s', use an id to be more specific", resourceType, token), nil,
		map[string]any{"resource": resourceType, "token": token, "candidates": strings.Join(candidates, ",")})
}

// Invalid reports a value outside its declared domain or a missing required field.
func Invalid(field, message string) *StructuredError {
	return WrapWithContext(ErrCodeInvalidRequest, message, nil, map[string]any{"field": field})
}

// NoFieldsToUpdate reports an update whose body would be empty.
func NoFieldsToUpdate(resourceType, token string) *StructuredError {
	return WrapWithContext(ErrCodeNoFieldsToUpdate,
		fmt.Sprintf("no fields to update for %s '%s'", resourceType, token), nil,
		map[string]any{"resource": resourceType, "token": token})
}

// Exit statuses returned by the CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitCanceled   = 2
	ExitInvalid    = 3
	ExitUnresolved = 4
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return ExitCanceled
	}
	switch CodeOf(err) {
	case ErrCodeTimeout:
		return ExitCanceled
	case ErrCodeInvalidRequest, ErrCodeNoFieldsToUpdate:
		return ExitInvalid
	case ErrCodeNotFound, ErrCodeAmbiguous:
		return ExitUnresolved
	default:
		return ExitFailure
	}
}
