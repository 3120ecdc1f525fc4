/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

// WriteError writes an ErrorResponse with the request ID from the context.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code gbperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr maps err to a status and ErrorResponse. Errors without a
// code are reported as internal with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *gbperrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(extraDetails, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, gbperrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(gbperrors.ErrCodeInternal), details)
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code gbperrors.ErrorCode) int {
	switch code {
	case gbperrors.ErrCodeInvalidRequest, gbperrors.ErrCodeNoFieldsToUpdate:
		return http.StatusBadRequest
	case gbperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case gbperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case gbperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case gbperrors.ErrCodeConflict, gbperrors.ErrCodeAmbiguous:
		return http.StatusConflict
	case gbperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case gbperrors.ErrCodeBackend:
		return http.StatusBadGateway
	case gbperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case gbperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code gbperrors.ErrorCode) bool {
	switch code {
	case gbperrors.ErrCodeTimeout,
		gbperrors.ErrCodeUnavailable,
		gbperrors.ErrCodeRateLimitExceeded,
		gbperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with a's entries overlaid by b's, or nil
// when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
