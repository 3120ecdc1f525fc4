/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"encoding/json"
	"net/http"
	"strings"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// NeutronError is the error envelope emitted by the backend.
type NeutronError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type errorEnvelope struct {
	NeutronError *NeutronError `json:"NeutronError"`

	// Code and Message are set by server middleware errors (rate limiting,
	// recovery) that do not use the NeutronError envelope.
	Code    string `json:"code"`
	Message string `json:"message"`
}

// codeFromStatus maps an HTTP status to an error code.
func codeFromStatus(status int) gbperrors.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return gbperrors.ErrCodeNotFound
	case http.StatusConflict:
		return gbperrors.ErrCodeConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return gbperrors.ErrCodeUnauthorized
	case http.StatusTooManyRequests:
		return gbperrors.ErrCodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		return gbperrors.ErrCodeUnavailable
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return gbperrors.ErrCodeTimeout
	default:
		return gbperrors.ErrCodeBackend
	}
}

// backendError builds the error for a non-2xx response, keeping the backend
// message verbatim.
func backendError(method string, t resource.Type, status int, raw []byte) error {
	message := strings.TrimSpace(string(raw))
	details := map[string]any{
		"method":   method,
		"resource": string(t),
		"status":   status,
	}

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case env.NeutronError != nil:
			message = env.NeutronError.Message
			if env.NeutronError.Type != "" {
				details["type"] = env.NeutronError.Type
			}
		case env.Message != "":
			message = env.Message
			if env.Code != "" {
				details["type"] = env.Code
			}
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return gbperrors.WrapWithContext(codeFromStatus(status), message, nil, details)
}
