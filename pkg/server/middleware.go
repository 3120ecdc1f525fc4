/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
)

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestID returns the request ID stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps handler with request ID, recovery, logging, metrics,
// rate limiting and body size limits, outermost first.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.requestIDMiddleware(
		s.recoveryMiddleware(
			s.loggingMiddleware(
				s.rateLimitMiddleware(
					s.bodyLimitMiddleware(handler)))))
}

// requestIDMiddleware keeps a client supplied UUID request ID or assigns one.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) recoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				panicRecoveries.Inc()
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"requestID", RequestID(r.Context()))
				WriteError(w, r, http.StatusInternalServerError, gbperrors.ErrCodeInternal,
					"internal server error", true, nil)
			}
		}()
		next(w, r)
	}
}

func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())

		slog.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
			"requestID", RequestID(r.Context()))
	}
}

func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			retryAfter := 1
			if limit := float64(s.rateLimiter.Limit()); limit > 0 && limit < 1 {
				retryAfter = int(math.Ceil(1 / limit))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			WriteError(w, r, http.StatusTooManyRequests, gbperrors.ErrCodeRateLimitExceeded,
				"rate limit exceeded", true, map[string]any{"limit": float64(s.rateLimiter.Limit())})
			return
		}
		next(w, r)
	}
}

func (s *Server) bodyLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		}
		next(w, r)
	}
}
