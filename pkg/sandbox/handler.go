/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
	"github.com/NVIDIA/gbpctl/pkg/server"
)

// AuthTokenHeader carries the caller's token.
const AuthTokenHeader = "X-Auth-Token"

// Handler serves the REST API rooted at client.APIVersionPath.
type Handler struct {
	store *Store
	token string
	paths map[string]*resource.Descriptor
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithToken requires every request to carry token in X-Auth-Token.
func WithToken(token string) HandlerOption {
	return func(h *Handler) {
		h.token = token
	}
}

// NewHandler returns a Handler serving every type registered in the store.
func NewHandler(store *Store, opts ...HandlerOption) *Handler {
	h := &Handler{store: store, paths: make(map[string]*resource.Descriptor)}
	for _, t := range store.registry.Types() {
		d, _ := store.registry.Get(t)
		h.paths[d.Path] = d
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Pattern is the mux pattern the handler expects to be mounted on.
func (h *Handler) Pattern() string {
	return client.APIVersionPath + "/"
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get(AuthTokenHeader) != h.token {
		writeNeutronError(w, r, gbperrors.New(gbperrors.ErrCodeUnauthorized, "authentication required"))
		return
	}

	d, id, ok := h.route(r.URL.Path)
	if !ok {
		writeNeutronError(w, r, gbperrors.WrapWithContext(gbperrors.ErrCodeNotFound,
			"the resource could not be found", nil, map[string]any{"path": r.URL.Path}))
		return
	}

	slog.Debug("sandbox request",
		"method", r.Method,
		"resource", string(d.Type),
		"id", id,
		"requestID", server.RequestID(r.Context()))

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, d)
		case http.MethodPost:
			h.create(w, r, d)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.show(w, r, d, id)
	case http.MethodPut:
		h.update(w, r, d, id)
	case http.MethodDelete:
		h.delete(w, r, d, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// route splits /v2.0/<collection path>[/<id>][.json] into a descriptor and id.
func (h *Handler) route(path string) (*resource.Descriptor, string, bool) {
	rest, ok := strings.CutPrefix(path, client.APIVersionPath)
	if !ok {
		return nil, "", false
	}
	rest = strings.TrimSuffix(strings.TrimSuffix(rest, ".json"), "/")

	if d, ok := h.paths[rest]; ok {
		return d, "", true
	}
	i := strings.LastIndex(rest, "/")
	if i <= 0 {
		return nil, "", false
	}
	if d, ok := h.paths[rest[:i]]; ok && rest[i+1:] != "" {
		return d, rest[i+1:], true
	}
	return nil, "", false
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, d *resource.Descriptor) {
	records, err := h.store.List(d.Type, r.URL.Query())
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, map[string][]client.Record{d.Plural: records})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, d *resource.Descriptor, id string) {
	rec, err := h.store.Get(d.Type, id)
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, map[string]client.Record{string(d.Type): rec})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, d *resource.Descriptor) {
	attrs, err := decodeBody(r, d)
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	rec, err := h.store.Create(d.Type, attrs)
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	serializer.RespondJSON(w, http.StatusCreated, map[string]client.Record{string(d.Type): rec})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, d *resource.Descriptor, id string) {
	attrs, err := decodeBody(r, d)
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	rec, err := h.store.Update(d.Type, id, attrs)
	if err != nil {
		writeNeutronError(w, r, err)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, map[string]client.Record{string(d.Type): rec})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, d *resource.Descriptor, id string) {
	if err := h.store.Delete(d.Type, id); err != nil {
		writeNeutronError(w, r, err)
		return
	}
	serializer.RespondNoContent(w)
}

// decodeBody reads {"<type>": {...}}.
func decodeBody(r *http.Request, d *resource.Descriptor) (map[string]any, error) {
	var envelope map[string]map[string]any
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		return nil, gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "request body is not valid JSON", err)
	}
	attrs, ok := envelope[string(d.Type)]
	if !ok || attrs == nil {
		return nil, gbperrors.Invalid(string(d.Type), fmt.Sprintf("resource body must be an object under %q", d.Type))
	}
	return attrs, nil
}

// NeutronError is the error body the API returns.
type NeutronError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func writeNeutronError(w http.ResponseWriter, r *http.Request, err error) {
	code := gbperrors.CodeOf(err)
	message := err.Error()
	var se *gbperrors.StructuredError
	if errors.As(err, &se) {
		message = se.Message
	}

	status := server.HTTPStatusFromCode(code)
	if status >= http.StatusInternalServerError {
		slog.Error("sandbox request failed", "path", r.URL.Path, "error", err)
	}

	serializer.RespondJSON(w, status, map[string]NeutronError{
		"NeutronError": {Type: errorType(err), Message: message},
	})
}

var titleCaser = cases.Title(language.Und)

// errorType names the failure the way the API does, e.g. L2PolicyNotFound.
func errorType(err error) string {
	code := gbperrors.CodeOf(err)
	subject := ""
	if t, ok := gbperrors.Details(err)["resource"].(string); ok {
		subject = strings.ReplaceAll(titleCaser.String(strings.ReplaceAll(t, "_", " ")), " ", "")
	}

	switch code {
	case gbperrors.ErrCodeNotFound:
		return subject + "NotFound"
	case gbperrors.ErrCodeConflict:
		return "Conflict"
	case gbperrors.ErrCodeUnauthorized:
		return "NotAuthorized"
	case gbperrors.ErrCodeMethodNotAllowed:
		return "HTTPMethodNotAllowed"
	case gbperrors.ErrCodeInvalidRequest:
		return "HTTPBadRequest"
	default:
		return "InternalError"
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeNeutronError(w, r, gbperrors.WrapWithContext(gbperrors.ErrCodeMethodNotAllowed,
		fmt.Sprintf("method %s is not allowed", r.Method), nil, nil))
}
