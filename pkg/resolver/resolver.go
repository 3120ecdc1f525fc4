/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package resolver turns user supplied names or IDs into canonical IDs.
//
// A token that parses as a UUID is taken to be an ID and returned as is.
// Anything else is looked up by exact name: one match yields its ID, no match
// is a not-found error and several matches are an ambiguity error listing the
// candidates. The resolver never picks one of several matches.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

const tracerName = "github.com/NVIDIA/gbpctl/pkg/resolver"

// Lookup is the subset of the API the resolver needs.
type Lookup interface {
	List(ctx context.Context, t resource.Type, q client.Query) ([]client.Record, error)
	Get(ctx context.Context, t resource.Type, id string) (client.Record, error)
}

// Resolver resolves name-or-ID tokens for any registered type.
type Resolver struct {
	api       Lookup
	registry  *resource.Registry
	verifyIDs bool
	cache     map[cacheKey]string
	logger    *slog.Logger
}

type cacheKey struct {
	t     resource.Type
	token string
}

// Option is a functional option for configuring a Resolver.
type Option func(*Resolver)

// WithVerifyIDs makes ID-shaped tokens be confirmed with a GET.
func WithVerifyIDs(verify bool) Option {
	return func(r *Resolver) {
		r.verifyIDs = verify
	}
}

// WithCache memoizes resolved (type, token) pairs for the resolver's lifetime.
func WithCache() Option {
	return func(r *Resolver) {
		r.cache = make(map[cacheKey]string)
	}
}

// WithRegistry sets the registry used to validate types.
func WithRegistry(reg *resource.Registry) Option {
	return func(r *Resolver) {
		r.registry = reg
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver backed by api.
func New(api Lookup, opts ...Option) *Resolver {
	r := &Resolver{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = resource.NewRegistry()
	}
	return r
}

// IsID reports whether token has the backend's canonical ID format: the
// hyphenated lower-case 36-character UUID form. Other encodings uuid.Parse
// accepts (no hyphens, braces, urn:uuid:, upper case) are treated as names.
func IsID(token string) bool {
	u, err := uuid.Parse(token)
	return err == nil && u.String() == token
}

// Resolve returns the ID of the resource of type t identified by token.
func (r *Resolver) Resolve(ctx context.Context, t resource.Type, token string) (id string, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", gbperrors.Invalid(string(t), fmt.Sprintf("empty %s reference", t))
	}
	if _, ok := r.registry.Get(t); !ok {
		return "", gbperrors.Invalid("resource", fmt.Sprintf("unknown resource type %q", t))
	}

	key := cacheKey{t: t, token: token}
	if r.cache != nil {
		if id, ok := r.cache[key]; ok {
			lookupTotal.WithLabelValues(string(t), "cached").Inc()
			return id, nil
		}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "resolve "+string(t))
	span.SetAttributes(attribute.String("gbp.resource", string(t)), attribute.String("gbp.token", token))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("gbp.id", id))
		}
		span.End()
	}()

	if IsID(token) {
		id, err = r.resolveID(ctx, t, token)
	} else {
		id, err = r.resolveName(ctx, t, token)
	}
	if err != nil {
		return "", err
	}
	if r.cache != nil {
		r.cache[key] = id
	}
	return id, nil
}

// ResolveAll resolves tokens in order and returns IDs in the same order.
// The first failure aborts the whole sequence.
func (r *Resolver) ResolveAll(ctx context.Context, t resource.Type, tokens []string) ([]string, error) {
	ids := make([]string, 0, len(tokens))
	for _, token := range tokens {
		id, err := r.Resolve(ctx, t, token)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resolver) resolveID(ctx context.Context, t resource.Type, token string) (string, error) {
	if !r.verifyIDs {
		lookupTotal.WithLabelValues(string(t), "id").Inc()
		return token, nil
	}
	if _, err := r.api.Get(ctx, t, token); err != nil {
		if gbperrors.HasCode(err, gbperrors.ErrCodeNotFound) {
			lookupTotal.WithLabelValues(string(t), "not_found").Inc()
			return "", gbperrors.NotFound(string(t), token)
		}
		lookupTotal.WithLabelValues(string(t), "error").Inc()
		return "", err
	}
	lookupTotal.WithLabelValues(string(t), "id").Inc()
	return token, nil
}

func (r *Resolver) resolveName(ctx context.Context, t resource.Type, token string) (string, error) {
	records, err := r.api.List(ctx, t, client.Query{
		Filters: map[string]string{"name": token},
		Fields:  []string{"id"},
	})
	if err != nil {
		lookupTotal.WithLabelValues(string(t), "error").Inc()
		return "", err
	}

	switch len(records) {
	case 0:
		lookupTotal.WithLabelValues(string(t), "not_found").Inc()
		return "", gbperrors.NotFound(string(t), token)
	case 1:
		lookupTotal.WithLabelValues(string(t), "name").Inc()
		r.logger.Debug("resolved reference",
			"resource", string(t),
			"name", token,
			"id", records[0].ID(),
		)
		return records[0].ID(), nil
	default:
		lookupTotal.WithLabelValues(string(t), "ambiguous").Inc()
		candidates := make([]string, 0, len(records))
		for _, rec := range records {
			candidates = append(candidates, rec.ID())
		}
		return "", gbperrors.Ambiguous(string(t), token, candidates)
	}
}
