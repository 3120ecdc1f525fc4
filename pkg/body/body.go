/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package body builds request bodies from parsed command arguments.
//
// The builder walks a resource descriptor's fields. Scalars are copied
// verbatim, references are resolved to IDs and stored under the field's body
// key, mapping fields have their keys resolved and sequence fields are
// resolved element by element in order. Fields the caller did not supply are
// left out of the body. The result is wrapped in the single-resource
// envelope {"<type>": {...}}.
package body

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/NVIDIA/gbpctl/pkg/args"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// Mode selects create or update semantics.
type Mode int

const (
	// ModeCreate requires the name field and applies declared defaults.
	ModeCreate Mode = iota
	// ModeUpdate includes only supplied fields.
	ModeUpdate
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Body is a request body in envelope form.
type Body map[string]any

// Attributes returns the inner attribute map for type t, or nil.
func (b Body) Attributes(t resource.Type) map[string]any {
	attrs, _ := b[string(t)].(map[string]any)
	return attrs
}

// Empty reports whether the body carries no attributes for t.
func (b Body) Empty(t resource.Type) bool {
	return len(b.Attributes(t)) == 0
}

// Resolver turns name-or-ID tokens into IDs.
type Resolver interface {
	Resolve(ctx context.Context, t resource.Type, token string) (string, error)
	ResolveAll(ctx context.Context, t resource.Type, tokens []string) ([]string, error)
}

// Builder builds bodies for any registered resource type.
type Builder struct {
	resolver Resolver
}

// NewBuilder returns a Builder that resolves references with r.
func NewBuilder(r Resolver) *Builder {
	return &Builder{resolver: r}
}

// Build returns the request body for d from a. Resolution or validation
// failures abort the build and no partial body is returned. a is not modified.
func (b *Builder) Build(ctx context.Context, d *resource.Descriptor, a *args.Args, mode Mode) (Body, error) {
	if err := checkSupplied(d, a, mode); err != nil {
		return nil, err
	}
	if mode == ModeCreate {
		name := a.String(resource.FieldName)
		if name == nil || *name == "" {
			return nil, gbperrors.Invalid(resource.FieldName,
				fmt.Sprintf("a name is required to create a %s", d.Summary))
		}
	}

	fields := d.UpdateFields()
	if mode == ModeCreate {
		fields = d.CreateFields()
	}

	attrs := make(map[string]any, len(fields))
	for _, f := range fields {
		if !a.Has(f.Name) {
			if mode == ModeCreate && f.Default != nil {
				attrs[f.BodyKey] = f.Default
			}
			continue
		}
		if err := b.copyField(ctx, f, a, attrs); err != nil {
			return nil, err
		}
	}

	if err := validate(d.Type, attrs); err != nil {
		return nil, err
	}
	return Body{string(d.Type): attrs}, nil
}

func (b *Builder) copyField(ctx context.Context, f resource.Field, a *args.Args, attrs map[string]any) error {
	switch f.Kind {
	case resource.KindString:
		v := a.String(f.Name)
		if v == nil {
			return gbperrors.Invalid(f.Name, fmt.Sprintf("%s must be a string", f.Name))
		}
		attrs[f.BodyKey] = *v

	case resource.KindInt:
		v := a.Int(f.Name)
		if v == nil {
			return gbperrors.Invalid(f.Name, fmt.Sprintf("%s must be an integer", f.Name))
		}
		if len(f.Choices) > 0 && !lo.Contains(f.Choices, *v) {
			return gbperrors.Invalid(f.Name,
				fmt.Sprintf("invalid %s %d, must be one of %v", f.Name, *v, f.Choices))
		}
		attrs[f.BodyKey] = *v

	case resource.KindReference:
		token := a.String(f.Name)
		if token == nil || *token == "" {
			return nil
		}
		id, err := b.resolver.Resolve(ctx, f.Target, *token)
		if err != nil {
			return err
		}
		attrs[f.BodyKey] = id

	case resource.KindKeyReference:
		resolved, err := b.resolveKeys(ctx, f, a.Map(f.Name))
		if err != nil {
			return err
		}
		attrs[f.BodyKey] = resolved

	case resource.KindListReference:
		tokens := a.List(f.Name)
		ids, err := b.resolver.ResolveAll(ctx, f.Target, tokens)
		if err != nil {
			return err
		}
		if ids == nil {
			ids = []string{}
		}
		attrs[f.BodyKey] = ids

	default:
		return gbperrors.New(gbperrors.ErrCodeInternal, fmt.Sprintf("field %s has unsupported kind %d", f.Name, f.Kind))
	}
	return nil
}

// resolveKeys resolves every key of m and keeps each value with its key.
// Keys are visited in sorted order so lookups happen deterministically.
func (b *Builder) resolveKeys(ctx context.Context, f resource.Field, m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	owner := make(map[string]string, len(m))

	keys := lo.Keys(m)
	slices.Sort(keys)
	for _, token := range keys {
		id, err := b.resolver.Resolve(ctx, f.Target, token)
		if err != nil {
			return nil, err
		}
		if prev, dup := owner[id]; dup {
			return nil, gbperrors.Invalid(f.Name,
				fmt.Sprintf("%s '%s' and '%s' refer to the same %s %s", f.Name, prev, token, f.Target, id))
		}
		owner[id] = token
		out[id] = m[token]
	}
	return out, nil
}

// checkSupplied rejects argument names the descriptor does not accept in mode.
func checkSupplied(d *resource.Descriptor, a *args.Args, mode Mode) error {
	accepted := lo.SliceToMap(d.CreateFields(), func(f resource.Field) (string, bool) { return f.Name, true })
	if mode == ModeUpdate {
		accepted = lo.SliceToMap(d.UpdateFields(), func(f resource.Field) (string, bool) { return f.Name, true })
	}
	for _, name := range a.Names() {
		if accepted[name] {
			continue
		}
		if _, declared := d.Field(name); declared {
			return gbperrors.Invalid(name, fmt.Sprintf("%s cannot be set on %s of a %s", name, mode, d.Summary))
		}
		return gbperrors.Invalid(name, fmt.Sprintf("unknown argument %s for %s", name, d.Summary))
	}
	return nil
}
