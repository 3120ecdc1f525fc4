/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/NVIDIA/gbpctl/pkg/args"
	"github.com/NVIDIA/gbpctl/pkg/body"
	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

// ListOptions are the pass-through parameters of List.
type ListOptions struct {
	PageSize int
	SortKeys []string
	SortDirs []string
	Filters  map[string]string
	// Columns overrides the descriptor's list columns and restricts the
	// returned fields.
	Columns []string
}

func (o ListOptions) validate() error {
	if o.PageSize < 0 {
		return gbperrors.Invalid("page_size", fmt.Sprintf("page size must not be negative, got %d", o.PageSize))
	}
	if len(o.SortDirs) > len(o.SortKeys) {
		return gbperrors.Invalid("sort_dir", "more sort directions than sort keys")
	}
	for _, dir := range o.SortDirs {
		if dir != client.SortAsc && dir != client.SortDesc {
			return gbperrors.Invalid("sort_dir",
				fmt.Sprintf("invalid sort direction %q, must be %s or %s", dir, client.SortAsc, client.SortDesc))
		}
	}
	return nil
}

// List fetches and renders the collection of d's type.
func (s *Shell) List(ctx context.Context, d *resource.Descriptor, opts ListOptions) (records []client.Record, err error) {
	ctx, log, finish := s.begin(ctx, VerbList, d)
	defer func() { finish(err) }()

	if err := opts.validate(); err != nil {
		return nil, err
	}

	columns := d.ListColumns
	q := client.Query{
		Filters:  opts.Filters,
		Limit:    opts.PageSize,
		SortKeys: opts.SortKeys,
		SortDirs: opts.SortDirs,
	}
	if len(opts.Columns) > 0 {
		columns = opts.Columns
		q.Fields = opts.Columns
	}

	records, err = s.api.List(ctx, d.Type, q)
	if err != nil {
		return nil, err
	}
	log.Debug("listed", "count", len(records))

	items := lo.Map(records, func(r client.Record, _ int) map[string]any { return r })
	return records, s.render(ctx, serializer.Collection{Columns: columns, Items: items})
}

// Show resolves token and renders the resource.
func (s *Shell) Show(ctx context.Context, d *resource.Descriptor, token string) (rec client.Record, err error) {
	ctx, log, finish := s.begin(ctx, VerbShow, d)
	defer func() { finish(err) }()

	id, err := s.resolveIdentifier(ctx, d, token)
	if err != nil {
		return nil, err
	}
	log.Debug("showing", "id", id)

	rec, err = s.api.Get(ctx, d.Type, id)
	if err != nil {
		return nil, err
	}
	return rec, s.render(ctx, map[string]any(rec))
}

// Create builds a create body from a, submits it and renders the new resource.
func (s *Shell) Create(ctx context.Context, d *resource.Descriptor, a *args.Args) (rec client.Record, err error) {
	ctx, log, finish := s.begin(ctx, VerbCreate, d)
	defer func() { finish(err) }()

	b, err := s.builder.Build(ctx, d, a, body.ModeCreate)
	if err != nil {
		return nil, err
	}
	log.Debug("submitting", "fields", lo.Keys(b.Attributes(d.Type)))

	rec, err = s.api.Create(ctx, d.Type, b)
	if err != nil {
		return nil, err
	}
	log.Info("created", "id", rec.ID())
	return rec, s.render(ctx, map[string]any(rec))
}

// Update resolves token, builds a partial body from a and submits it. An
// update with nothing to change fails before any request is made.
func (s *Shell) Update(ctx context.Context, d *resource.Descriptor, token string, a *args.Args) (rec client.Record, err error) {
	ctx, log, finish := s.begin(ctx, VerbUpdate, d)
	defer func() { finish(err) }()

	if a.Len() == 0 {
		return nil, gbperrors.NoFieldsToUpdate(string(d.Type), token)
	}

	id, err := s.resolveIdentifier(ctx, d, token)
	if err != nil {
		return nil, err
	}

	b, err := s.builder.Build(ctx, d, a, body.ModeUpdate)
	if err != nil {
		return nil, err
	}
	if b.Empty(d.Type) {
		return nil, gbperrors.NoFieldsToUpdate(string(d.Type), token)
	}
	log.Debug("submitting", "id", id, "fields", lo.Keys(b.Attributes(d.Type)))

	rec, err = s.api.Update(ctx, d.Type, id, b)
	if err != nil {
		return nil, err
	}
	log.Info("updated", "id", id)
	return rec, s.render(ctx, map[string]any(rec))
}

// Delete resolves token, deletes the resource and prints a confirmation.
func (s *Shell) Delete(ctx context.Context, d *resource.Descriptor, token string) (err error) {
	ctx, log, finish := s.begin(ctx, VerbDelete, d)
	defer func() { finish(err) }()

	id, err := s.resolveIdentifier(ctx, d, token)
	if err != nil {
		return err
	}
	if err := s.api.Delete(ctx, d.Type, id); err != nil {
		return err
	}
	log.Info("deleted", "id", id)

	if _, err := fmt.Fprintf(s.out, "Deleted %s: %s\n", d.Type, token); err != nil {
		return gbperrors.Wrap(gbperrors.ErrCodeInternal, "failed to write output", err)
	}
	return nil
}
