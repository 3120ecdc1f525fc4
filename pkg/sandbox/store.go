/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package sandbox implements an in-memory group-policy and service-chain
// API for local development and end-to-end tests.
//
// It speaks the same wire dialect as the real control plane: single
// resources travel as {"<type>": {...}}, collections as {"<plural>": [...]},
// and failures as {"NeutronError": {...}}. Names are not unique, so name
// lookups can be ambiguous exactly as they can against a real backend.
package sandbox

import (
	"cmp"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// Reserved list parameters; every other parameter is an attribute filter.
const (
	paramFields  = "fields"
	paramLimit   = "limit"
	paramSortKey = "sort_key"
	paramSortDir = "sort_dir"
)

type table struct {
	order []string
	rows  map[string]client.Record
}

// Store holds records per resource type in creation order.
type Store struct {
	registry *resource.Registry

	mu     sync.RWMutex
	tables map[resource.Type]*table
}

// NewStore returns an empty Store for the types in reg.
func NewStore(reg *resource.Registry) *Store {
	if reg == nil {
		reg = resource.NewRegistry()
	}
	return &Store{registry: reg, tables: make(map[resource.Type]*table)}
}

func (s *Store) tableLocked(t resource.Type) *table {
	tb, ok := s.tables[t]
	if !ok {
		tb = &table{rows: make(map[string]client.Record)}
		s.tables[t] = tb
	}
	return tb
}

func (s *Store) descriptor(t resource.Type) (*resource.Descriptor, error) {
	d, ok := s.registry.Get(t)
	if !ok {
		return nil, gbperrors.Invalid("resource", fmt.Sprintf("unknown resource type %q", t))
	}
	return d, nil
}

// List returns the records of type t matching the filters in q, sorted and
// truncated per the sort_key, sort_dir and limit parameters, and projected
// onto the fields parameters.
func (s *Store) List(t resource.Type, q url.Values) ([]client.Record, error) {
	if _, err := s.descriptor(t); err != nil {
		return nil, err
	}

	limit := 0
	if v := q.Get(paramLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, gbperrors.Invalid(paramLimit, fmt.Sprintf("limit must be a non-negative integer, got %q", v))
		}
		limit = n
	}

	keys, dirs := q[paramSortKey], q[paramSortDir]
	if len(dirs) > len(keys) {
		return nil, gbperrors.Invalid(paramSortDir, "sort_dir given without a matching sort_key")
	}
	for _, d := range dirs {
		if d != client.SortAsc && d != client.SortDesc {
			return nil, gbperrors.Invalid(paramSortDir, fmt.Sprintf("invalid sort direction %q", d))
		}
	}

	s.mu.RLock()
	tb := s.tables[t]
	var matched []client.Record
	if tb != nil {
		for _, id := range tb.order {
			if rec := tb.rows[id]; matches(rec, q) {
				matched = append(matched, maps.Clone(rec))
			}
		}
	}
	s.mu.RUnlock()

	if len(keys) > 0 {
		slices.SortStableFunc(matched, func(a, b client.Record) int {
			for i, k := range keys {
				c := compareValues(a[k], b[k])
				if i < len(dirs) && dirs[i] == client.SortDesc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	if fields := q[paramFields]; len(fields) > 0 {
		matched = lo.Map(matched, func(rec client.Record, _ int) client.Record {
			return lo.PickByKeys(rec, fields)
		})
	}
	if matched == nil {
		matched = []client.Record{}
	}
	return matched, nil
}

func matches(rec client.Record, q url.Values) bool {
	for k, want := range q {
		switch k {
		case paramFields, paramLimit, paramSortKey, paramSortDir:
			continue
		}
		v, ok := rec[k]
		if !ok || !lo.Contains(want, fmt.Sprint(v)) {
			return false
		}
	}
	return true
}

// Get returns the record of type t with the given id.
func (s *Store) Get(t resource.Type, id string) (client.Record, error) {
	d, err := s.descriptor(t)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	tb := s.tables[t]
	if tb == nil || tb.rows[id] == nil {
		return nil, notFound(d, id)
	}
	return maps.Clone(tb.rows[id]), nil
}

// Create validates attrs, assigns an ID unless a valid one is supplied and
// stores the record.
func (s *Store) Create(t resource.Type, attrs map[string]any) (client.Record, error) {
	d, err := s.descriptor(t)
	if err != nil {
		return nil, err
	}
	if err := checkAttributes(d, attrs, true); err != nil {
		return nil, err
	}

	rec := client.Record{
		"id":                   uuid.New().String(),
		resource.FieldName:     "",
		resource.FieldTenantID: "",
	}
	if len(d.Fields) > 0 {
		rec[resource.FieldDescription] = ""
	}
	for k, v := range attrs {
		rec[k] = v
	}
	if raw, ok := attrs["id"]; ok {
		id, _ := raw.(string)
		if u, perr := uuid.Parse(id); perr != nil || u.String() != id {
			return nil, gbperrors.Invalid("id", fmt.Sprintf("'%v' is not a valid UUID", raw))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferencesLocked(d, attrs); err != nil {
		return nil, err
	}
	tb := s.tableLocked(t)
	id := rec.ID()
	if _, exists := tb.rows[id]; exists {
		return nil, gbperrors.WrapWithContext(gbperrors.ErrCodeConflict,
			fmt.Sprintf("%s %s already exists", d.Summary, id), nil, map[string]any{"id": id})
	}
	tb.rows[id] = rec
	tb.order = append(tb.order, id)
	return maps.Clone(rec), nil
}

// Update merges attrs into the record of type t with the given id.
func (s *Store) Update(t resource.Type, id string, attrs map[string]any) (client.Record, error) {
	d, err := s.descriptor(t)
	if err != nil {
		return nil, err
	}
	if err := checkAttributes(d, attrs, false); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tableLocked(t).rows[id]
	if !ok {
		return nil, notFound(d, id)
	}
	if err := s.checkReferencesLocked(d, attrs); err != nil {
		return nil, err
	}
	for k, v := range attrs {
		rec[k] = v
	}
	return maps.Clone(rec), nil
}

// Delete removes the record of type t with the given id. Records still
// referenced by another record cannot be deleted.
func (s *Store) Delete(t resource.Type, id string) error {
	d, err := s.descriptor(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tb := s.tableLocked(t)
	if _, ok := tb.rows[id]; !ok {
		return notFound(d, id)
	}
	if user, ok := s.referrerLocked(t, id); ok {
		return gbperrors.WrapWithContext(gbperrors.ErrCodeConflict,
			fmt.Sprintf("%s %s is in use by %s", d.Summary, id, user), nil,
			map[string]any{"id": id, "used_by": user})
	}
	delete(tb.rows, id)
	tb.order = slices.DeleteFunc(tb.order, func(v string) bool { return v == id })
	return nil
}

// Len returns the number of records of type t.
func (s *Store) Len(t resource.Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tb := s.tables[t]; tb != nil {
		return len(tb.order)
	}
	return 0
}

func notFound(d *resource.Descriptor, id string) error {
	return gbperrors.WrapWithContext(gbperrors.ErrCodeNotFound,
		fmt.Sprintf("%s %s could not be found", d.Summary, id), nil,
		map[string]any{"resource": string(d.Type), "id": id})
}

// checkAttributes rejects attributes the type does not declare for the verb.
// Types without declared fields accept anything.
func checkAttributes(d *resource.Descriptor, attrs map[string]any, create bool) error {
	if len(d.Fields) == 0 {
		return nil
	}
	if !create {
		if _, ok := attrs["id"]; ok {
			return gbperrors.Invalid("id", "cannot update read-only attribute id")
		}
	}

	allowed := map[string]bool{"id": create}
	for _, f := range d.Fields {
		if (create && f.Create) || (!create && f.Update) {
			allowed[f.BodyKey] = true
		}
	}

	var unknown []string
	for k := range attrs {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return gbperrors.Invalid(unknown[0], fmt.Sprintf("unrecognized attribute(s) '%s'", strings.Join(unknown, ", ")))
	}
	return nil
}

// compareValues orders numbers numerically and everything else by its
// string form.
func compareValues(a, b any) int {
	x, xok := number(a)
	y, yok := number(b)
	if xok && yok {
		return cmp.Compare(x, y)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// checkReferencesLocked verifies that every referenced ID in attrs exists.
func (s *Store) checkReferencesLocked(d *resource.Descriptor, attrs map[string]any) error {
	for _, f := range d.References() {
		raw, ok := attrs[f.BodyKey]
		if !ok || raw == nil {
			continue
		}
		target, ok := s.registry.Get(f.Target)
		if !ok {
			continue
		}
		for _, id := range referencedIDs(f, raw) {
			if _, exists := s.tableLocked(f.Target).rows[id]; !exists {
				return notFound(target, id)
			}
		}
	}
	return nil
}

// referrerLocked reports the first record that references id of type t.
func (s *Store) referrerLocked(t resource.Type, id string) (string, bool) {
	for _, d := range s.registry.Managed() {
		tb := s.tables[d.Type]
		if tb == nil {
			continue
		}
		for _, f := range d.References() {
			if f.Target != t {
				continue
			}
			for _, rid := range tb.order {
				if lo.Contains(referencedIDs(f, tb.rows[rid][f.BodyKey]), id) {
					return fmt.Sprintf("%s %s", d.Summary, rid), true
				}
			}
		}
	}
	return "", false
}

// referencedIDs extracts IDs from a reference attribute as decoded from
// JSON: a string, a list of strings or a map keyed by ID.
func referencedIDs(f resource.Field, raw any) []string {
	switch f.Kind {
	case resource.KindReference:
		if id, ok := raw.(string); ok && id != "" {
			return []string{id}
		}
	case resource.KindListReference:
		switch v := raw.(type) {
		case []string:
			return v
		case []any:
			return lo.FilterMap(v, func(item any, _ int) (string, bool) {
				s, ok := item.(string)
				return s, ok
			})
		}
	case resource.KindKeyReference:
		switch v := raw.(type) {
		case map[string]string:
			return lo.Keys(v)
		case map[string]any:
			return lo.Keys(v)
		}
	}
	return nil
}
