/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package clienttest provides an in-memory client.API for tests.
package clienttest

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// Call records one invocation made against a Fake.
type Call struct {
	Method string
	Type   resource.Type
	ID     string
	Query  client.Query
	Body   map[string]any
}

// Fake is a recording in-memory API. Records are matched on exact attribute
// equality for every query filter.
type Fake struct {
	mu      sync.Mutex
	records map[resource.Type][]client.Record
	calls   []Call
	nextID  int

	// Err, when set, is returned by every call.
	Err error
}

var _ client.API = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{records: make(map[resource.Type][]client.Record)}
}

// Seed adds a record of type t with the given id and name.
func (f *Fake) Seed(t resource.Type, id, name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[t] = append(f.records[t], client.Record{"id": id, "name": name})
	return f
}

// Calls returns the calls made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the calls made with method.
func (f *Fake) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// List implements client.API.
func (f *Fake) List(_ context.Context, t resource.Type, q client.Query) ([]client.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "List", Type: t, Query: q})
	if f.Err != nil {
		return nil, f.Err
	}
	var out []client.Record
	for _, rec := range f.records[t] {
		if matches(rec, q.Filters) {
			out = append(out, maps.Clone(rec))
		}
	}
	return out, nil
}

// Get implements client.API.
func (f *Fake) Get(_ context.Context, t resource.Type, id string) (client.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "Get", Type: t, ID: id})
	if f.Err != nil {
		return nil, f.Err
	}
	if rec := f.find(t, id); rec != nil {
		return maps.Clone(rec), nil
	}
	return nil, gbperrors.New(gbperrors.ErrCodeNotFound, fmt.Sprintf("%s %s could not be found", t, id))
}

// Create implements client.API. The created record gets a sequential ID.
func (f *Fake) Create(_ context.Context, t resource.Type, body map[string]any) (client.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "Create", Type: t, Body: body})
	if f.Err != nil {
		return nil, f.Err
	}
	attrs, _ := body[string(t)].(map[string]any)
	f.nextID++
	rec := client.Record{"id": fmt.Sprintf("%s-%d", t, f.nextID)}
	maps.Copy(rec, attrs)
	f.records[t] = append(f.records[t], rec)
	return maps.Clone(rec), nil
}

// Update implements client.API.
func (f *Fake) Update(_ context.Context, t resource.Type, id string, body map[string]any) (client.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "Update", Type: t, ID: id, Body: body})
	if f.Err != nil {
		return nil, f.Err
	}
	rec := f.find(t, id)
	if rec == nil {
		return nil, gbperrors.New(gbperrors.ErrCodeNotFound, fmt.Sprintf("%s %s could not be found", t, id))
	}
	attrs, _ := body[string(t)].(map[string]any)
	maps.Copy(rec, attrs)
	return maps.Clone(rec), nil
}

// Delete implements client.API.
func (f *Fake) Delete(_ context.Context, t resource.Type, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "Delete", Type: t, ID: id})
	if f.Err != nil {
		return f.Err
	}
	for i, rec := range f.records[t] {
		if rec.ID() == id {
			f.records[t] = append(f.records[t][:i], f.records[t][i+1:]...)
			return nil
		}
	}
	return gbperrors.New(gbperrors.ErrCodeNotFound, fmt.Sprintf("%s %s could not be found", t, id))
}

func (f *Fake) find(t resource.Type, id string) client.Record {
	for _, rec := range f.records[t] {
		if rec.ID() == id {
			return rec
		}
	}
	return nil
}

func matches(rec client.Record, filters map[string]string) bool {
	for k, v := range filters {
		if fmt.Sprint(rec[k]) != v {
			return false
		}
	}
	return true
}
