/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package client talks to the group-policy and service-chain REST API.
//
// Requests and responses use the backend's envelope convention: a single
// resource travels as {"<type>": {...}} and a collection as
// {"<plural>": [...]}. Non-2xx responses become structured errors carrying
// the backend message verbatim.
package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// Record is one resource representation as returned by the backend.
type Record map[string]any

// ID returns the record's "id" attribute, or "" if absent.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Name returns the record's "name" attribute, or "" if absent.
func (r Record) Name() string {
	name, _ := r["name"].(string)
	return name
}

// API is the set of remote operations the client layer consumes.
type API interface {
	List(ctx context.Context, t resource.Type, q Query) ([]Record, error)
	Get(ctx context.Context, t resource.Type, id string) (Record, error)
	Create(ctx context.Context, t resource.Type, body map[string]any) (Record, error)
	Update(ctx context.Context, t resource.Type, id string, body map[string]any) (Record, error)
	Delete(ctx context.Context, t resource.Type, id string) error
}

// Sort directions accepted by the backend.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query holds list parameters passed through to the backend.
type Query struct {
	// Filters are attribute equality filters, e.g. name=web.
	Filters map[string]string
	// Fields restricts the returned attributes.
	Fields []string
	// Limit is the page size; zero means the backend default.
	Limit int
	// SortKeys and SortDirs are paired positionally.
	SortKeys []string
	SortDirs []string
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k, val := range q.Filters {
		v.Set(k, val)
	}
	for _, f := range q.Fields {
		v.Add("fields", f)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for _, k := range q.SortKeys {
		v.Add("sort_key", k)
	}
	for _, d := range q.SortDirs {
		v.Add("sort_dir", d)
	}
	return v
}
