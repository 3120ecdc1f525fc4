/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package args holds the parsed arguments of a single command invocation.
//
// A value is either supplied or absent. Absence is tracked explicitly, so an
// empty string supplied by the caller is never confused with a flag that was
// not given at all.
package args

import (
	"maps"
	"slices"
	"sort"

	"k8s.io/utils/ptr"
)

// Args is a set of named argument values keyed by field name.
// Supported value types are string, int, []string and map[string]string.
type Args struct {
	values map[string]any
}

// New returns an empty argument set.
func New() *Args {
	return &Args{values: make(map[string]any)}
}

// SetString records a supplied string value.
func (a *Args) SetString(name, value string) *Args {
	a.values[name] = value
	return a
}

// SetInt records a supplied integer value.
func (a *Args) SetInt(name string, value int) *Args {
	a.values[name] = value
	return a
}

// SetList records a supplied ordered list. The slice is copied.
func (a *Args) SetList(name string, value []string) *Args {
	a.values[name] = slices.Clone(value)
	return a
}

// SetMap records a supplied mapping. The map is copied.
func (a *Args) SetMap(name string, value map[string]string) *Args {
	a.values[name] = maps.Clone(value)
	return a
}

// Has reports whether name was supplied.
func (a *Args) Has(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[name]
	return ok
}

// Len returns the number of supplied values.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Names returns the supplied names in sorted order.
func (a *Args) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.values))
	for k := range a.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns the supplied string value or nil when absent.
func (a *Args) String(name string) *string {
	if a == nil {
		return nil
	}
	if v, ok := a.values[name].(string); ok {
		return ptr.To(v)
	}
	return nil
}

// Int returns the supplied integer value or nil when absent.
func (a *Args) Int(name string) *int {
	if a == nil {
		return nil
	}
	if v, ok := a.values[name].(int); ok {
		return ptr.To(v)
	}
	return nil
}

// List returns a copy of the supplied list, or nil when absent.
func (a *Args) List(name string) []string {
	if a == nil {
		return nil
	}
	if v, ok := a.values[name].([]string); ok {
		return slices.Clone(v)
	}
	return nil
}

// Map returns a copy of the supplied mapping, or nil when absent.
func (a *Args) Map(name string) map[string]string {
	if a == nil {
		return nil
	}
	if v, ok := a.values[name].(map[string]string); ok {
		return maps.Clone(v)
	}
	return nil
}
