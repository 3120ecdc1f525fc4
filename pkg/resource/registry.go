/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package resource declares the resource types known to the client.
//
// Each type is described by a Descriptor: its collection path, list columns
// and the fields it accepts, including which fields are references to other
// resources and under which body key their resolved IDs are sent. The generic
// verbs in pkg/dispatch and the command tree in pkg/cli are driven entirely
// by these descriptors.
package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
)

// maxSuggestionDistance bounds the edit distance of did-you-mean hints.
const maxSuggestionDistance = 3

// Registry manages resource descriptors with thread-safe operations.
type Registry struct {
	descriptors map[Type]*Descriptor

	mu sync.RWMutex
}

// NewRegistry creates a Registry holding every built-in descriptor.
func NewRegistry() *Registry {
	r := &Registry{descriptors: make(map[Type]*Descriptor)}
	for _, group := range [][]*Descriptor{
		groupPolicyDescriptors(),
		serviceChainDescriptors(),
		networkingDescriptors(),
	} {
		for _, d := range group {
			r.descriptors[d.Type] = d
		}
	}
	return r
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[d.Type] = d
}

// Get retrieves a descriptor by type.
func (r *Registry) Get(t Type) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[t]
	return d, ok
}

// Lookup finds a descriptor by type name, hyphenated CLI name or alias.
// Unknown names fail with an invalid-request error carrying a suggestion
// when a known name is close enough.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")

	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.descriptors[Type(key)]; ok {
		return d, nil
	}
	for _, d := range r.descriptors {
		for _, alias := range d.Aliases {
			if alias == key {
				return d, nil
			}
		}
	}

	msg := fmt.Sprintf("unknown resource type %q", name)
	if s := r.suggestLocked(key); s != "" {
		msg = fmt.Sprintf("%s, did you mean %q?", msg, s)
	}
	return nil, gbperrors.Invalid("resource", msg)
}

// Managed returns the descriptors that have CLI verbs, sorted by type.
func (r *Registry) Managed() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		if d.Managed {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Types returns every registered type, sorted.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.descriptors))
	for t := range r.descriptors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Count returns the number of registered descriptors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

func (r *Registry) suggestLocked(key string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for t := range r.descriptors {
		d := levenshtein.ComputeDistance(key, string(t))
		if d < bestDist || (d == bestDist && t.CLIName() < best) {
			best, bestDist = t.CLIName(), d
		}
	}
	return best
}
