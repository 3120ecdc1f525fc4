/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package sandbox

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// seedOrder creates referenced types before the types that reference them.
var seedOrder = []resource.Type{
	resource.TypeNetwork,
	resource.TypeSubnet,
	resource.TypePort,
	resource.TypeContract,
	resource.TypeL3Policy,
	resource.TypeL2Policy,
	resource.TypeEndpointGroup,
	resource.TypeEndpoint,
	resource.TypeServiceChainNode,
	resource.TypeServiceChainSpec,
	resource.TypeServiceChainInstance,
}

// Seed loads records from YAML keyed by resource type:
//
//	network:
//	  - name: net-a
//	l3_policy:
//	  - id: 0f6a2c4e-8b1d-4e3a-9c7f-2d5b6a8e1f34
//	    name: default
//	    ip_pool: 10.0.0.0/8
//
// Records reference each other by ID. It returns the number of records created.
func (s *Store) Seed(r io.Reader) (int, error) {
	var doc map[resource.Type][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "failed to parse seed", err)
	}

	for t := range doc {
		if _, ok := s.registry.Get(t); !ok {
			return 0, gbperrors.Invalid("seed", fmt.Sprintf("unknown resource type %q", t))
		}
	}

	order := slices.Clone(seedOrder)
	for _, t := range s.registry.Types() {
		if !slices.Contains(order, t) {
			order = append(order, t)
		}
	}

	created := 0
	for _, t := range order {
		for i, attrs := range doc[t] {
			if _, err := s.Create(t, attrs); err != nil {
				return created, gbperrors.WrapWithContext(gbperrors.ErrCodeInvalidRequest,
					"failed to seed record", err, map[string]any{"resource": string(t), "index": i})
			}
			created++
		}
	}
	return created, nil
}

// SeedFile is Seed reading from path.
func (s *Store) SeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "failed to open seed file", err)
	}
	defer f.Close()
	return s.Seed(f)
}
