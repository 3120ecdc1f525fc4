/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package body

import (
	"fmt"
	"net/netip"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// validator checks cross-field constraints of one type's attributes.
type validator func(attrs map[string]any) error

var validators = map[resource.Type]validator{
	resource.TypeL3Policy: validateL3Policy,
}

func validate(t resource.Type, attrs map[string]any) error {
	if v, ok := validators[t]; ok {
		return v(attrs)
	}
	return nil
}

// validateL3Policy checks the pool CIDR and prefix length against the IP
// version. On update the version is unknown, so only the widest bound applies.
func validateL3Policy(attrs map[string]any) error {
	version, hasVersion := attrs["ip_version"].(int)

	if raw, ok := attrs["ip_pool"].(string); ok {
		pool, err := netip.ParsePrefix(raw)
		if err != nil {
			return gbperrors.Invalid("ip_pool", fmt.Sprintf("invalid ip_pool %q: not a CIDR", raw))
		}
		if hasVersion && poolVersion(pool) != version {
			return gbperrors.Invalid("ip_pool",
				fmt.Sprintf("ip_pool %s is not an IPv%d CIDR", raw, version))
		}
	}

	if length, ok := attrs["subnet_prefix_length"].(int); ok {
		limit := 128
		if hasVersion && version == 4 {
			limit = 32
		}
		if length < 1 || length > limit {
			return gbperrors.Invalid("subnet_prefix_length",
				fmt.Sprintf("subnet_prefix_length %d out of range 1..%d", length, limit))
		}
	}

	return nil
}

func poolVersion(p netip.Prefix) int {
	if p.Addr().Is4() {
		return 4
	}
	return 6
}
