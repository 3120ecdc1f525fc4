/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gbpctl_resolver_lookups_total",
		Help: "Total number of name-or-ID resolutions",
	},
	[]string{"resource", "result"}, // id, name, cached, not_found, ambiguous or error
)
