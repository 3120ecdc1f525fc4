/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gbpctl_commands_total",
		Help: "Total number of resource commands by outcome",
	},
	[]string{"resource", "verb", "result"},
)
