/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the gbpctl command-line interface.
//
// # Overview
//
// gbpctl manages group-policy and service-chain resources of a networking
// control plane. Every resource type gets the same five verbs, generated
// from the resource registry:
//
//	gbpctl <resource> list   [--page-size N] [--sort-key K] [--sort-dir asc|desc] [--filter k=v] [--column C]
//	gbpctl <resource> show   <name-or-id>
//	gbpctl <resource> create <name> [flags]
//	gbpctl <resource> update <name-or-id> [flags]
//	gbpctl <resource> delete <name-or-id>
//
// Resources: endpoint (ep), endpoint-group (epg), l2-policy (l2p),
// l3-policy (l3p), servicechain-node (scn), servicechain-spec (scs) and
// servicechain-instance (sci). The underscore spelling, e.g. l3_policy, is
// accepted as well.
//
// # References
//
// Flags that point at another resource, such as --l2-policy, --port,
// --nodes or --provided-contracts, take a name or an ID. Names are looked up
// and must match exactly one resource; several matches are an error that
// lists the candidate IDs.
//
//	gbpctl l3-policy create default --ip-pool 10.1.0.0/16 --subnet-prefix-length 28
//	gbpctl l2-policy create web --l3-policy default
//	gbpctl endpoint-group create web --l2-policy web --provided-contracts http=1 --subnets a,b
//	gbpctl servicechain-spec create chain --nodes fw,lb
//
// # Global Flags
//
//	--url            API endpoint (env GBPCTL_URL or OS_URL)
//	--token          Auth token (env GBPCTL_TOKEN or OS_TOKEN)
//	--config-file    Config file (env GBPCTL_CONFIG)
//	--format, -t     Output format: json, yaml, table (default: table on a terminal, json otherwise)
//	--output, -o     Output file path (default: stdout)
//	--timeout        Per-request timeout, e.g. 10s
//	--verify-ids     Confirm ID-shaped references exist
//	--cache-lookups  Reuse name lookups within one invocation
//	--debug          Enable debug logging
//	--log-json       Output logs in JSON format
//
// # Environment Variables
//
//	LOG_LEVEL             Set logging verbosity (debug, info, warn, error)
//	GBPCTL_TRACING        Span exporter: stdout or otlp
//	GBPCTL_OTLP_ENDPOINT  OTLP gRPC collector address
//
// # Exit Codes
//
//	0  Success
//	1  General or backend error
//	2  Context canceled or timeout
//	3  Invalid input, including an update with nothing to change
//	4  Reference not found or ambiguous
package cli
