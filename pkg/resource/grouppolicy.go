/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resource

func groupPolicyDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			Type:        TypeEndpoint,
			Plural:      "endpoints",
			Path:        "/grouppolicy/endpoints",
			Managed:     true,
			Aliases:     []string{"ep"},
			Summary:     "endpoint",
			ListColumns: []string{"id", "name", "description", "endpoint_group_id"},
			Fields: append(common("endpoint"),
				Field{
					Name:    "endpoint_group",
					Flag:    "endpoint-group",
					BodyKey: "endpoint_group_id",
					Kind:    KindReference,
					Target:  TypeEndpointGroup,
					Usage:   "Endpoint group name or ID",
					Create:  true,
				},
				Field{
					Name:    "port",
					Flag:    "port",
					BodyKey: "port_id",
					Kind:    KindReference,
					Target:  TypePort,
					Usage:   "Neutron port name or ID",
					Create:  true,
				},
			),
		},
		{
			Type:        TypeEndpointGroup,
			Plural:      "endpoint_groups",
			Path:        "/grouppolicy/endpoint_groups",
			Managed:     true,
			Aliases:     []string{"epg"},
			Summary:     "endpoint group",
			ListColumns: []string{"id", "name", "description"},
			Fields: append(common("endpoint group"),
				Field{
					Name:    "l2_policy",
					Flag:    "l2-policy",
					BodyKey: "l2_policy_id",
					Kind:    KindReference,
					Target:  TypeL2Policy,
					Usage:   "L2 policy name or ID",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "provided_contracts",
					Flag:    "provided-contracts",
					BodyKey: "provided_contracts",
					Kind:    KindKeyReference,
					Target:  TypeContract,
					Usage:   "Provided contracts as contract=scope pairs, e.g. web=1,db=",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "consumed_contracts",
					Flag:    "consumed-contracts",
					BodyKey: "consumed_contracts",
					Kind:    KindKeyReference,
					Target:  TypeContract,
					Usage:   "Consumed contracts as contract=scope pairs",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "subnets",
					Flag:    "subnets",
					BodyKey: "subnets",
					Kind:    KindListReference,
					Target:  TypeSubnet,
					Usage:   "Subnets to map the endpoint group to, comma separated",
					Create:  true,
					Update:  true,
				},
			),
		},
		{
			Type:        TypeL2Policy,
			Plural:      "l2_policies",
			Path:        "/grouppolicy/l2_policies",
			Managed:     true,
			Aliases:     []string{"l2p"},
			Summary:     "L2 policy",
			ListColumns: []string{"id", "name", "description", "l3_policy_id"},
			Fields: append(common("L2 policy"),
				Field{
					Name:    "l3_policy",
					Flag:    "l3-policy",
					BodyKey: "l3_policy_id",
					Kind:    KindReference,
					Target:  TypeL3Policy,
					Usage:   "L3 policy name or ID",
					Create:  true,
				},
				Field{
					Name:    "network",
					Flag:    "network",
					BodyKey: "network_id",
					Kind:    KindReference,
					Target:  TypeNetwork,
					Usage:   "Network name or ID to map the L2 policy to",
					Create:  true,
				},
			),
		},
		{
			Type:        TypeL3Policy,
			Plural:      "l3_policies",
			Path:        "/grouppolicy/l3_policies",
			Managed:     true,
			Aliases:     []string{"l3p"},
			Summary:     "L3 policy",
			ListColumns: []string{"id", "name", "description", "ip_pool", "subnet_prefix_length"},
			Fields: append(common("L3 policy"),
				Field{
					Name:    "ip_version",
					Flag:    "ip-version",
					BodyKey: "ip_version",
					Kind:    KindInt,
					Usage:   "IP version, 4 or 6",
					Create:  true,
					Default: 4,
					Choices: []int{4, 6},
				},
				Field{
					Name:    "ip_pool",
					Flag:    "ip-pool",
					BodyKey: "ip_pool",
					Kind:    KindString,
					Usage:   "CIDR of the IP pool, the backend defaults to 10.0.0.0/8",
					Create:  true,
				},
				Field{
					Name:    "subnet_prefix_length",
					Flag:    "subnet-prefix-length",
					BodyKey: "subnet_prefix_length",
					Kind:    KindInt,
					Usage:   "Prefix length of subnets carved from the pool",
					Create:  true,
					Update:  true,
					Default: 24,
				},
			),
		},
		{
			Type:        TypeContract,
			Plural:      "contracts",
			Path:        "/grouppolicy/contracts",
			Summary:     "contract",
			ListColumns: []string{"id", "name", "description"},
		},
	}
}
