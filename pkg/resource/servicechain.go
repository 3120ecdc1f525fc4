/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resource

func serviceChainDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			Type:        TypeServiceChainInstance,
			Plural:      "servicechain_instances",
			Path:        "/servicechain/servicechain_instances",
			Managed:     true,
			Aliases:     []string{"sci"},
			Summary:     "service chain instance",
			ListColumns: []string{"id", "name", "description", "servicechain_spec", "port_id"},
			Fields: append(common("service chain instance"),
				Field{
					Name:    "servicechain_spec",
					Flag:    "service-chain-spec",
					BodyKey: "servicechain_spec",
					Kind:    KindReference,
					Target:  TypeServiceChainSpec,
					Usage:   "Service chain spec name or ID",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "port",
					Flag:    "port",
					BodyKey: "port_id",
					Kind:    KindReference,
					Target:  TypePort,
					Usage:   "Neutron port name or ID",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "config_params",
					Flag:    "config-params",
					BodyKey: "config_params",
					Kind:    KindString,
					Usage:   "Parameter values for the config template of the chain nodes",
					Create:  true,
					Update:  true,
				},
			),
		},
		{
			Type:        TypeServiceChainNode,
			Plural:      "servicechain_nodes",
			Path:        "/servicechain/servicechain_nodes",
			Managed:     true,
			Aliases:     []string{"scn"},
			Summary:     "service chain node",
			ListColumns: []string{"id", "name", "description", "service_type"},
			Fields: append(common("service chain node"),
				Field{
					Name:    "service_type",
					Flag:    "servicetype",
					BodyKey: "service_type",
					Kind:    KindString,
					Usage:   "Service type, e.g. LOADBALANCER or FIREWALL",
					Create:  true,
					Update:  true,
				},
				Field{
					Name:    "config",
					Flag:    "config",
					BodyKey: "config",
					Kind:    KindString,
					Usage:   "Service configuration template",
					Create:  true,
					Update:  true,
				},
			),
		},
		{
			Type:        TypeServiceChainSpec,
			Plural:      "servicechain_specs",
			Path:        "/servicechain/servicechain_specs",
			Managed:     true,
			Aliases:     []string{"scs"},
			Summary:     "service chain spec",
			ListColumns: []string{"id", "name", "description", "nodes"},
			Fields: append(common("service chain spec"),
				Field{
					Name:    "nodes",
					Flag:    "nodes",
					BodyKey: "nodes",
					Kind:    KindListReference,
					Target:  TypeServiceChainNode,
					Usage:   "Ordered service chain node names or IDs, comma separated",
					Create:  true,
					Update:  true,
				},
			),
		},
	}
}
