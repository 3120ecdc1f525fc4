/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resource

// Core networking types are resolvable but have no commands here.
func networkingDescriptors() []*Descriptor {
	return []*Descriptor{
		{Type: TypeNetwork, Plural: "networks", Path: "/networks", Summary: "network", ListColumns: []string{"id", "name"}},
		{Type: TypeSubnet, Plural: "subnets", Path: "/subnets", Summary: "subnet", ListColumns: []string{"id", "name", "cidr"}},
		{Type: TypePort, Plural: "ports", Path: "/ports", Summary: "port", ListColumns: []string{"id", "name", "mac_address"}},
	}
}
