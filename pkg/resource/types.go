/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resource

import "strings"

// Type is the backend name of a resource type, e.g. "l2_policy".
type Type string

// Group-policy resources.
const (
	TypeEndpoint      Type = "endpoint"
	TypeEndpointGroup Type = "endpoint_group"
	TypeL2Policy      Type = "l2_policy"
	TypeL3Policy      Type = "l3_policy"
	TypeContract      Type = "contract"
)

// Service-chain resources.
const (
	TypeServiceChainNode     Type = "servicechain_node"
	TypeServiceChainSpec     Type = "servicechain_spec"
	TypeServiceChainInstance Type = "servicechain_instance"
)

// Core networking resources that are only ever referenced.
const (
	TypeNetwork Type = "network"
	TypeSubnet  Type = "subnet"
	TypePort    Type = "port"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// CLIName returns the hyphenated command name, e.g. "l2-policy".
func (t Type) CLIName() string {
	return strings.ReplaceAll(string(t), "_", "-")
}

// Kind describes how a field's value travels from arguments to the body.
type Kind int

const (
	// KindString is a scalar string copied verbatim.
	KindString Kind = iota
	// KindInt is a scalar integer copied verbatim.
	KindInt
	// KindReference is a single name-or-ID resolved to an ID.
	KindReference
	// KindKeyReference is a mapping whose keys are names-or-IDs; values pass through.
	KindKeyReference
	// KindListReference is an ordered list of names-or-IDs resolved element-wise.
	KindListReference
)

// IsReference reports whether values of this kind need resolution.
func (k Kind) IsReference() bool {
	return k == KindReference || k == KindKeyReference || k == KindListReference
}

// Field declares one argument of a resource type.
type Field struct {
	// Name is the argument name, e.g. "l2_policy".
	Name string
	// Flag is the CLI flag name without dashes, e.g. "l2-policy".
	Flag string
	// BodyKey is the key in the request body, e.g. "l2_policy_id".
	BodyKey string
	Kind    Kind
	// Target is the referenced type for reference kinds.
	Target Type
	Usage  string
	// Positional marks the field supplied as the first positional argument on create.
	Positional bool
	// Required on create.
	Required bool
	// Create and Update mark the verbs that accept the field.
	Create bool
	Update bool
	// Default is applied on create when the field is absent. Nil means no default.
	Default any
	// Choices restricts integer values when non-empty.
	Choices []int
}

// Descriptor is the declarative metadata for one resource type.
type Descriptor struct {
	Type Type
	// Plural is the collection key in list responses, e.g. "l2_policies".
	Plural string
	// Path is the collection path relative to the API version root.
	Path string
	// Managed types get list/show/create/update/delete commands.
	Managed     bool
	Aliases     []string
	Summary     string
	ListColumns []string
	Fields      []Field
}

// Field returns the field declared under name.
func (d *Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CreateFields returns the fields accepted on create, in declaration order.
func (d *Descriptor) CreateFields() []Field {
	return d.filter(func(f Field) bool { return f.Create })
}

// UpdateFields returns the fields accepted on update, in declaration order.
func (d *Descriptor) UpdateFields() []Field {
	return d.filter(func(f Field) bool { return f.Update })
}

// References returns the fields that need name-or-ID resolution.
func (d *Descriptor) References() []Field {
	return d.filter(func(f Field) bool { return f.Kind.IsReference() })
}

// ItemPath returns the path of a single resource.
func (d *Descriptor) ItemPath(id string) string {
	return d.Path + "/" + id
}

func (d *Descriptor) filter(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range d.Fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
