/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package resource

import "fmt"

// Common field names shared by every managed type.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldTenantID    = "tenant_id"
)

func nameField(summary string) Field {
	return Field{
		Name:       FieldName,
		Flag:       "name",
		BodyKey:    FieldName,
		Kind:       KindString,
		Usage:      fmt.Sprintf("Name of the %s", summary),
		Positional: true,
		Required:   true,
		Create:     true,
		Update:     true,
	}
}

func descriptionField(summary string) Field {
	return Field{
		Name:    FieldDescription,
		Flag:    "description",
		BodyKey: FieldDescription,
		Kind:    KindString,
		Usage:   fmt.Sprintf("Description of the %s", summary),
		Create:  true,
		Update:  true,
	}
}

func tenantField() Field {
	return Field{
		Name:    FieldTenantID,
		Flag:    "tenant-id",
		BodyKey: FieldTenantID,
		Kind:    KindString,
		Usage:   "The owner tenant ID",
		Create:  true,
	}
}

// common returns name, description and tenant_id for a type.
// Description is always updatable; the type decides the rest.
func common(summary string) []Field {
	return []Field{nameField(summary), descriptionField(summary), tenantField()}
}
