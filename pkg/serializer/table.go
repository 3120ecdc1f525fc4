/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Collection is a list result with the columns to show in table form.
// JSON and YAML render only the items.
type Collection struct {
	Columns []string
	Items   []map[string]any
}

// MarshalJSON implements json.Marshaler.
func (c Collection) MarshalJSON() ([]byte, error) {
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// MarshalYAML implements yaml.Marshaler.
func (c Collection) MarshalYAML() (any, error) {
	if c.Items == nil {
		return []map[string]any{}, nil
	}
	return c.Items, nil
}

var upper = cases.Upper(language.Und)

func newTable() *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = maxColWidth
	t.Wrap = true
	return t
}

func writeTable(w io.Writer, v any) error {
	switch tv := v.(type) {
	case Collection:
		return writeCollection(w, tv)
	case *Collection:
		return writeCollection(w, *tv)
	case map[string]any:
		return writeFields(w, tv)
	}

	// Everything else is flattened through its JSON form.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize to table: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to serialize to table: %w", err)
	}
	flat := make(map[string]any)
	flatten("", generic, flat)
	return writeFields(w, flat)
}

func writeCollection(w io.Writer, c Collection) error {
	columns := c.Columns
	if len(columns) == 0 {
		columns = inferColumns(c.Items)
	}

	t := newTable()
	t.AddRow(lo.ToAnySlice(lo.Map(columns, func(col string, _ int) string {
		return upper.String(col)
	}))...)
	for _, item := range c.Items {
		t.AddRow(lo.ToAnySlice(lo.Map(columns, func(col string, _ int) string {
			return formatValue(item[col])
		}))...)
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

func writeFields(w io.Writer, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := fmt.Fprintln(w, emptyMarker)
		return err
	}

	keys := lo.Keys(fields)
	slices.Sort(keys)

	t := newTable()
	t.AddRow("FIELD", "VALUE")
	for _, k := range keys {
		t.AddRow(k, formatValue(fields[k]))
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

// inferColumns returns the union of item keys with id and name first.
func inferColumns(items []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		for k := range item {
			seen[k] = struct{}{}
		}
	}
	cols := lo.Keys(seen)
	slices.SortFunc(cols, func(a, b string) int {
		return strings.Compare(columnRank(a), columnRank(b))
	})
	return cols
}

func columnRank(col string) string {
	switch col {
	case "id":
		return "0"
	case "name":
		return "1"
	default:
		return "2" + col
	}
}

// formatValue renders a cell: lists are comma joined and maps become
// sorted k=v pairs.
func formatValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []string:
		return strings.Join(tv, ",")
	case []any:
		return strings.Join(lo.Map(tv, func(e any, _ int) string { return formatValue(e) }), ",")
	case map[string]string:
		return joinPairs(lo.MapValues(tv, func(val string, _ string) any { return val }))
	case map[string]any:
		return joinPairs(tv)
	case float64:
		if tv == float64(int64(tv)) {
			return fmt.Sprintf("%d", int64(tv))
		}
		return fmt.Sprint(tv)
	default:
		return fmt.Sprint(tv)
	}
}

func joinPairs(m map[string]any) string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return k + "=" + formatValue(m[k])
	}), ",")
}

// flatten writes v into out with dotted keys, e.g. "inner.field" or "[0].name".
func flatten(prefix string, v any, out map[string]any) {
	switch tv := v.(type) {
	case map[string]any:
		if len(tv) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for k, val := range tv {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, val, out)
		}
	case []any:
		if len(tv) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for i, val := range tv {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), val, out)
		}
	default:
		if prefix == "" {
			prefix = "value"
		}
		out[prefix] = tv
	}
}
