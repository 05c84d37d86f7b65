// Package sorting implements the client-side ordering of catalog lists
package sorting

import (
	"slices"
)

// Order is a sort direction
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Reverse returns the opposite direction
func (o Order) Reverse() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

// Policy decides the direction a newly selected field starts with
type Policy struct {
	Name    string
	Initial Order
}

var (
	// TablePolicy is used by the entity tables: a new column starts ascending
	TablePolicy = Policy{Name: "table", Initial: Asc}
	// FileListPolicy is used by the file picker: a new field starts descending
	FileListPolicy = Policy{Name: "file-list", Initial: Desc}
)

// State is the current sort of one list
type State struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

// IsZero reports whether no field has been chosen
func (s State) IsZero() bool {
	return s.Field == ""
}

// Toggle flips the order when field is already active, otherwise
// selects field with the policy's initial order
func (s State) Toggle(field string, p Policy) State {
	if s.Field == field {
		order := s.Order
		if order == "" {
			order = p.Initial
		}
		return State{Field: field, Order: order.Reverse()}
	}
	return State{Field: field, Order: p.Initial}
}

// Compare orders two items ascending: negative when a sorts first
type Compare[T any] func(a, b T) int

// FieldSet maps sortable field names to comparators
type FieldSet[T any] map[string]Compare[T]

// Fields returns the field names, sorted
func (fs FieldSet[T]) Fields() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sort returns a stably sorted copy of items. An unknown field
// returns the copy in its original order
func Sort[T any](items []T, fields FieldSet[T], st State) []T {
	out := slices.Clone(items)
	cmp, ok := fields[st.Field]
	if !ok {
		return out
	}

	if st.Order == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
