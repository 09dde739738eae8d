// Package table models the state of a server-driven admin data table: column specs, the
// bridge between table state and the URL query codec, row selection and debounced navigation.
package table

import (
	"fmt"
	"slices"
)

const (
	SelectID  = "select"
	ExpandID  = "expand"
	ActionsID = "actions"
)

type Kind int

const (
	KindData Kind = iota
	KindSelect
	KindExpand
	KindActions
)

// Sentinel reports whether the column is synthesized (selection, expansion, actions) rather than data.
func (k Kind) Sentinel() bool {
	return k != KindData
}

type Pin string

const (
	PinNone  Pin = ""
	PinLeft  Pin = "left"
	PinRight Pin = "right"
)

// FilterFn names the predicate family a column filter uses.
type FilterFn int

const (
	NoFilter FilterFn = iota
	// ArrIncludes matches when the cell value is one of the selected facet values.
	ArrIncludes
	// Contains is a case-insensitive substring match.
	Contains
	// InDateRange compares YYYY-MM-DD cell values against a from/to pair.
	InDateRange
)

type Column[T any] struct {
	ID       string
	Header   string
	Cell     func(row T) string
	Sortable bool
	Hideable bool
	Filter   FilterFn
	Size     int
	Pin      Pin
	Kind     Kind
}

// Value renders the cell for row; sentinel columns render empty.
func (c Column[T]) Value(row T) string {
	if c.Cell == nil {
		return ""
	}
	return c.Cell(row)
}

func SelectColumn[T any]() Column[T] {
	return Column[T]{ID: SelectID, Kind: KindSelect, Size: 40, Pin: PinLeft}
}

func ExpandColumn[T any]() Column[T] {
	return Column[T]{ID: ExpandID, Kind: KindExpand, Size: 40}
}

func ActionsColumn[T any]() Column[T] {
	return Column[T]{ID: ActionsID, Kind: KindActions, Size: 60, Pin: PinRight}
}

// Validate checks the column invariants: unique ids, non-sortable and non-hideable sentinels,
// selection/expansion columns before any data column and the actions column last.
func Validate[T any](cols []Column[T]) error {
	seen := map[string]struct{}{}
	dataSeen := false
	for i, c := range cols {
		if c.ID == "" {
			return fmt.Errorf("column %d has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate column id %q", c.ID)
		}
		seen[c.ID] = struct{}{}

		switch c.Kind {
		case KindData:
			dataSeen = true
		case KindSelect:
			if dataSeen {
				return fmt.Errorf("column %q must lead the data columns", c.ID)
			}
		case KindActions:
			if i != len(cols)-1 {
				return fmt.Errorf("actions column %q must be last", c.ID)
			}
		}
		if c.Kind.Sentinel() && (c.Sortable || c.Hideable) {
			return fmt.Errorf("column %q cannot be sorted or hidden", c.ID)
		}
	}
	return nil
}

// DataColumns drops sentinel columns and the ones hidden in visibility.
func DataColumns[T any](cols []Column[T], visibility map[string]bool) []Column[T] {
	out := make([]Column[T], 0, len(cols))
	for _, c := range cols {
		if c.Kind.Sentinel() {
			continue
		}
		if visible, ok := visibility[c.ID]; ok && !visible {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Pick keeps the data columns whose ids are listed, in column order. An empty list keeps all.
func Pick[T any](cols []Column[T], ids []string) []Column[T] {
	if len(ids) == 0 {
		return cols
	}
	out := make([]Column[T], 0, len(ids))
	for _, c := range cols {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out
}

func findColumn[T any](cols []Column[T], id string) (Column[T], bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}
