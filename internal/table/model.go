package table

import (
	"maps"
	"net/url"
	"slices"
	"strconv"

	"facilities/internal/query"
	"facilities/internal/utils"
)

// KeyEscape is the key name that clears the selection.
const KeyEscape = "Escape"

type Options[T any] struct {
	Columns   []Column[T]
	Schema    query.Schema
	RowID     func(T) string
	CanExpand func(T) bool
	// RememberSelection keys rows by RowID alone so a logical row keeps its selection across fetches.
	RememberSelection bool
	// Visibility seeds column visibility; missing ids are visible.
	Visibility map[string]bool
	Navigator  *Navigator
}

// Model bridges one page of rows to the query codec. Every state change made through the
// setters is serialized and handed to the Navigator; the next page arrives through Load.
type Model[T any] struct {
	opts      Options[T]
	rows      []T
	keys      []string
	pageCount int

	query      query.Query
	visibility map[string]bool
	selected   map[string]struct{}
	expanded   map[string]struct{}
}

// NewModel seeds the model from a query decoded off the URL. The model keeps its own copy of q.
func NewModel[T any](q query.Query, rows []T, pageCount int, opts Options[T]) *Model[T] {
	q.Filters = cloneFilters(q.Filters)
	q.Sort = slices.Clone(q.Sort)
	m := &Model[T]{
		opts:       opts,
		query:      q,
		visibility: map[string]bool{},
		selected:   map[string]struct{}{},
		expanded:   map[string]struct{}{},
	}
	for id, v := range opts.Visibility {
		m.visibility[id] = v
	}
	m.setRows(rows, pageCount)
	return m
}

// NewModelFromQuery mounts the model from URL search params.
func NewModelFromQuery[T any](values url.Values, rows []T, pageCount int, opts Options[T]) *Model[T] {
	return NewModel(query.Decode(values, opts.Schema), rows, pageCount, opts)
}

func (m *Model[T]) Query() query.Query {
	q := m.query
	q.Filters = cloneFilters(q.Filters)
	q.Sort = slices.Clone(q.Sort)
	return q
}

func (m *Model[T]) Rows() []T      { return m.rows }
func (m *Model[T]) PageCount() int { return m.pageCount }

func cloneFilters(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

// RowKey is the identity used for selection: "id:index" by default, the bare id with RememberSelection.
func (m *Model[T]) RowKey(i int) string {
	return m.keys[i]
}

func (m *Model[T]) rowKey(row T, i int) string {
	id := ""
	if m.opts.RowID != nil {
		id = m.opts.RowID(row)
	}
	if m.opts.RememberSelection {
		return id
	}
	return id + ":" + strconv.Itoa(i)
}

func (m *Model[T]) setRows(rows []T, pageCount int) {
	m.rows = rows
	m.pageCount = pageCount
	m.keys = make([]string, len(rows))
	for i, r := range rows {
		m.keys[i] = m.rowKey(r, i)
	}
}

// Load swaps in a freshly fetched page. Selected and expanded keys survive only when they reappear.
func (m *Model[T]) Load(rows []T, pageCount int) {
	m.setRows(rows, pageCount)
	present := make(map[string]struct{}, len(m.keys))
	for _, k := range m.keys {
		present[k] = struct{}{}
	}
	for k := range m.selected {
		if _, ok := present[k]; !ok {
			delete(m.selected, k)
		}
	}
	for k := range m.expanded {
		if _, ok := present[k]; !ok {
			delete(m.expanded, k)
		}
	}
}

func (m *Model[T]) navigate(debounce bool) {
	if m.opts.Navigator == nil {
		return
	}
	v := query.Encode(m.query, m.opts.Schema)
	if debounce {
		m.opts.Navigator.Debounce(v)
		return
	}
	m.opts.Navigator.Push(v)
}

// SetSorting replaces the sort; unknown or non-sortable columns are ignored.
func (m *Model[T]) SetSorting(sorts []query.Sort) {
	out := make([]query.Sort, 0, len(sorts))
	for _, s := range sorts {
		if !m.opts.Schema.CanSort(s.Field) {
			continue
		}
		if c, ok := findColumn(m.opts.Columns, s.Field); ok && !c.Sortable {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = query.Defaults(m.opts.Schema).Sort
	}
	m.query.Sort = out
	m.query.Page = 1
	m.navigate(false)
}

// SetFilter sets the values of one column filter. Values are cleaned the way the URL codec cleans
// them; nothing left clears the filter. Free-text filters are debounced, facet filters navigate at once.
func (m *Model[T]) SetFilter(key string, values ...string) {
	f, ok := m.opts.Schema.Field(key)
	if !ok {
		return
	}
	filters := maps.Clone(m.query.Filters)
	if vals := f.Normalize(values); len(vals) > 0 {
		if filters == nil {
			filters = map[string][]string{}
		}
		filters[key] = vals
	} else {
		delete(filters, key)
	}
	if len(filters) == 0 {
		filters = nil
	}
	m.query.Filters = filters
	m.query.Page = 1
	m.navigate(f.Kind == query.Text)
}

// SetSearch sets the global search; always debounced.
func (m *Model[T]) SetSearch(s string) {
	m.query.Search = utils.NormalizeSpace(s)
	m.query.Page = 1
	m.navigate(true)
}

func (m *Model[T]) SetDateRange(r *query.DateRange) {
	if r != nil && r.IsZero() {
		r = nil
	}
	m.query.DateRange = r
	m.query.Page = 1
	m.navigate(false)
}

func (m *Model[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if m.pageCount > 0 && page > m.pageCount {
		page = m.pageCount
	}
	m.query.Page = query.ClampPage(page)
	m.navigate(false)
}

func (m *Model[T]) SetPerPage(n int) {
	m.query.PerPage = m.opts.Schema.ClampPerPage(n)
	m.query.Page = 1
	m.navigate(false)
}

// SetVisibility hides or shows a hideable column. Visibility is not part of the URL.
func (m *Model[T]) SetVisibility(id string, visible bool) {
	c, ok := findColumn(m.opts.Columns, id)
	if !ok || !c.Hideable {
		return
	}
	m.visibility[id] = visible
}

func (m *Model[T]) Visibility() map[string]bool {
	out := make(map[string]bool, len(m.visibility))
	for k, v := range m.visibility {
		out[k] = v
	}
	return out
}

// VisibleColumns returns every column (sentinels included) that is not hidden.
func (m *Model[T]) VisibleColumns() []Column[T] {
	out := make([]Column[T], 0, len(m.opts.Columns))
	for _, c := range m.opts.Columns {
		if v, ok := m.visibility[c.ID]; ok && !v {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ExportColumns are the visible data columns.
func (m *Model[T]) ExportColumns() []Column[T] {
	return DataColumns(m.opts.Columns, m.visibility)
}

func (m *Model[T]) indexOf(key string) int {
	for i, k := range m.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// ToggleSelected flips the selection of a loaded row; unknown keys are ignored.
func (m *Model[T]) ToggleSelected(key string) {
	if m.indexOf(key) < 0 {
		return
	}
	if _, ok := m.selected[key]; ok {
		delete(m.selected, key)
		return
	}
	m.selected[key] = struct{}{}
}

// SelectAll selects every row of the current page.
func (m *Model[T]) SelectAll() {
	for _, k := range m.keys {
		m.selected[k] = struct{}{}
	}
}

func (m *Model[T]) ClearSelection() {
	clear(m.selected)
}

// HandleKey reacts to keyboard input on the table; Escape clears the selection.
func (m *Model[T]) HandleKey(key string) {
	if key == KeyEscape {
		m.ClearSelection()
	}
}

// AfterBulkAction is called once a bulk mutation succeeded.
func (m *Model[T]) AfterBulkAction() {
	m.ClearSelection()
}

func (m *Model[T]) IsSelected(key string) bool {
	_, ok := m.selected[key]
	return ok
}

// SelectedRows returns the selected rows in page order.
func (m *Model[T]) SelectedRows() []T {
	out := make([]T, 0, len(m.selected))
	for i, k := range m.keys {
		if _, ok := m.selected[k]; ok {
			out = append(out, m.rows[i])
		}
	}
	return out
}

// SelectedIDs returns the RowID of every selected row, in page order, without duplicates.
// Without a RowID the row keys are returned.
func (m *Model[T]) SelectedIDs() []string {
	out := []string{}
	seen := map[string]struct{}{}
	for i, k := range m.keys {
		if _, ok := m.selected[k]; !ok {
			continue
		}
		id := k
		if m.opts.RowID != nil {
			id = m.opts.RowID(m.rows[i])
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// FloatingBarVisible reports whether the bulk-action bar is shown (one or more rows selected).
func (m *Model[T]) FloatingBarVisible() bool {
	return len(m.selected) > 0
}

// ToggleExpanded flips a row's expansion when CanExpand allows it.
func (m *Model[T]) ToggleExpanded(key string) {
	i := m.indexOf(key)
	if i < 0 {
		return
	}
	if m.opts.CanExpand == nil || !m.opts.CanExpand(m.rows[i]) {
		return
	}
	if _, ok := m.expanded[key]; ok {
		delete(m.expanded, key)
		return
	}
	m.expanded[key] = struct{}{}
}

func (m *Model[T]) IsExpanded(key string) bool {
	_, ok := m.expanded[key]
	return ok
}
