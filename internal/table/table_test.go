package table

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/query"
)

type row struct {
	ID     string
	Name   string
	Status string
}

func testColumns() []Column[row] {
	return []Column[row]{
		SelectColumn[row](),
		{ID: "name", Header: "Name", Cell: func(r row) string { return r.Name }, Sortable: true, Hideable: true, Filter: Contains},
		{ID: "status", Header: "Status", Cell: func(r row) string { return r.Status }, Sortable: true, Hideable: true, Filter: ArrIncludes},
		ActionsColumn[row](),
	}
}

func testSchema() query.Schema {
	return query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "status", Kind: query.Enum, Options: []string{"A", "B"}},
		},
		Sortable:    []string{"name", "status", "createdAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
	}
}

type recorder struct {
	mu     sync.Mutex
	pushed []url.Values
}

func (r *recorder) push(v url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, v)
}

func (r *recorder) all() []url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]url.Values(nil), r.pushed...)
}

func newTestModel(rows []row, nav *Navigator) *Model[row] {
	return NewModel(query.Defaults(testSchema()), rows, 1, Options[row]{
		Columns:   testColumns(),
		Schema:    testSchema(),
		RowID:     func(r row) string { return r.ID },
		Navigator: nav,
	})
}

func TestValidateColumns(t *testing.T) {
	require.NoError(t, Validate(testColumns()))

	dup := append(testColumns()[:2], testColumns()[1])
	assert.Error(t, Validate(dup))

	actionsFirst := []Column[row]{ActionsColumn[row](), {ID: "name"}}
	assert.Error(t, Validate(actionsFirst))

	sortableSelect := SelectColumn[row]()
	sortableSelect.Sortable = true
	assert.Error(t, Validate([]Column[row]{sortableSelect}))

	lateSelect := []Column[row]{{ID: "name"}, SelectColumn[row]()}
	assert.Error(t, Validate(lateSelect))
}

func TestDataColumnsExcludeSentinelsAndHidden(t *testing.T) {
	cols := DataColumns(testColumns(), map[string]bool{"status": false})
	require.Len(t, cols, 1)
	assert.Equal(t, "name", cols[0].ID)
}

func TestCompositeRowKeys(t *testing.T) {
	m := newTestModel([]row{{ID: "u1"}, {ID: "u1"}, {ID: "u2"}}, nil)

	assert.Equal(t, "u1:0", m.RowKey(0))
	assert.Equal(t, "u1:1", m.RowKey(1))

	m.ToggleSelected("u1:1")
	assert.False(t, m.IsSelected("u1:0"))
	assert.Equal(t, []string{"u1"}, m.SelectedIDs())
}

func TestSelectionClearedByEscapeAndBulkAction(t *testing.T) {
	m := newTestModel([]row{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

	m.SelectAll()
	require.Len(t, m.SelectedRows(), 3)
	assert.True(t, m.FloatingBarVisible())

	m.HandleKey("Enter")
	assert.Len(t, m.SelectedRows(), 3)

	m.HandleKey(KeyEscape)
	assert.Empty(t, m.SelectedRows())
	assert.False(t, m.FloatingBarVisible())

	m.ToggleSelected(m.RowKey(0))
	m.ToggleSelected(m.RowKey(2))
	m.AfterBulkAction()
	assert.Empty(t, m.SelectedRows())
}

func TestLoadKeepsOnlyReappearingSelection(t *testing.T) {
	m := newTestModel([]row{{ID: "a"}, {ID: "b"}}, nil)
	m.SelectAll()

	m.Load([]row{{ID: "a"}, {ID: "c"}}, 1)
	assert.Equal(t, []string{"a"}, m.SelectedIDs())

	m.Load([]row{{ID: "c"}, {ID: "a"}}, 1)
	assert.Empty(t, m.SelectedIDs(), "composite keys do not follow a row to another position")

	remember := NewModel(query.Defaults(testSchema()), []row{{ID: "a"}, {ID: "b"}}, 1, Options[row]{
		Columns: testColumns(), Schema: testSchema(), RowID: func(r row) string { return r.ID }, RememberSelection: true,
	})
	remember.ToggleSelected("a")
	remember.Load([]row{{ID: "c"}, {ID: "a"}}, 1)
	assert.Equal(t, []string{"a"}, remember.SelectedIDs())
}

func TestStateChangesNavigate(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(time.Hour, rec.push)
	m := newTestModel([]row{{ID: "a"}}, nav)
	m.pageCount = 5

	m.SetPage(3)
	m.SetSorting([]query.Sort{{Field: "name", Direction: query.Asc}, {Field: "ghost", Direction: query.Asc}})
	m.SetFilter("status", "A", "B")
	m.SetPerPage(1000)

	pushed := rec.all()
	require.Len(t, pushed, 4)
	assert.Equal(t, "3", pushed[0].Get("page"))
	assert.Equal(t, "name.asc", pushed[1].Get("sort"))
	assert.False(t, pushed[1].Has("page"), "sorting resets to the first page")
	assert.Equal(t, "A,B", pushed[2].Get("status"))
	assert.Equal(t, "100", pushed[3].Get("perPage"))
}

func TestTextFilterIsDebounced(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(20*time.Millisecond, rec.push)
	m := newTestModel(nil, nav)

	m.SetFilter("name", "p")
	m.SetFilter("name", "pr")
	m.SetSearch("pro")
	assert.Empty(t, rec.all())

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	pushed := rec.all()
	require.Len(t, pushed, 1)
	assert.Equal(t, "pr", pushed[0].Get("name"))
	assert.Equal(t, "pro", pushed[0].Get("search"))
}

func TestImmediatePushSupersedesPendingDebounce(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(20*time.Millisecond, rec.push)
	m := newTestModel(nil, nav)

	m.SetSearch("lamp")
	m.SetFilter("status", "A")
	time.Sleep(60 * time.Millisecond)

	pushed := rec.all()
	require.Len(t, pushed, 1)
	assert.Equal(t, "A", pushed[0].Get("status"))
	assert.Equal(t, "lamp", pushed[0].Get("search"))
}

func TestVisibilityOnlyForHideableColumns(t *testing.T) {
	m := newTestModel(nil, nil)
	m.SetVisibility(SelectID, false)
	m.SetVisibility("status", false)

	ids := []string{}
	for _, c := range m.VisibleColumns() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{SelectID, "name", ActionsID}, ids)
	require.Len(t, m.ExportColumns(), 1)
}

func TestExpandRespectsCanExpand(t *testing.T) {
	m := NewModel(query.Defaults(testSchema()), []row{{ID: "a", Status: "A"}, {ID: "b", Status: "B"}}, 1, Options[row]{
		Columns:   testColumns(),
		Schema:    testSchema(),
		RowID:     func(r row) string { return r.ID },
		CanExpand: func(r row) bool { return r.Status == "A" },
	})
	m.ToggleExpanded(m.RowKey(0))
	m.ToggleExpanded(m.RowKey(1))
	assert.True(t, m.IsExpanded(m.RowKey(0)))
	assert.False(t, m.IsExpanded(m.RowKey(1)))
}

func TestRowActionsAreIndependent(t *testing.T) {
	var first, second RowActions
	first.Open("delete")
	assert.True(t, first.IsOpen("delete"))
	assert.False(t, second.IsOpen("delete"))
	first.Close("delete")
	assert.False(t, first.IsOpen("delete"))
}

func TestNewModelFromQuery(t *testing.T) {
	values := url.Values{"page": {"2"}, "status": {"A,Z"}, "sort": {"name.asc"}, "search": {" pump "}}
	m := NewModelFromQuery(values, []row{{ID: "a"}}, 3, Options[row]{
		Columns: testColumns(),
		Schema:  testSchema(),
		RowID:   func(r row) string { return r.ID },
	})

	q := m.Query()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, []string{"A"}, q.Values("status"))
	assert.Equal(t, []query.Sort{{Field: "name", Direction: query.Asc}}, q.Sort)
	assert.Equal(t, "pump", q.Search)
	assert.Equal(t, 3, m.PageCount())
}

func TestSetDateRange(t *testing.T) {
	rec := &recorder{}
	schema := testSchema()
	schema.DateRange = true
	m := NewModel(query.Defaults(schema), []row{{ID: "a"}}, 3, Options[row]{
		Columns:   testColumns(),
		Schema:    schema,
		RowID:     func(r row) string { return r.ID },
		Navigator: NewNavigator(time.Hour, rec.push),
	})
	m.SetPage(2)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m.SetDateRange(&query.DateRange{From: from})
	require.NotNil(t, m.Query().DateRange)
	assert.Equal(t, 1, m.Query().Page)

	m.SetDateRange(&query.DateRange{})
	assert.Nil(t, m.Query().DateRange, "an empty range clears the filter")
	assert.Len(t, m.Rows(), 1)

	pushed := rec.all()
	require.Len(t, pushed, 3)
	assert.Equal(t, "2024-03-01", pushed[1].Get("from"))
	assert.False(t, pushed[1].Has("to"))
	assert.False(t, pushed[2].Has("from"))
}

func TestModelStateMatchesCodec(t *testing.T) {
	rec := &recorder{}
	schema := testSchema()
	seed := query.Defaults(schema)
	seed.Filters = map[string][]string{"status": {"A"}}
	m := NewModel(seed, []row{{ID: "a"}}, 1, Options[row]{
		Columns:   testColumns(),
		Schema:    schema,
		RowID:     func(r row) string { return r.ID },
		Navigator: NewNavigator(time.Hour, rec.push),
	})

	t.Run("caller query is not mutated", func(t *testing.T) {
		m.SetFilter("status", "B")
		assert.Equal(t, []string{"A"}, seed.Filters["status"])

		got := m.Query()
		got.Filters["status"] = []string{"A"}
		assert.Equal(t, []string{"B"}, m.Query().Values("status"))
	})

	t.Run("filter values are cleaned", func(t *testing.T) {
		m.SetFilter("status", " B ", "Z", "B")
		assert.Equal(t, []string{"B"}, m.Query().Values("status"))

		m.SetFilter("status", "Z")
		assert.Nil(t, m.Query().Filters, "no valid value left clears the filter")

		m.SetFilter("name", "")
		assert.Nil(t, m.Query().Filters)
	})

	t.Run("search is normalized", func(t *testing.T) {
		m.SetSearch("  desk   lamp ")
		assert.Equal(t, "desk lamp", m.Query().Search)
	})

	t.Run("state survives a URL round trip", func(t *testing.T) {
		m.SetFilter("status", "A", "Z")
		m.SetFilter("name", "  desk ")
		assert.Equal(t, m.Query(), query.Decode(query.Encode(m.Query(), schema), schema))
	})
}

func TestSelectedIDsWithoutRowID(t *testing.T) {
	m := NewModel(query.Defaults(testSchema()), []row{{ID: "a"}, {ID: "b"}}, 1, Options[row]{
		Columns: testColumns(),
		Schema:  testSchema(),
	})
	m.SelectAll()
	assert.Equal(t, []string{m.RowKey(0), m.RowKey(1)}, m.SelectedIDs())
}
