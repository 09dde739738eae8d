package query

import (
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		Fields: []Field{
			{Key: "name", Kind: Text},
			{Key: "status", Kind: Enum, Options: []string{"PENDING", "APPROVED", "REJECTED"}},
			{Key: "departmentId", Kind: Facet},
			{Key: "capacity", Kind: Int},
			{Key: "acceptsJobs", Kind: Bool},
		},
		Sortable:    []string{"name", "createdAt", "status"},
		DefaultSort: []Sort{{Field: "createdAt", Direction: Desc}},
		DateRange:   true,
	}
}

func TestDecodeDefaults(t *testing.T) {
	q := Decode(url.Values{}, testSchema())

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Equal(t, []Sort{{Field: "createdAt", Direction: Desc}}, q.Sort)
	assert.Nil(t, q.Filters)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.DateRange)
}

func TestDecodeMalformedFallsBack(t *testing.T) {
	q := Decode(url.Values{
		"page":    {"abc"},
		"perPage": {"1e3"},
		"sort":    {"unknown.asc,name.sideways,name"},
		"status":  {"NOPE"},
		"from":    {"yesterday"},
		"bogus":   {"1"},
	}, testSchema())

	assert.Equal(t, Defaults(testSchema()), q)
}

func TestDecodeClampsPerPage(t *testing.T) {
	s := testSchema()
	for raw, want := range map[string]int{
		"0":     1,
		"-5":    1,
		"1":     1,
		"100":   MaxPerPage,
		"101":   MaxPerPage,
		"99999": MaxPerPage,
	} {
		q := Decode(url.Values{"perPage": {raw}}, s)
		assert.Equal(t, want, q.PerPage, "perPage=%s", raw)
	}

	custom := s.WithLimits(20, 50)
	assert.Equal(t, 50, Decode(url.Values{"perPage": {"500"}}, custom).PerPage)
	assert.Equal(t, 20, Decode(url.Values{}, custom).PerPage)
}

func TestDecodeSort(t *testing.T) {
	q := Decode(url.Values{"sort": {"name.asc,status.DESC", "name.desc", "ghost.asc"}}, testSchema())

	require.Equal(t, []Sort{
		{Field: "name", Direction: Asc},
		{Field: "status", Direction: Desc},
	}, q.Sort)
}

func TestDecodeFilters(t *testing.T) {
	q := Decode(url.Values{
		"status":       {"APPROVED,NOPE,PENDING,APPROVED"},
		"departmentId": {"d1", "d2,d1"},
		"name":         {"  Main   hall "},
		"capacity":     {"12"},
		"acceptsJobs":  {"1"},
		"search":       {"  projector  "},
	}, testSchema())

	assert.Equal(t, []string{"APPROVED", "PENDING"}, q.Values("status"))
	assert.Equal(t, []string{"d1", "d2"}, q.Values("departmentId"))
	assert.Equal(t, []string{"Main hall"}, q.Values("name"))
	assert.Equal(t, []string{"12"}, q.Values("capacity"))
	v, ok := q.Value("acceptsJobs")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t, "projector", q.Search)
}

func TestDecodeDateRange(t *testing.T) {
	q := Decode(url.Values{"from": {"2024-03-10"}, "to": {"2024-03-01T13:00:00Z"}}, testSchema())

	require.NotNil(t, q.DateRange)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), q.DateRange.From)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), q.DateRange.To)

	open := Decode(url.Values{"to": {"2024-03-01"}}, testSchema())
	require.NotNil(t, open.DateRange)
	assert.True(t, open.DateRange.From.IsZero())

	noRange := testSchema()
	noRange.DateRange = false
	assert.Nil(t, Decode(url.Values{"from": {"2024-03-10"}}, noRange).DateRange)
}

func TestEncodeOmitsDefaults(t *testing.T) {
	s := testSchema()
	assert.Empty(t, Encode(Defaults(s), s))

	q := Defaults(s)
	q.Page = 3
	q.Sort = []Sort{{Field: "name", Direction: Asc}}
	q.Filters = map[string][]string{"status": {"APPROVED", "PENDING"}}
	out := Encode(q, s)

	assert.Equal(t, "3", out.Get("page"))
	assert.Equal(t, "name.asc", out.Get("sort"))
	assert.Equal(t, "APPROVED,PENDING", out.Get("status"))
	assert.False(t, out.Has("perPage"))
}

func TestRoundTrip(t *testing.T) {
	s := testSchema()
	inputs := []url.Values{
		{},
		{"page": {"2"}, "perPage": {"25"}},
		{"sort": {"name.asc,createdAt.desc"}},
		{"sort": {"createdAt.desc"}, "page": {"1"}, "perPage": {"10"}},
		{"status": {"REJECTED"}, "departmentId": {"IT,HR"}, "search": {"lamp"}},
		{"name": {"x"}, "capacity": {"-3"}, "acceptsJobs": {"false"}},
		{"from": {"2024-01-01"}},
		{"from": {"2024-01-05"}, "to": {"2024-01-02"}, "perPage": {"1000"}},
	}
	for _, in := range inputs {
		q := Decode(in, s)
		assert.Equal(t, q, Decode(Encode(q, s), s), "input %v", in)
	}
}

func TestPageCount(t *testing.T) {
	q := Query{Page: 1, PerPage: 10}
	assert.Equal(t, 0, q.PageCount(0))
	assert.Equal(t, 1, q.PageCount(1))
	assert.Equal(t, 1, q.PageCount(10))
	assert.Equal(t, 2, q.PageCount(11))
	assert.Equal(t, 0, (Query{Page: 1}).PageCount(5))

	assert.Equal(t, 20, Query{Page: 3, PerPage: 10}.Offset())
}

func TestDecodeCapsPage(t *testing.T) {
	s := testSchema()
	for raw, want := range map[string]int{
		"7":                   7,
		"1000000":             MaxPage,
		"1000001":             MaxPage,
		"9223372036854775807": MaxPage,
	} {
		q := Decode(url.Values{"page": {raw}, "perPage": {"100"}}, s)
		assert.Equal(t, want, q.Page, "page=%s", raw)
		assert.GreaterOrEqual(t, q.Offset(), 0)
	}

	huge := Query{Page: math.MaxInt, PerPage: MaxPerPage}
	assert.Equal(t, (MaxPage-1)*MaxPerPage, huge.Offset())
	assert.Equal(t, strconv.Itoa(MaxPage), Encode(huge, s).Get(KeyPage))
}

func TestFieldNormalize(t *testing.T) {
	s := testSchema()
	status, _ := s.Field("status")
	name, _ := s.Field("name")
	capacity, _ := s.Field("capacity")

	assert.Equal(t, []string{"PENDING", "APPROVED"}, status.Normalize([]string{" PENDING ,NOPE", "APPROVED", "PENDING"}))
	assert.Empty(t, status.Normalize([]string{"", "NOPE"}))
	assert.Equal(t, []string{"a b"}, name.Normalize([]string{"  a   b "}))
	assert.Nil(t, name.Normalize([]string{"   "}))
	assert.Equal(t, []string{"12"}, capacity.Normalize([]string{" 12 "}))
	assert.Nil(t, capacity.Normalize([]string{"twelve"}))
}
