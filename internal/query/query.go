// Package query is the codec between list-screen URL search parameters and a typed query.
//
// Decoding never fails: unknown keys are ignored and malformed values fall back to the schema
// defaults. Encoding is the inverse and omits every key whose value equals its default, so
// Decode(Encode(q)) == q for any q produced by Decode.
package query

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"facilities/internal/utils"
)

const (
	KeyPage    = "page"
	KeyPerPage = "perPage"
	KeySort    = "sort"
	KeySearch  = "search"
	KeyFrom    = "from"
	KeyTo      = "to"

	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage bounds the page number so Offset stays far from int overflow.
	MaxPage = 1_000_000
)

var reservedKeys = []string{KeyPage, KeyPerPage, KeySort, KeySearch, KeyFrom, KeyTo}

// Kind tells the codec how to parse a filter key and the fetchers which predicate to build.
type Kind int

const (
	// Text is a free-text substring filter.
	Text Kind = iota
	// Enum is a facet over a closed option list; values outside Options are dropped.
	Enum
	// Facet is array-membership over open values (ids).
	Facet
	Int
	Bool
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Enum:
		return "enum"
	case Facet:
		return "facet"
	case Int:
		return "int"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Multi reports whether the kind carries a list of values.
func (k Kind) Multi() bool {
	return k == Enum || k == Facet
}

type Field struct {
	Key     string
	Kind    Kind
	Options []string
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (s Sort) Desc() bool { return s.Direction == Desc }

func (s Sort) String() string {
	return s.Field + "." + string(s.Direction)
}

// DateRange bounds are whole UTC days; a zero bound is open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

type Schema struct {
	Fields         []Field
	Sortable       []string
	DefaultSort    []Sort
	DefaultPerPage int
	MaxPerPage     int
	DateRange      bool
}

func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) CanSort(field string) bool {
	return slices.Contains(s.Sortable, field)
}

func (s Schema) defaultPerPage() int {
	if s.DefaultPerPage > 0 {
		return s.ClampPerPage(s.DefaultPerPage)
	}
	return s.ClampPerPage(DefaultPerPage)
}

func (s Schema) maxPerPage() int {
	if s.MaxPerPage > 0 {
		return s.MaxPerPage
	}
	return MaxPerPage
}

// ClampPerPage moves n into [1, MaxPerPage].
func (s Schema) ClampPerPage(n int) int {
	if n < 1 {
		return 1
	}
	if m := s.maxPerPage(); n > m {
		return m
	}
	return n
}

// WithLimits returns a copy using the given default and maximum page size.
func (s Schema) WithLimits(defaultPerPage, maxPerPage int) Schema {
	s.DefaultPerPage = defaultPerPage
	s.MaxPerPage = maxPerPage
	return s
}

func (s Schema) defaultSort() []Sort {
	out := make([]Sort, 0, len(s.DefaultSort))
	for _, srt := range s.DefaultSort {
		if s.CanSort(srt.Field) {
			out = append(out, srt)
		}
	}
	return out
}

type Query struct {
	Page      int                 `json:"page"`
	PerPage   int                 `json:"perPage"`
	Sort      []Sort              `json:"sort"`
	Filters   map[string][]string `json:"filters,omitempty"`
	Search    string              `json:"search,omitempty"`
	DateRange *DateRange          `json:"dateRange,omitempty"`
}

// Defaults returns the query a list screen shows with no search params.
func Defaults(s Schema) Query {
	return Query{Page: 1, PerPage: s.defaultPerPage(), Sort: s.defaultSort()}
}

// ClampPage moves n into [1, MaxPage].
func ClampPage(n int) int {
	return max(1, min(n, MaxPage))
}

func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (ClampPage(q.Page) - 1) * q.PerPage
}

// PageCount is ceil(total / perPage), 0 when total is 0.
func (q Query) PageCount(total int) int {
	if total <= 0 || q.PerPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(q.PerPage)))
}

// Values returns the filter values for key.
func (q Query) Values(key string) []string {
	return q.Filters[key]
}

// Value returns the single value of a scalar filter.
func (q Query) Value(key string) (string, bool) {
	v := q.Filters[key]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Decode parses raw search params against schema.
func Decode(values url.Values, s Schema) Query {
	q := Defaults(s)

	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyPage))); err == nil && n >= 1 {
		q.Page = ClampPage(n)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyPerPage))); err == nil {
		q.PerPage = s.ClampPerPage(n)
	}

	if sorts := decodeSort(values[KeySort], s); len(sorts) > 0 {
		q.Sort = sorts
	}

	q.Search = utils.NormalizeSpace(values.Get(KeySearch))

	for _, f := range s.Fields {
		if slices.Contains(reservedKeys, f.Key) {
			continue
		}
		raw, ok := values[f.Key]
		if !ok {
			continue
		}
		if vals := f.Normalize(raw); len(vals) > 0 {
			if q.Filters == nil {
				q.Filters = map[string][]string{}
			}
			q.Filters[f.Key] = vals
		}
	}

	if s.DateRange {
		q.DateRange = decodeDateRange(values.Get(KeyFrom), values.Get(KeyTo))
	}
	return q
}

func decodeSort(raw []string, s Schema) []Sort {
	out := []Sort{}
	seen := map[string]struct{}{}
	for _, r := range raw {
		for _, part := range utils.SplitList(r) {
			field, dir, ok := strings.Cut(part, ".")
			if !ok {
				continue
			}
			d := Direction(strings.ToLower(dir))
			if d != Asc && d != Desc {
				continue
			}
			if !s.CanSort(field) {
				continue
			}
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			out = append(out, Sort{Field: field, Direction: d})
		}
	}
	return out
}

// Normalize cleans raw values the way the URL codec does: lists are split, trimmed and deduplicated,
// enum values outside Options are dropped, scalars are parsed and blank text is removed.
func (f Field) Normalize(raw []string) []string {
	switch f.Kind {
	case Enum, Facet:
		out := []string{}
		for _, r := range raw {
			for _, v := range utils.SplitList(r) {
				if f.Kind == Enum && !slices.Contains(f.Options, v) {
					continue
				}
				if !slices.Contains(out, v) {
					out = append(out, v)
				}
			}
		}
		return out
	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(first(raw)))
		if err != nil {
			return nil
		}
		return []string{strconv.Itoa(n)}
	case Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(first(raw)))
		if err != nil {
			return nil
		}
		return []string{strconv.FormatBool(b)}
	default:
		v := utils.NormalizeSpace(first(raw))
		if v == "" {
			return nil
		}
		return []string{v}
	}
}

func decodeDateRange(from, to string) *DateRange {
	var r DateRange
	if t, err := utils.ParseDateOrTimestamp(from); err == nil {
		r.From = truncateDay(t)
	}
	if t, err := utils.ParseDateOrTimestamp(to); err == nil {
		r.To = truncateDay(t)
	}
	if r.IsZero() {
		return nil
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		r.From, r.To = r.To, r.From
	}
	return &r
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func first(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return raw[0]
}

// Encode serializes q into the minimal set of search params.
func Encode(q Query, s Schema) url.Values {
	out := url.Values{}
	def := Defaults(s)

	if q.Page > 1 {
		out.Set(KeyPage, strconv.Itoa(ClampPage(q.Page)))
	}
	if q.PerPage > 0 && q.PerPage != def.PerPage {
		out.Set(KeyPerPage, strconv.Itoa(s.ClampPerPage(q.PerPage)))
	}
	if len(q.Sort) > 0 && !slices.Equal(q.Sort, def.Sort) {
		parts := make([]string, 0, len(q.Sort))
		for _, srt := range q.Sort {
			parts = append(parts, srt.String())
		}
		out.Set(KeySort, strings.Join(parts, ","))
	}
	if q.Search != "" {
		out.Set(KeySearch, q.Search)
	}
	for _, f := range s.Fields {
		vals := q.Filters[f.Key]
		if len(vals) == 0 {
			continue
		}
		if f.Kind.Multi() {
			out.Set(f.Key, strings.Join(vals, ","))
		} else {
			out.Set(f.Key, vals[0])
		}
	}
	if s.DateRange && q.DateRange != nil {
		if !q.DateRange.From.IsZero() {
			out.Set(KeyFrom, utils.FormatDate(q.DateRange.From))
		}
		if !q.DateRange.To.IsZero() {
			out.Set(KeyTo, utils.FormatDate(q.DateRange.To))
		}
	}
	return out
}
