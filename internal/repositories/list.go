package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"facilities/internal/query"
	"facilities/internal/utils"
)

// predicate builds a custom WHERE fragment for one filter key. The fragment may use "?" and IN (?).
type predicate func(values []string) (string, []any)

// listSpec describes how one entity's list query maps to SQL.
type listSpec struct {
	Table  string
	Select string
	Schema query.Schema
	// Columns maps a filter or sort key to its SQL column.
	Columns    map[string]string
	Search     []string
	DateColumn string
	Custom     map[string]predicate
}

const likeEscape = "!"

func likePattern(v string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(v) + "%"
}

// where translates q into a conjunction of predicates.
func (s listSpec) where(q query.Query) (string, []any, error) {
	clauses := []string{}
	args := []any{}

	for _, f := range s.Schema.Fields {
		values := q.Values(f.Key)
		if len(values) == 0 {
			continue
		}
		if custom, ok := s.Custom[f.Key]; ok {
			c, a := custom(values)
			clauses = append(clauses, c)
			args = append(args, a...)
			continue
		}
		col, ok := s.Columns[f.Key]
		if !ok {
			continue
		}
		switch f.Kind {
		case query.Enum, query.Facet:
			clauses = append(clauses, col+" IN (?)")
			args = append(args, values)
		case query.Bool:
			b, err := strconv.ParseBool(values[0])
			if err != nil {
				continue
			}
			clauses = append(clauses, col+" = ?")
			args = append(args, b)
		case query.Int:
			n, err := strconv.Atoi(values[0])
			if err != nil {
				continue
			}
			clauses = append(clauses, col+" = ?")
			args = append(args, n)
		default:
			clauses = append(clauses, col+" LIKE ? ESCAPE '"+likeEscape+"'")
			args = append(args, likePattern(values[0]))
		}
	}

	if q.Search != "" && len(s.Search) > 0 {
		ors := make([]string, 0, len(s.Search))
		for _, col := range s.Search {
			ors = append(ors, col+" LIKE ? ESCAPE '"+likeEscape+"'")
			args = append(args, likePattern(q.Search))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if q.DateRange != nil && s.DateColumn != "" {
		if !q.DateRange.From.IsZero() {
			clauses = append(clauses, s.DateColumn+" >= ?")
			args = append(args, utils.FormatTimestamp(q.DateRange.From))
		}
		if !q.DateRange.To.IsZero() {
			// inclusive through the end of the "to" day
			clauses = append(clauses, s.DateColumn+" < ?")
			args = append(args, utils.FormatTimestamp(q.DateRange.To.Add(24*time.Hour)))
		}
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	where := " WHERE " + strings.Join(clauses, " AND ")
	expanded, expandedArgs, err := sqlx.In(where, args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand %s filters: %w", s.Table, err)
	}
	return expanded, expandedArgs, nil
}

// orderBy whitelists q.Sort against the schema and appends the id tie-breaker.
func (s listSpec) orderBy(q query.Query) string {
	parts := []string{}
	for _, srt := range q.Sort {
		if !s.Schema.CanSort(srt.Field) {
			continue
		}
		col, ok := s.Columns[srt.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if srt.Desc() {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, s.Table+".id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// list runs the count and page queries for q.
func list[T any](ctx context.Context, db *sqlx.DB, s listSpec, q query.Query) ([]T, int, error) {
	if db == nil {
		return nil, 0, errNoDB
	}
	where, args, err := s.where(q)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.GetContext(ctx, &total, db.Rebind("SELECT COUNT(*) FROM "+s.Table+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.Table, err)
	}

	rows := []T{}
	if total == 0 {
		return rows, 0, nil
	}

	page := q
	if page.PerPage < 1 {
		page.PerPage = query.DefaultPerPage
	}

	stmt := "SELECT " + s.Select + " FROM " + s.Table + where + s.orderBy(q) + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), page.PerPage, page.Offset())
	if err := db.SelectContext(ctx, &rows, db.Rebind(stmt), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.Table, err)
	}
	return rows, total, nil
}
