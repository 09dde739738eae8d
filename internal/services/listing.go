package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"facilities/internal/cache"
	"facilities/internal/domain"
	"facilities/internal/query"
)

// Listing is a list page plus the option lists its facet filters need.
type Listing[T any] struct {
	domain.Page[T]
	Departments []domain.Option `json:"departments,omitempty"`
	Roles       []domain.Option `json:"roles,omitempty"`
	Categories  []domain.Option `json:"categories,omitempty"`
}

// listing fetches one page and the facet lookups concurrently.
func listing[T any](ctx context.Context, b base, s query.Schema, q query.Query, fetch func(context.Context, query.Query) ([]T, int, error), facetKeys ...string) (Listing[T], error) {
	q = b.normalize(q, s)

	var (
		out    Listing[T]
		rows   []T
		total  int
		facets map[string][]domain.Option
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, total, err = fetch(gctx, q)
		return err
	})
	if len(facetKeys) > 0 {
		g.Go(func() error {
			var err error
			facets, err = b.facets(gctx, facetKeys...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	if rows == nil {
		rows = []T{}
	}
	out.Page = domain.Page[T]{Data: rows, PageCount: q.PageCount(total), Total: total}
	out.Departments = facets[cache.KeyDepartments]
	out.Roles = facets[cache.KeyRoles]
	out.Categories = facets[cache.KeyCategories]
	return out, nil
}
