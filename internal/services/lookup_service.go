package services

import (
	"context"
	"slices"

	"facilities/internal/domain"
)

// LookupService serves the cached option lists behind comboboxes and facet filters.
type LookupService struct {
	base
}

func (s LookupService) Keys() []string {
	keys := make([]string, 0, len(s.Loaders))
	for k := range s.Loaders {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s LookupService) Get(ctx context.Context, key string) ([]domain.Option, error) {
	if _, ok := s.Loaders[key]; !ok {
		return nil, domain.NotFoundError{Resource: "lookup", ID: key}
	}
	return s.lookup(ctx, key)
}

// Invalidate drops cached lists; no keys drops everything.
func (s LookupService) Invalidate(keys ...string) {
	if s.Lookups == nil {
		return
	}
	if len(keys) == 0 {
		s.Lookups.Purge()
		return
	}
	s.Lookups.Invalidate(keys...)
}
