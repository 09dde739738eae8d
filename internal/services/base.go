package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"facilities/internal/cache"
	"facilities/internal/domain"
	"facilities/internal/query"
	"facilities/internal/revalidate"
	"facilities/internal/utils"
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "facilities",
	Name:      "mutations_total",
	Help:      "Total number of mutations broken down by entity, action and result.",
}, []string{"entity", "action", "result"})

func recordMutation(entity, action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case domain.IsValidation(err):
		result = "invalid"
	case domain.IsNotFound(err):
		result = "not_found"
	case domain.IsConflict(err):
		result = "conflict"
	default:
		result = "error"
	}
	mutationsTotal.WithLabelValues(entity, action, result).Inc()
}

// Limits bound list page sizes.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// entity names one resource for messages, metrics and revalidation.
type entity struct {
	Key      string
	Singular string
	Plural   string
	Path     string
	// Invalidates lists the lookup cache keys a mutation makes stale.
	Invalidates []string
}

func (e entity) count(n int) string {
	if n == 1 {
		return "1 " + e.Singular
	}
	return fmt.Sprintf("%d %s", n, e.Plural)
}

func (e entity) title() string {
	if e.Singular == "" {
		return ""
	}
	return strings.ToUpper(e.Singular[:1]) + e.Singular[1:]
}

// base carries what every entity service shares.
type base struct {
	Hub     *revalidate.Hub
	Lookups *cache.Lookups
	Loaders map[string]cache.Loader
	Limits  Limits
}

func (b base) schema(s query.Schema) query.Schema {
	if b.Limits.DefaultPerPage > 0 && b.Limits.MaxPerPage > 0 {
		return s.WithLimits(b.Limits.DefaultPerPage, b.Limits.MaxPerPage)
	}
	return s
}

// normalize clamps page and perPage of a query built outside the codec.
func (b base) normalize(q query.Query, s query.Schema) query.Query {
	s = b.schema(s)
	q.Page = query.ClampPage(q.Page)
	if q.PerPage == 0 {
		q.PerPage = query.Defaults(s).PerPage
	}
	q.PerPage = s.ClampPerPage(q.PerPage)
	if len(q.Sort) == 0 {
		q.Sort = query.Defaults(s).Sort
	}
	return q
}

// done publishes path, drops stale lookups and builds the result message.
func (b base) done(e entity, path, message string, ids []string, count int) domain.MutationResult {
	path = strings.TrimSpace(path)
	if path == "" {
		path = e.Path
	}
	if b.Lookups != nil && len(e.Invalidates) > 0 {
		b.Lookups.Invalidate(e.Invalidates...)
	}
	b.Hub.Publish(path)
	return domain.MutationResult{Message: message, Path: path, IDs: ids, Count: count}
}

func (b base) created(e entity, path, id string) domain.MutationResult {
	return b.done(e, path, e.title()+" created", []string{id}, 1)
}

func (b base) updated(e entity, path, id string) domain.MutationResult {
	return b.done(e, path, e.title()+" updated", []string{id}, 1)
}

func (b base) deleted(e entity, path string, ids []string, n int) domain.MutationResult {
	return b.done(e, path, e.count(n)+" deleted", ids, n)
}

func (b base) statusSet(e entity, path string, ids []string, status string) domain.MutationResult {
	return b.done(e, path, fmt.Sprintf("Status of %s set to %s", e.count(len(ids)), status), ids, len(ids))
}

type requestIDKey struct{}

// WithRequestID tags ctx so service logs carry the HTTP request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type actorKey struct{}

// WithActor attaches the authenticated caller; mutation logs record who acted.
func WithActor(ctx context.Context, rc domain.RequestContext) context.Context {
	return context.WithValue(ctx, actorKey{}, rc)
}

func actor(ctx context.Context) domain.RequestContext {
	rc, _ := ctx.Value(actorKey{}).(domain.RequestContext)
	return rc
}

// logIDs records a batch mutation over ids.
func (b base) logIDs(ctx context.Context, e entity, action string, ids []string) {
	b.log(ctx, e, action, "ids="+strings.Join(ids, ","))
}

func (b base) log(ctx context.Context, e entity, action, message string) {
	rc := actor(ctx)
	utils.LogEvent(requestID(ctx), e.Key, action, message, utils.Actor(rc.UserID, rc.Role))
}

// lookup returns the cached options for key.
func (b base) lookup(ctx context.Context, key string) ([]domain.Option, error) {
	load, ok := b.Loaders[key]
	if !ok {
		return nil, fmt.Errorf("unknown lookup %q", key)
	}
	if b.Lookups == nil {
		return load(ctx)
	}
	return b.Lookups.Get(ctx, key, load)
}

// facets loads several lookups concurrently.
func (b base) facets(ctx context.Context, keys ...string) (map[string][]domain.Option, error) {
	out := make([][]domain.Option, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			opts, err := b.lookup(gctx, key)
			if err != nil {
				return err
			}
			out[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	m := make(map[string][]domain.Option, len(keys))
	for i, key := range keys {
		m[key] = out[i]
	}
	return m, nil
}
