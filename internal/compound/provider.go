// Package compound resolves compound names against the reference catalog and
// hands the scoring pipeline a request-scoped snapshot in Fahrenheit.
package compound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/platform/circuit"
	"greenforge/pkg/platform/sentinel"
	"greenforge/pkg/platform/units"
)

const cacheConcurrency = 8

// Store is the persistence port for catalog rows.
type Store interface {
	FindByName(ctx context.Context, name string) ([]models.Compound, error)
	FindByNames(ctx context.Context, names []string) ([]models.Compound, error)
	List(ctx context.Context) ([]models.Compound, error)
}

// Cache holds catalog rows per name. A hit with an empty slice means the name
// is known to be missing from the catalog.
type Cache interface {
	Get(ctx context.Context, name string) ([]models.Compound, bool, error)
	Set(ctx context.Context, name string, rows []models.Compound) error
}

// Metrics is the subset of catalog metrics the provider records.
type Metrics interface {
	IncCacheHit()
	IncCacheMiss()
	IncCacheError()
	ObserveLookup(start time.Time)
	IncFallback()
	AddUnknown(n int)
	SetBreakerOpen(open bool)
}

// Provider reads the catalog through an optional cache. When the primary
// store keeps failing the breaker opens and reads go to the fallback store
// until the primary recovers.
type Provider struct {
	primary  Store
	fallback Store
	cache    Cache
	breaker  *circuit.Breaker
	metrics  Metrics
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

func WithFallback(s Store) Option {
	return func(p *Provider) { p.fallback = s }
}

func WithCache(c Cache) Option {
	return func(p *Provider) { p.cache = c }
}

func WithMetrics(m Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Provider) { p.breaker = b }
}

// New builds a Provider over primary.
func New(primary Store, opts ...Option) (*Provider, error) {
	if primary == nil {
		return nil, errors.New("primary compound store is required")
	}
	p := &Provider{primary: primary}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.breaker == nil {
		p.breaker = circuit.New("compound-catalog")
	}
	if p.metrics == nil {
		p.metrics = noopMetrics{}
	}
	return p, nil
}

// Snapshot resolves every distinct compound name in compounds. The first
// type hint seen for a name selects the catalog row when the name exists
// under several types. Names missing from the catalog are absent from the
// snapshot, and so are rows whose boiling point cannot be converted.
func (p *Provider) Snapshot(ctx context.Context, compounds []scoring.Compound) (scoring.Snapshot, error) {
	keys, defaults, hinted := distinctNames(compounds)
	snap := make(scoring.Snapshot, len(keys))
	if len(keys) == 0 {
		return snap, nil
	}

	found := p.readCache(ctx, keys)

	var misses []string
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			misses = append(misses, k)
		}
	}

	if len(misses) > 0 {
		start := time.Now()
		rows, err := readStore(ctx, p, "find compounds", func(s Store) ([]models.Compound, error) {
			return s.FindByNames(ctx, misses)
		})
		p.metrics.ObserveLookup(start)
		if err != nil {
			return nil, err
		}
		grouped := make(map[string][]models.Compound, len(misses))
		for _, r := range rows {
			k := scoring.CatalogKey(r.Name)
			grouped[k] = append(grouped[k], r)
		}
		for _, k := range misses {
			found[k] = grouped[k]
			p.writeCache(ctx, k, grouped[k])
		}
	}

	unknown := 0
	for _, k := range keys {
		row, ok := models.Select(found[k], defaults[k])
		if !ok {
			unknown++
			continue
		}
		rec, err := toPhysical(row)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping unusable catalog row", "compound", row.Name, "error", err)
			unknown++
			continue
		}
		snap.Put(rec)
		p.putTyped(ctx, snap, found[k], hinted[k])
	}
	p.metrics.AddUnknown(unknown)
	return snap, nil
}

// Lookup resolves a single compound. It returns sentinel.ErrNotFound when
// the catalog has no row for name.
func (p *Provider) Lookup(ctx context.Context, name string, hint scoring.CompoundType) (scoring.PhysicalRecord, error) {
	snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: name, Type: hint}})
	if err != nil {
		return scoring.PhysicalRecord{}, err
	}
	rec, ok := snap.Lookup(name, hint)
	if !ok {
		return scoring.PhysicalRecord{}, sentinel.ErrNotFound
	}
	return rec, nil
}

// List returns every catalog row.
func (p *Provider) List(ctx context.Context) ([]models.Compound, error) {
	return readStore(ctx, p, "list compounds", func(s Store) ([]models.Compound, error) {
		return s.List(ctx)
	})
}

// Health reports whether the primary store is reachable.
func (p *Provider) Health(ctx context.Context) error {
	if h, ok := p.primary.(interface{ Health(context.Context) error }); ok {
		return h.Health(ctx)
	}
	return nil
}

// Degraded reports whether reads are currently served by the fallback.
func (p *Provider) Degraded() bool {
	return p.breaker.IsOpen()
}

type noopMetrics struct{}

func (noopMetrics) IncCacheHit()            {}
func (noopMetrics) IncCacheMiss()           {}
func (noopMetrics) IncCacheError()          {}
func (noopMetrics) ObserveLookup(time.Time) {}
func (noopMetrics) IncFallback()            {}
func (noopMetrics) AddUnknown(int)          {}
func (noopMetrics) SetBreakerOpen(bool)     {}

func readStore[T any](ctx context.Context, p *Provider, op string, fn func(Store) (T, error)) (T, error) {
	result, err := fn(p.primary)
	if err != nil {
		if ctx.Err() != nil {
			var zero T
			return zero, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "compound lookup cancelled")
		}
		useFallback, change := p.breaker.RecordFailure()
		p.noteChange(change)
		p.logger.WarnContext(ctx, "compound store failed",
			"op", op,
			"breaker", p.breaker.State().String(),
			"error", err,
		)
		if useFallback && p.fallback != nil {
			p.metrics.IncFallback()
			return fn(p.fallback)
		}
		var zero T
		return zero, dErrors.Wrap(err, dErrors.CodeUnavailable, "compound catalog unavailable")
	}

	usePrimary, change := p.breaker.RecordSuccess()
	p.noteChange(change)
	if !usePrimary && p.fallback != nil {
		p.metrics.IncFallback()
		return fn(p.fallback)
	}
	return result, nil
}

func (p *Provider) noteChange(change circuit.StateChange) {
	switch {
	case change.Opened:
		p.logger.Warn("compound store breaker opened, serving embedded catalog", "breaker", p.breaker.Name())
		p.metrics.SetBreakerOpen(true)
	case change.Closed:
		p.logger.Info("compound store breaker closed", "breaker", p.breaker.Name())
		p.metrics.SetBreakerOpen(false)
	}
}

func (p *Provider) readCache(ctx context.Context, keys []string) map[string][]models.Compound {
	found := make(map[string][]models.Compound, len(keys))
	if p.cache == nil {
		return found
	}

	type hit struct {
		rows []models.Compound
		ok   bool
	}
	hits := make([]hit, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cacheConcurrency)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			rows, ok, err := p.cache.Get(gctx, k)
			if err != nil {
				p.metrics.IncCacheError()
				p.logger.DebugContext(gctx, "compound cache read failed", "compound", k, "error", err)
				return nil
			}
			hits[i] = hit{rows: rows, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	for i, k := range keys {
		if hits[i].ok {
			p.metrics.IncCacheHit()
			found[k] = hits[i].rows
		} else {
			p.metrics.IncCacheMiss()
		}
	}
	return found
}

func (p *Provider) writeCache(ctx context.Context, key string, rows []models.Compound) {
	if p.cache == nil {
		return
	}
	if rows == nil {
		rows = []models.Compound{}
	}
	if err := p.cache.Set(ctx, key, rows); err != nil {
		p.metrics.IncCacheError()
		p.logger.DebugContext(ctx, "compound cache write failed", "compound", key, "error", err)
	}
}

// putTyped adds a row per hinted type that has an exact catalog match, so a
// product's own hint selects its row even when another product hinted first.
func (p *Provider) putTyped(ctx context.Context, snap scoring.Snapshot, rows []models.Compound, hints []scoring.CompoundType) {
	for _, h := range hints {
		for _, r := range rows {
			if r.Type != h {
				continue
			}
			rec, err := toPhysical(r)
			if err != nil {
				p.logger.WarnContext(ctx, "skipping unusable catalog row", "compound", r.Name, "error", err)
				break
			}
			snap.PutTyped(rec)
			break
		}
	}
}

// distinctNames returns catalog keys in first-seen order, the hint that
// picks each key's default row (the first non-empty one), and every distinct
// non-empty hint given for the key.
func distinctNames(compounds []scoring.Compound) ([]string, map[string]scoring.CompoundType, map[string][]scoring.CompoundType) {
	defaults := make(map[string]scoring.CompoundType, len(compounds))
	hinted := make(map[string][]scoring.CompoundType)
	var keys []string
	for _, c := range compounds {
		k := scoring.CatalogKey(c.Name)
		if k == "" {
			continue
		}
		cur, seen := defaults[k]
		if !seen {
			keys = append(keys, k)
		}
		if !seen || cur == scoring.TypeUnknown {
			defaults[k] = c.Type
		}
		if c.Type != scoring.TypeUnknown && !slices.Contains(hinted[k], c.Type) {
			hinted[k] = append(hinted[k], c.Type)
		}
	}
	return keys, defaults, hinted
}

// toPhysical converts a catalog row into the Fahrenheit view the pipeline
// scores against.
func toPhysical(row models.Compound) (scoring.PhysicalRecord, error) {
	rec := scoring.PhysicalRecord{
		Name:              row.Name,
		Type:              row.Type,
		SynergyMultiplier: row.SynergyMultiplier,
		EfficacyWeight:    row.EfficacyWeight,
	}
	if row.BoilingPoint == nil {
		return rec, nil
	}
	bp := *row.BoilingPoint
	if row.Unit == models.Fahrenheit {
		if !units.IsFinite(bp) {
			return rec, fmt.Errorf("compound %q boiling point: %w", row.Name, sentinel.ErrInvalidState)
		}
		f := units.Round(bp, 1)
		rec.BoilingPointF = &f
		return rec, nil
	}
	f, err := units.CelsiusToFahrenheit(bp)
	if err != nil {
		return rec, fmt.Errorf("compound %q boiling point: %w: %w", row.Name, sentinel.ErrInvalidState, err)
	}
	rec.BoilingPointF = &f
	return rec, nil
}
