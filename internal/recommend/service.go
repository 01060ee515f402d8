// Package recommend scores a batch of products against a patient's
// conditions at one device temperature and ranks them.
//
// The service resolves every compound the request mentions in a single
// catalog snapshot, then scores products in parallel with the pure scoring
// pipeline. Audit delivery happens after the response is ready and never
// affects it.
package recommend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"greenforge/internal/recommend/metrics"
	"greenforge/internal/recommend/ports"
	"greenforge/internal/scoring"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/platform/audit"
	"greenforge/pkg/platform/units"
	"greenforge/pkg/requestcontext"
)

const (
	defaultWorkers     = 4
	defaultMaxProducts = 200
)

// Service runs recommendations.
type Service struct {
	catalog     ports.CatalogPort
	auditor     ports.AuditPort
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	workers     int
	maxProducts int
	options     scoring.Options
}

// Option configures a Service.
type Option func(*Service)

func WithAuditor(a ports.AuditPort) Option {
	return func(s *Service) { s.auditor = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithWorkers bounds how many products are scored concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxProducts bounds the products accepted per request.
func WithMaxProducts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxProducts = n
		}
	}
}

// WithUnknownPolicy sets how compounds missing from the catalog are scored.
func WithUnknownPolicy(p scoring.UnknownPolicy) Option {
	return func(s *Service) { s.options.UnknownPolicy = p }
}

// New builds a recommendation service.
func New(catalog ports.CatalogPort, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("compound catalog is required")
	}
	s := &Service{
		catalog:     catalog,
		logger:      slog.Default(),
		tracer:      otel.Tracer("greenforge/recommend"),
		workers:     defaultWorkers,
		maxProducts: defaultMaxProducts,
		options:     scoring.Options{UnknownPolicy: scoring.AssumeActive},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Recommend scores and ranks req.Products.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "recommend.Recommend", trace.WithAttributes(
		attribute.Float64("greenforge.temperature_f", req.TemperatureF),
		attribute.Int("greenforge.products", len(req.Products)),
		attribute.Int("greenforge.conditions", len(req.Conditions)),
	))
	defer span.End()

	resp, err := s.recommend(ctx, req)
	s.metrics.ObserveLatency(time.Since(start))
	if err != nil {
		code := string(dErrors.CodeInternal)
		if de, ok := dErrors.As(err); ok {
			code = string(de.Code)
		}
		s.metrics.IncFailure(code)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		return nil, err
	}

	s.emitAudit(ctx, resp)
	s.logger.InfoContext(ctx, "recommendation scored",
		"request_id", requestcontext.RequestID(ctx),
		"products", len(resp.Results),
		"conditions", len(req.Conditions),
		"temperature_f", req.TemperatureF,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func (s *Service) recommend(ctx context.Context, req Request) (*Response, error) {
	tempC, err := units.FahrenheitToCelsius(req.TemperatureF)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "temperatureF must be a finite number")
	}
	if !TemperatureInRange(req.TemperatureF) {
		return nil, dErrors.New(dErrors.CodeBadRequest, temperatureRangeMessage)
	}
	if len(req.Products) > s.maxProducts {
		return nil, dErrors.New(dErrors.CodeValidation, "too many products in one request")
	}

	var all []scoring.Compound
	for _, p := range req.Products {
		all = append(all, p.Compounds...)
	}
	snap, err := s.catalog.Snapshot(ctx, all)
	if err != nil {
		return nil, err
	}

	results := make([]scoring.Result, len(req.Products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range req.Products {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scoring.ScoreProduct(p, req.Conditions, req.TemperatureF, snap, s.options)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "recommendation cancelled")
	}
	scoring.Rank(results)

	s.metrics.ObserveProducts(len(results))
	for _, r := range results {
		s.metrics.ObserveScore(r.Score)
	}
	names := make([]string, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		names = append(names, c.Name)
		s.metrics.IncMode(string(scoring.ClassifyCondition(c.Name)))
	}

	return &Response{
		Results:            results,
		TemperatureF:       req.TemperatureF,
		TemperatureC:       tempC,
		ConditionsAnalyzed: names,
	}, nil
}

func (s *Service) emitAudit(ctx context.Context, resp *Response) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Action:       audit.ActionRecommendationScored,
		RequestID:    requestcontext.RequestID(ctx),
		Timestamp:    requestcontext.Now(ctx),
		TemperatureF: resp.TemperatureF,
		Conditions:   resp.ConditionsAnalyzed,
		ProductCount: len(resp.Results),
		ClientIP:     requestcontext.ClientIP(ctx),
		APIVersion:   requestcontext.APIVersion(ctx),
	}
	if len(resp.Results) > 0 {
		event.TopProduct = resp.Results[0].ProductName
		event.TopScore = resp.Results[0].Score
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit recommendation audit event",
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
