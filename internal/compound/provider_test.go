package compound

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"greenforge/internal/compound/mocks"
	"greenforge/internal/compound/models"
	"greenforge/internal/compound/store"
	"greenforge/internal/scoring"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/platform/circuit"
	"greenforge/pkg/platform/sentinel"
)

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Store,Cache

// =============================================================================
// Provider Test Suite
// =============================================================================
// Justification: the provider is the only place catalog rows are converted to
// Fahrenheit and the only place cache and breaker policy is applied. Tests pin
// unit conversion, type selection, cache write-through and fallback behavior.

type ProviderSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	primary *mocks.MockStore
	cache   *mocks.MockCache
	logger  *slog.Logger
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = mocks.NewMockStore(s.ctrl)
	s.cache = mocks.NewMockCache(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ProviderSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ProviderSuite) newProvider(opts ...Option) *Provider {
	p, err := New(s.primary, append([]Option{WithLogger(s.logger)}, opts...)...)
	s.Require().NoError(err)
	return p
}

func celsius(name string, typ scoring.CompoundType, bp float64) models.Compound {
	return models.Compound{Name: name, Type: typ, BoilingPoint: &bp, Unit: models.Celsius}
}

func (s *ProviderSuite) TestNew() {
	s.Run("nil primary store returns error", func() {
		_, err := New(nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "primary compound store is required")
	})

	s.Run("options are applied", func() {
		b := circuit.New("custom")
		p, err := New(s.primary, WithCache(s.cache), WithBreaker(b), WithLogger(s.logger))
		s.Require().NoError(err)
		s.Equal(s.cache, p.cache)
		s.Same(b, p.breaker)
		s.Equal(s.logger, p.logger)
	})
}

func (s *ProviderSuite) TestSnapshot() {
	ctx := context.Background()

	s.Run("converts Celsius rows to Fahrenheit", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), []string{"THC"}).
			Return([]models.Compound{celsius("THC", scoring.TypeCannabinoid, 157)}, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "thc", Value: 20}, {Name: "THC", Value: 3}})
		s.Require().NoError(err)
		rec, ok := snap.Lookup("THC", scoring.TypeUnknown)
		s.Require().True(ok)
		s.Require().NotNil(rec.BoilingPointF)
		s.InDelta(314.6, *rec.BoilingPointF, 1e-9)
		s.Equal(scoring.TypeCannabinoid, rec.Type)
	})

	s.Run("Fahrenheit rows pass through", func() {
		p := s.newProvider()
		bp := 388.4
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).
			Return([]models.Compound{{Name: "Linalool", Type: scoring.TypeTerpene, BoilingPoint: &bp, Unit: models.Fahrenheit}}, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Linalool"}})
		s.Require().NoError(err)
		rec, _ := snap.Lookup("linalool", scoring.TypeUnknown)
		s.InDelta(388.4, *rec.BoilingPointF, 1e-9)
	})

	s.Run("type hint selects between rows sharing a name", func() {
		rows := []models.Compound{
			celsius("Dual", scoring.TypeFlavonoid, 200),
			celsius("Dual", scoring.TypeCannabinoid, 100),
		}

		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(rows, nil)
		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Dual"}, {Name: "Dual", Type: scoring.TypeFlavonoid}})
		s.Require().NoError(err)
		rec, _ := snap.Lookup("Dual", scoring.TypeUnknown)
		s.Equal(scoring.TypeFlavonoid, rec.Type)

		p = s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(rows, nil)
		snap, err = p.Snapshot(ctx, []scoring.Compound{{Name: "Dual"}})
		s.Require().NoError(err)
		rec, _ = snap.Lookup("Dual", scoring.TypeUnknown)
		s.Equal(scoring.TypeCannabinoid, rec.Type)
	})

	s.Run("each product's hint selects its own row", func() {
		rows := []models.Compound{
			celsius("Dual", scoring.TypeFlavonoid, 200),
			celsius("Dual", scoring.TypeCannabinoid, 100),
		}
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), []string{"DUAL"}).Return(rows, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{
			{Name: "Dual", Type: scoring.TypeFlavonoid},
			{Name: "dual", Type: scoring.TypeCannabinoid},
			{Name: "Dual", Type: scoring.TypeTerpene},
		})
		s.Require().NoError(err)

		rec, ok := snap.Lookup("Dual", scoring.TypeCannabinoid)
		s.Require().True(ok)
		s.Equal(scoring.TypeCannabinoid, rec.Type)
		s.InDelta(212.0, *rec.BoilingPointF, 1e-9)

		rec, _ = snap.Lookup("Dual", scoring.TypeFlavonoid)
		s.Equal(scoring.TypeFlavonoid, rec.Type)

		rec, ok = snap.Lookup("Dual", scoring.TypeTerpene)
		s.Require().True(ok)
		s.Equal(scoring.TypeFlavonoid, rec.Type, "no terpene row, so the default row answers")
	})

	s.Run("missing names are absent", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Unobtainium"}})
		s.Require().NoError(err)
		_, ok := snap.Lookup("Unobtainium", scoring.TypeUnknown)
		s.False(ok)
	})

	s.Run("nil boiling point stays nil", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).
			Return([]models.Compound{{Name: "Kaempferol", Type: scoring.TypeFlavonoid, Unit: models.Celsius}}, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Kaempferol"}})
		s.Require().NoError(err)
		rec, ok := snap.Lookup("Kaempferol", scoring.TypeUnknown)
		s.True(ok)
		s.Nil(rec.BoilingPointF)
	})

	s.Run("non-finite boiling point drops only that compound", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).
			Return([]models.Compound{
				celsius("Broken", scoring.TypeTerpene, math.NaN()),
				celsius("Linalool", scoring.TypeTerpene, 198),
			}, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Broken"}, {Name: "Linalool"}})
		s.Require().NoError(err)
		_, ok := snap.Lookup("Broken", scoring.TypeUnknown)
		s.False(ok)
		_, ok = snap.Lookup("Linalool", scoring.TypeUnknown)
		s.True(ok)
	})

	s.Run("no compounds means no store call", func() {
		p := s.newProvider()
		snap, err := p.Snapshot(ctx, nil)
		s.Require().NoError(err)
		s.Empty(snap)
	})
}

func (s *ProviderSuite) TestSnapshotCache() {
	ctx := context.Background()

	s.Run("cache hits skip the store", func() {
		p := s.newProvider(WithCache(s.cache))
		s.cache.EXPECT().Get(gomock.Any(), "THC").
			Return([]models.Compound{celsius("THC", scoring.TypeCannabinoid, 157)}, true, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "THC"}})
		s.Require().NoError(err)
		_, ok := snap.Lookup("THC", scoring.TypeUnknown)
		s.True(ok)
	})

	s.Run("misses are fetched in one batch and written back", func() {
		p := s.newProvider(WithCache(s.cache))
		s.cache.EXPECT().Get(gomock.Any(), "THC").Return(nil, false, nil)
		s.cache.EXPECT().Get(gomock.Any(), "MYSTERY").Return(nil, false, nil)
		thc := celsius("THC", scoring.TypeCannabinoid, 157)
		s.primary.EXPECT().FindByNames(gomock.Any(), []string{"THC", "MYSTERY"}).
			Return([]models.Compound{thc}, nil)
		s.cache.EXPECT().Set(gomock.Any(), "THC", []models.Compound{thc}).Return(nil)
		s.cache.EXPECT().Set(gomock.Any(), "MYSTERY", []models.Compound{}).Return(nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "THC"}, {Name: "Mystery"}})
		s.Require().NoError(err)
		s.Len(snap, 1)
	})

	s.Run("cached negative entry is unknown", func() {
		p := s.newProvider(WithCache(s.cache))
		s.cache.EXPECT().Get(gomock.Any(), "MYSTERY").Return([]models.Compound{}, true, nil)

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "Mystery"}})
		s.Require().NoError(err)
		s.Empty(snap)
	})

	s.Run("cache failures fall through to the store", func() {
		p := s.newProvider(WithCache(s.cache))
		s.cache.EXPECT().Get(gomock.Any(), "THC").Return(nil, false, errors.New("connection refused"))
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).
			Return([]models.Compound{celsius("THC", scoring.TypeCannabinoid, 157)}, nil)
		s.cache.EXPECT().Set(gomock.Any(), "THC", gomock.Any()).Return(errors.New("connection refused"))

		snap, err := p.Snapshot(ctx, []scoring.Compound{{Name: "THC"}})
		s.Require().NoError(err)
		s.Len(snap, 1)
	})
}

func (s *ProviderSuite) TestFallback() {
	ctx := context.Background()
	embedded, err := store.NewDefaultStore()
	s.Require().NoError(err)
	storeErr := errors.New("connection reset")

	s.Run("failure without fallback is unavailable", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, storeErr)

		_, err := p.Snapshot(ctx, []scoring.Compound{{Name: "THC"}})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	})

	s.Run("failure below threshold is unavailable even with fallback", func() {
		p := s.newProvider(WithFallback(embedded))
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, storeErr)

		_, err := p.Snapshot(ctx, []scoring.Compound{{Name: "THC"}})
		s.True(dErrors.Is(err, dErrors.CodeUnavailable))
		s.False(p.Degraded())
	})

	s.Run("open breaker serves the fallback until the primary recovers", func() {
		b := circuit.New("compound-catalog", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(2))
		p := s.newProvider(WithFallback(embedded), WithBreaker(b))
		input := []scoring.Compound{{Name: "THC"}}

		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, storeErr)
		snap, err := p.Snapshot(ctx, input)
		s.Require().NoError(err)
		rec, ok := snap.Lookup("THC", scoring.TypeUnknown)
		s.Require().True(ok)
		s.InDelta(314.6, *rec.BoilingPointF, 1e-9)
		s.True(p.Degraded())

		// primary answers but the breaker needs two successes to close
		bogus := celsius("THC", scoring.TypeCannabinoid, 100)
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return([]models.Compound{bogus}, nil).Times(2)

		snap, err = p.Snapshot(ctx, input)
		s.Require().NoError(err)
		rec, _ = snap.Lookup("THC", scoring.TypeUnknown)
		s.InDelta(314.6, *rec.BoilingPointF, 1e-9)

		snap, err = p.Snapshot(ctx, input)
		s.Require().NoError(err)
		rec, _ = snap.Lookup("THC", scoring.TypeUnknown)
		s.InDelta(212.0, *rec.BoilingPointF, 1e-9)
		s.False(p.Degraded())
	})

	s.Run("cancelled context is a timeout", func() {
		p := s.newProvider()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, context.Canceled)

		_, err := p.Snapshot(cctx, []scoring.Compound{{Name: "THC"}})
		s.True(dErrors.Is(err, dErrors.CodeTimeout))
	})
}

func (s *ProviderSuite) TestLookup() {
	ctx := context.Background()

	s.Run("unknown name is not found", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := p.Lookup(ctx, "Unobtainium", scoring.TypeUnknown)
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})

	s.Run("known name resolves", func() {
		p := s.newProvider()
		s.primary.EXPECT().FindByNames(gomock.Any(), gomock.Any()).
			Return([]models.Compound{celsius("CBD", scoring.TypeCannabinoid, 180)}, nil)

		rec, err := p.Lookup(ctx, "cbd", scoring.TypeUnknown)
		s.Require().NoError(err)
		s.InDelta(356.0, *rec.BoilingPointF, 1e-9)
	})
}

func (s *ProviderSuite) TestList() {
	rows := []models.Compound{celsius("THC", scoring.TypeCannabinoid, 157)}
	p := s.newProvider()
	s.primary.EXPECT().List(gomock.Any()).Return(rows, nil)

	got, err := p.List(context.Background())
	s.Require().NoError(err)
	s.Equal(rows, got)
}
