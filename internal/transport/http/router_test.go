package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenforge/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestRouter(health *HealthHandler) http.Handler {
	return NewRouter(Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Health:   health,
		Handlers: []RouteRegistrar{pingHandler{}},
	})
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "the HTTP router", func(t *testing.T) {
		r := newTestRouter(NewHealthHandler("embedded", nil))

		testutil.When(t, "calling a feature route under /api/v1", func(t *testing.T) {
			rr := testutil.Get(r, "/api/v1/ping")

			testutil.Then(t, "it is served with version and request ID headers", func(t *testing.T) {
				assert.Equal(t, http.StatusNoContent, rr.Code)
				assert.Equal(t, "v1", rr.Header().Get("X-API-Version"))
				assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			})
		})

		testutil.When(t, "calling the feature route without the prefix", func(t *testing.T) {
			rr := testutil.Get(r, "/ping")

			testutil.Then(t, "it is not found", func(t *testing.T) {
				assert.Equal(t, http.StatusNotFound, rr.Code)
			})
		})

		testutil.When(t, "calling the index", func(t *testing.T) {
			rr := testutil.Get(r, "/")

			testutil.Then(t, "it lists the recommend endpoint", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				body := testutil.UnmarshalResponse[indexResponse](t, rr)
				assert.Contains(t, body.Endpoints, "POST /api/v1/recommend")
			})
		})
	})
}

func TestHealth(t *testing.T) {
	ok := Check{Name: "catalog", Probe: func(context.Context) error { return nil }}
	down := Check{Name: "catalog", Probe: func(context.Context) error { return errors.New("connection refused") }}

	decode := func(t *testing.T, rr *httptest.ResponseRecorder) healthResponse {
		t.Helper()
		return *testutil.UnmarshalResponse[healthResponse](t, rr)
	}

	t.Run("healthy", func(t *testing.T) {
		rr := testutil.Get(newTestRouter(NewHealthHandler("postgres", func() bool { return false }, ok)), "/health")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "postgres", body.CatalogBackend)
		assert.Equal(t, "ok", body.Checks["catalog"])
	})

	t.Run("primary down while fallback serves", func(t *testing.T) {
		rr := testutil.Get(newTestRouter(NewHealthHandler("postgres", func() bool { return true }, down)), "/health")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "degraded", body.Status)
		assert.True(t, body.Fallback)
	})

	t.Run("primary down without fallback", func(t *testing.T) {
		rr := testutil.Get(newTestRouter(NewHealthHandler("postgres", nil, down)), "/health")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "unavailable", decode(t, rr).Status)
	})
}
