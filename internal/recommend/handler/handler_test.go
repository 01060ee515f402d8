package handler

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

	"greenforge/internal/recommend"
	"greenforge/internal/scoring"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/testutil"
)

type stubService struct {
	got  recommend.Request
	resp *recommend.Response
	err  error
}

func (s *stubService) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	s.got = req
	return s.resp, s.err
}

func newRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func post(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/recommend", body))
}

func TestHandleRecommend(t *testing.T) {
	t.Run("maps the request and renders ranked results", func(t *testing.T) {
		bp := 334.4
		svc := &stubService{resp: &recommend.Response{
			TemperatureF:       365,
			TemperatureC:       185,
			ConditionsAnalyzed: []string{"Anxiety"},
			Results: []scoring.Result{{
				ProductName: "Y",
				GrowStyle:   "sun_grown",
				Score:       42.5,
				Breakdown: map[string]scoring.Breakdown{
					"Anxiety": {Mode: scoring.ModeAnxiety, Score: 42.5, BaseScore: 50},
				},
				ThermalDetails: map[string]scoring.ThermalDetail{
					"Myrcene": {Status: scoring.StatusFullyActive, BoilingPointF: &bp, Availability: 0.98765},
				},
				SafetyZone:         scoring.SafetyZone{Zone: "B - Medical/Entourage", Risk: "Low"},
				CompoundsAvailable: 1,
				CompoundsTotal:     1,
			}},
		}}
		body := `{"temperatureF":365,
			"conditions":[{"name":" Anxiety ","severity":7.6}],
			"products":[{"name":"Y","growStyle":"sun_grown","compounds":[
				{"name":"Myrcene","value":1.5,"type":"Terpene"},
				{"name":"Mystery","value":0.2}]}]}`

		rr := post(t, newRouter(svc), body)
		require.Equal(t, http.StatusOK, rr.Code)

		assert.Equal(t, 365.0, svc.got.TemperatureF)
		require.Len(t, svc.got.Conditions, 1)
		assert.Equal(t, scoring.Condition{Name: "Anxiety", Severity: 8}, svc.got.Conditions[0])
		require.Len(t, svc.got.Products, 1)
		assert.Equal(t, scoring.TypeTerpene, svc.got.Products[0].Compounds[0].Type)
		assert.Equal(t, scoring.TypeUnknown, svc.got.Products[0].Compounds[1].Type)

		out := testutil.UnmarshalResponse[RecommendResponse](t, rr)
		assert.Equal(t, 185.0, out.TemperatureC)
		assert.Equal(t, []string{"Anxiety"}, out.ConditionsAnalyzed)
		require.Len(t, out.Results, 1)
		res := out.Results[0]
		assert.Equal(t, "Y", res.ProductName)
		assert.Equal(t, 42.5, res.Score)
		assert.NotNil(t, res.Warnings)
		assert.Equal(t, "anxiety", res.Breakdown["Anxiety"].Mode)
		assert.Equal(t, "fully_active", res.ThermalDetails["Myrcene"].Status)
		assert.Equal(t, 0.99, res.ThermalDetails["Myrcene"].Availability)
	})

	t.Run("missing temperature is rejected before scoring", func(t *testing.T) {
		svc := &stubService{}
		rr := post(t, newRouter(svc), `{"conditions":[],"products":[]}`)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		assert.Zero(t, svc.got.TemperatureF)
	})

	t.Run("out of range temperature is rejected before scoring", func(t *testing.T) {
		for _, temp := range []string{"1e308", "-1e308", "-500", "1000.5"} {
			svc := &stubService{}
			rr := post(t, newRouter(svc), `{"temperatureF":`+temp+`,"conditions":[],"products":[]}`)
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			assert.Zero(t, svc.got.TemperatureF, temp)
		}
	})

	t.Run("invalid JSON is a bad request", func(t *testing.T) {
		rr := post(t, newRouter(&stubService{}), `{"temperatureF":`)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("unknown compound type hint is rejected", func(t *testing.T) {
		body := `{"temperatureF":365,"products":[{"name":"P","compounds":[{"name":"THC","value":1,"type":"resin"}]}]}`
		rr := post(t, newRouter(&stubService{}), body)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("blank condition name is rejected", func(t *testing.T) {
		rr := post(t, newRouter(&stubService{}), `{"temperatureF":365,"conditions":[{"name":"  ","severity":5}]}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service errors map to status codes", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{dErrors.New(dErrors.CodeValidation, "too many products in one request"), http.StatusBadRequest},
			{dErrors.New(dErrors.CodeUnavailable, "compound catalog unavailable"), http.StatusServiceUnavailable},
			{errors.New("boom"), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			rr := post(t, newRouter(&stubService{err: tc.err}), `{"temperatureF":365}`)
			assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		}
	})
}

func TestHandleZones(t *testing.T) {
	rr := testutil.Get(newRouter(&stubService{}), "/thermal-zones")
	require.Equal(t, http.StatusOK, rr.Code)

	out := testutil.UnmarshalResponse[ZonesResponse](t, rr)
	require.Len(t, out.Zones, 5)
	assert.Equal(t, "A - Flavor/Cerebral", out.Zones[0].Name)
	assert.Equal(t, "E - Combustion/Destructive", out.Zones[4].Name)
	assert.NotEmpty(t, out.Zones[0].Range)
}
