package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers recommendation step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &recommendSteps{tc: tc}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		steps.reset()
		return ctx, nil
	})

	ctx.Step(`^a device temperature of ([\d.]+)°F$`, steps.deviceTemperature)
	ctx.Step(`^the condition "([^"]*)" with severity (\d+)$`, steps.condition)
	ctx.Step(`^a "([^"]*)" product "([^"]*)" containing:$`, steps.product)
	ctx.Step(`^I request recommendations$`, steps.requestRecommendations)
	ctx.Step(`^the top product should be "([^"]*)"$`, steps.topProductShouldBe)
	ctx.Step(`^product "([^"]*)" should score ([\d.]+)$`, steps.productShouldScore)
	ctx.Step(`^product "([^"]*)" should warn "([^"]*)"$`, steps.productShouldWarn)
	ctx.Step(`^the response temperature should be ([\d.]+)°C$`, steps.temperatureCShouldBe)
}

type condition struct {
	Name     string `json:"name"`
	Severity int    `json:"severity"`
}

type compound struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type product struct {
	Name      string     `json:"name"`
	GrowStyle string     `json:"growStyle"`
	Compounds []compound `json:"compounds"`
}

type request struct {
	TemperatureF *float64    `json:"temperatureF"`
	Conditions   []condition `json:"conditions"`
	Products     []product   `json:"products"`
}

type result struct {
	ProductName string   `json:"productName"`
	Score       float64  `json:"score"`
	Warnings    []string `json:"warnings"`
}

type response struct {
	Results      []result `json:"results"`
	TemperatureC float64  `json:"temperatureC"`
}

type recommendSteps struct {
	tc   TestContext
	req  request
	resp *response
}

func (s *recommendSteps) reset() {
	s.req = request{}
	s.resp = nil
}

func (s *recommendSteps) deviceTemperature(_ context.Context, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	s.req.TemperatureF = &v
	return nil
}

func (s *recommendSteps) condition(_ context.Context, name string, severity int) error {
	s.req.Conditions = append(s.req.Conditions, condition{Name: name, Severity: severity})
	return nil
}

// product reads a two-column table of compound name and value.
func (s *recommendSteps) product(_ context.Context, growStyle, name string, table *godog.Table) error {
	p := product{Name: name, GrowStyle: growStyle}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("row %d: expected compound and value", i)
		}
		if i == 0 && row.Cells[0].Value == "compound" {
			continue
		}
		v, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		p.Compounds = append(p.Compounds, compound{Name: row.Cells[0].Value, Value: v})
	}
	s.req.Products = append(s.req.Products, p)
	return nil
}

func (s *recommendSteps) requestRecommendations(context.Context) error {
	if err := s.tc.POST("/api/v1/recommend", s.req); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		s.resp = nil
		return nil
	}
	var resp response
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &resp); err != nil {
		return fmt.Errorf("decode recommendation: %w", err)
	}
	s.resp = &resp
	return nil
}

func (s *recommendSteps) find(name string) (result, error) {
	if s.resp == nil {
		return result{}, fmt.Errorf("no successful recommendation response")
	}
	for _, r := range s.resp.Results {
		if r.ProductName == name {
			return r, nil
		}
	}
	return result{}, fmt.Errorf("product %q not in results", name)
}

func (s *recommendSteps) topProductShouldBe(_ context.Context, name string) error {
	if s.resp == nil || len(s.resp.Results) == 0 {
		return fmt.Errorf("no results")
	}
	if got := s.resp.Results[0].ProductName; got != name {
		return fmt.Errorf("expected top product %q, got %q", name, got)
	}
	return nil
}

func (s *recommendSteps) productShouldScore(_ context.Context, name, raw string) error {
	want, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	r, err := s.find(name)
	if err != nil {
		return err
	}
	if math.Abs(r.Score-want) > 1e-9 {
		return fmt.Errorf("product %q: expected score %v, got %v", name, want, r.Score)
	}
	return nil
}

func (s *recommendSteps) productShouldWarn(_ context.Context, name, warning string) error {
	r, err := s.find(name)
	if err != nil {
		return err
	}
	if !slices.Contains(r.Warnings, warning) {
		return fmt.Errorf("product %q: warning %q not in %v", name, warning, r.Warnings)
	}
	return nil
}

func (s *recommendSteps) temperatureCShouldBe(_ context.Context, raw string) error {
	want, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	if s.resp == nil {
		return fmt.Errorf("no successful recommendation response")
	}
	if s.resp.TemperatureC != want {
		return fmt.Errorf("expected %v°C, got %v°C", want, s.resp.TemperatureC)
	}
	return nil
}
