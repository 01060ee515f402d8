package handler

import (
	"math"
	"strings"

	"greenforge/internal/recommend"
	"greenforge/internal/scoring"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/platform/units"
)

// ConditionRequest is one stated condition. Severity is decoded as a number
// so fractional input degrades to the nearest integer instead of failing.
type ConditionRequest struct {
	Name     string  `json:"name"`
	Severity float64 `json:"severity"`
}

// CompoundRequest is one measured compound. Type is an optional hint.
type CompoundRequest struct {
	Name  string  `json:"name"`
	Type  string  `json:"type,omitempty"`
	Value float64 `json:"value"`
}

// ProductRequest is one candidate product.
type ProductRequest struct {
	Name      string            `json:"name"`
	GrowStyle string            `json:"growStyle"`
	Compounds []CompoundRequest `json:"compounds"`
}

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	TemperatureF *float64           `json:"temperatureF"`
	Conditions   []ConditionRequest `json:"conditions"`
	Products     []ProductRequest   `json:"products"`
}

// Validate trims names and rejects requests the pipeline cannot score.
func (r *RecommendRequest) Validate() error {
	if r.TemperatureF == nil {
		return dErrors.New(dErrors.CodeValidation, "temperatureF is required")
	}
	if !units.IsFinite(*r.TemperatureF) {
		return dErrors.New(dErrors.CodeValidation, "temperatureF must be a finite number")
	}
	if !recommend.TemperatureInRange(*r.TemperatureF) {
		return dErrors.New(dErrors.CodeValidation, recommend.TemperatureRangeMessage())
	}
	for i := range r.Conditions {
		r.Conditions[i].Name = strings.TrimSpace(r.Conditions[i].Name)
		if r.Conditions[i].Name == "" {
			return dErrors.New(dErrors.CodeValidation, "condition name is required")
		}
	}
	for i := range r.Products {
		p := &r.Products[i]
		p.Name = strings.TrimSpace(p.Name)
		p.GrowStyle = strings.TrimSpace(p.GrowStyle)
		if p.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "product name is required")
		}
		for j := range p.Compounds {
			c := &p.Compounds[j]
			c.Name = strings.TrimSpace(c.Name)
			if c.Name == "" {
				return dErrors.New(dErrors.CodeValidation, "compound name is required")
			}
			if c.Type != "" {
				if _, ok := scoring.ParseCompoundType(c.Type); !ok {
					return dErrors.New(dErrors.CodeValidation, "unknown compound type "+c.Type)
				}
			}
		}
	}
	return nil
}

// ToRequest converts a validated body into the service request.
func (r *RecommendRequest) ToRequest() recommend.Request {
	req := recommend.Request{
		TemperatureF: *r.TemperatureF,
		Conditions:   make([]scoring.Condition, 0, len(r.Conditions)),
		Products:     make([]scoring.Product, 0, len(r.Products)),
	}
	for _, c := range r.Conditions {
		req.Conditions = append(req.Conditions, scoring.Condition{
			Name:     c.Name,
			Severity: int(math.Round(c.Severity)),
		})
	}
	for _, p := range r.Products {
		product := scoring.Product{
			Name:      p.Name,
			GrowStyle: p.GrowStyle,
			Compounds: make([]scoring.Compound, 0, len(p.Compounds)),
		}
		for _, c := range p.Compounds {
			typ, _ := scoring.ParseCompoundType(c.Type)
			product.Compounds = append(product.Compounds, scoring.Compound{Name: c.Name, Type: typ, Value: c.Value})
		}
		req.Products = append(req.Products, product)
	}
	return req
}
