package handler

import (
	"greenforge/internal/compound/models"
	"greenforge/pkg/platform/units"
)

// CompoundResponse describes one catalog row with its boiling point in both
// scales.
type CompoundResponse struct {
	Name              string   `json:"name"`
	BoilingPointF     *float64 `json:"boilingPointF"`
	BoilingPointC     *float64 `json:"boilingPointC"`
	SynergyMultiplier *float64 `json:"synergyMultiplier,omitempty"`
	EfficacyWeight    *float64 `json:"efficacyWeight,omitempty"`
	Benefit           string   `json:"benefit,omitempty"`
}

// ListResponse groups the catalog by compound type.
type ListResponse struct {
	Compounds map[string][]CompoundResponse `json:"compounds"`
	Count     int                           `json:"count"`
}

// FromCompounds builds the grouped listing. Rows whose boiling point cannot
// be converted are listed without one.
func FromCompounds(rows []models.Compound) ListResponse {
	resp := ListResponse{Compounds: make(map[string][]CompoundResponse)}
	for _, r := range rows {
		item := CompoundResponse{
			Name:              r.Name,
			SynergyMultiplier: r.SynergyMultiplier,
			EfficacyWeight:    r.EfficacyWeight,
			Benefit:           r.Benefit,
		}
		item.BoilingPointF, item.BoilingPointC = bothScales(r)
		key := string(r.Type)
		resp.Compounds[key] = append(resp.Compounds[key], item)
		resp.Count++
	}
	return resp
}

func bothScales(r models.Compound) (*float64, *float64) {
	if r.BoilingPoint == nil {
		return nil, nil
	}
	bp := *r.BoilingPoint
	if r.Unit == models.Fahrenheit {
		c, err := units.FahrenheitToCelsius(bp)
		if err != nil {
			return nil, nil
		}
		f := units.Round(bp, 1)
		return &f, &c
	}
	f, err := units.CelsiusToFahrenheit(bp)
	if err != nil {
		return nil, nil
	}
	c := units.Round(bp, 1)
	return &f, &c
}
