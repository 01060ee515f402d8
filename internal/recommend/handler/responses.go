package handler

import (
	"greenforge/internal/recommend"
	"greenforge/internal/scoring"
	"greenforge/pkg/platform/units"
)

type ThermalDetailResponse struct {
	Status        string   `json:"status"`
	BoilingPointF *float64 `json:"boilingPointF"`
	Availability  float64  `json:"availability"`
	NeededTempF   *float64 `json:"neededTempF,omitempty"`
	TempMarginF   *float64 `json:"tempMarginF,omitempty"`
}

type BreakdownResponse struct {
	Mode            string             `json:"mode"`
	Score           float64            `json:"score"`
	BaseScore       float64            `json:"baseScore"`
	Signal          *float64           `json:"signal,omitempty"`
	Penalties       *float64           `json:"penalties,omitempty"`
	THCContribution *float64           `json:"thcContribution,omitempty"`
	Multipliers     map[string]float64 `json:"multipliers,omitempty"`
	EntourageActive int                `json:"entourageActive"`
}

type SafetyZoneResponse struct {
	Zone        string   `json:"zone"`
	Risk        string   `json:"risk"`
	Description string   `json:"description"`
	Warnings    []string `json:"warnings,omitempty"`
}

type ResultResponse struct {
	ProductName        string                           `json:"productName"`
	GrowStyle          string                           `json:"growStyle"`
	Score              float64                          `json:"score"`
	Breakdown          map[string]BreakdownResponse     `json:"breakdown"`
	Warnings           []string                         `json:"warnings"`
	ThermalDetails     map[string]ThermalDetailResponse `json:"thermalDetails"`
	SafetyZone         SafetyZoneResponse               `json:"safetyZone"`
	CompoundsAvailable int                              `json:"compoundsAvailable"`
	CompoundsTotal     int                              `json:"compoundsTotal"`
}

// RecommendResponse is the body returned by POST /recommend.
type RecommendResponse struct {
	Results            []ResultResponse `json:"results"`
	TemperatureF       float64          `json:"temperatureF"`
	TemperatureC       float64          `json:"temperatureC"`
	ConditionsAnalyzed []string         `json:"conditionsAnalyzed"`
}

type ZoneResponse struct {
	Name            string `json:"name"`
	Range           string `json:"range"`
	Risk            string `json:"risk"`
	ActiveCompounds string `json:"activeCompounds"`
	RecommendedFor  string `json:"recommendedFor"`
}

type ZonesResponse struct {
	Zones []ZoneResponse `json:"zones"`
}

func FromResponse(resp *recommend.Response) RecommendResponse {
	out := RecommendResponse{
		Results:            make([]ResultResponse, 0, len(resp.Results)),
		TemperatureF:       resp.TemperatureF,
		TemperatureC:       resp.TemperatureC,
		ConditionsAnalyzed: resp.ConditionsAnalyzed,
	}
	if out.ConditionsAnalyzed == nil {
		out.ConditionsAnalyzed = []string{}
	}
	for _, r := range resp.Results {
		out.Results = append(out.Results, fromResult(r))
	}
	return out
}

func fromResult(r scoring.Result) ResultResponse {
	res := ResultResponse{
		ProductName:        r.ProductName,
		GrowStyle:          r.GrowStyle,
		Score:              r.Score,
		Breakdown:          make(map[string]BreakdownResponse, len(r.Breakdown)),
		Warnings:           r.Warnings,
		ThermalDetails:     make(map[string]ThermalDetailResponse, len(r.ThermalDetails)),
		CompoundsAvailable: r.CompoundsAvailable,
		CompoundsTotal:     r.CompoundsTotal,
		SafetyZone: SafetyZoneResponse{
			Zone:        r.SafetyZone.Zone,
			Risk:        r.SafetyZone.Risk,
			Description: r.SafetyZone.Description,
			Warnings:    r.SafetyZone.Warnings,
		},
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	for name, b := range r.Breakdown {
		res.Breakdown[name] = BreakdownResponse{
			Mode:            string(b.Mode),
			Score:           b.Score,
			BaseScore:       b.BaseScore,
			Signal:          b.Signal,
			Penalties:       b.Penalties,
			THCContribution: b.THCContribution,
			Multipliers:     b.Multipliers,
			EntourageActive: b.EntourageActive,
		}
	}
	for name, d := range r.ThermalDetails {
		res.ThermalDetails[name] = ThermalDetailResponse{
			Status:        string(d.Status),
			BoilingPointF: d.BoilingPointF,
			Availability:  units.Round(d.Availability, 2),
			NeededTempF:   d.NeededTempF,
			TempMarginF:   d.TempMarginF,
		}
	}
	return res
}

func FromZones(zones []scoring.ZoneReference) ZonesResponse {
	out := ZonesResponse{Zones: make([]ZoneResponse, 0, len(zones))}
	for _, z := range zones {
		out.Zones = append(out.Zones, ZoneResponse{
			Name:            z.Name,
			Range:           z.RangeF,
			Risk:            z.Risk,
			ActiveCompounds: z.ActiveCompounds,
			RecommendedFor:  z.RecommendedFor,
		})
	}
	return out
}
