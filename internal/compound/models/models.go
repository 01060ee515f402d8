package models

import "greenforge/internal/scoring"

// Unit is the temperature scale a catalog row stores its boiling point in.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// Compound is one catalog row. The same name may appear once per type.
type Compound struct {
	Name              string               `yaml:"name" json:"name"`
	Type              scoring.CompoundType `yaml:"type" json:"type"`
	BoilingPoint      *float64             `yaml:"boiling_point" json:"boiling_point,omitempty"`
	Unit              Unit                 `yaml:"unit" json:"unit"`
	SynergyMultiplier *float64             `yaml:"synergy_multiplier" json:"synergy_multiplier,omitempty"`
	EfficacyWeight    *float64             `yaml:"efficacy_weight" json:"efficacy_weight,omitempty"`
	Benefit           string               `yaml:"benefit" json:"benefit,omitempty"`
}

// typeOrder is the precedence used when a name matches several types and
// the caller gave no usable hint.
var typeOrder = map[scoring.CompoundType]int{
	scoring.TypeCannabinoid:      0,
	scoring.TypeTerpene:          1,
	scoring.TypeFlavonoid:        2,
	scoring.TypeMinorCannabinoid: 3,
}

// TypeRank orders compound types by lookup precedence.
func TypeRank(t scoring.CompoundType) int {
	if r, ok := typeOrder[t]; ok {
		return r
	}
	return len(typeOrder)
}

// Select picks the row for a lookup: the hinted type when present, otherwise
// the highest-precedence type.
func Select(rows []Compound, hint scoring.CompoundType) (Compound, bool) {
	if len(rows) == 0 {
		return Compound{}, false
	}
	if hint != scoring.TypeUnknown {
		for _, r := range rows {
			if r.Type == hint {
				return r, true
			}
		}
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if TypeRank(r.Type) < TypeRank(best.Type) {
			best = r
		}
	}
	return best, true
}
