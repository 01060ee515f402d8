package models

import (
	"fmt"

	"greenforge/internal/scoring"
)

// TerpeneLevel is one of a variant's dominant terpenes.
type TerpeneLevel struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
}

// Variant is a strain's chemical profile under one grow context. Values are
// percentages by dry weight.
type Variant struct {
	Name        string         `yaml:"name"`
	GrowStyle   string         `yaml:"grow_style"`
	Archetype   string         `yaml:"archetype"`
	THC         float64        `yaml:"thc"`
	CBD         float64        `yaml:"cbd"`
	THCV        float64        `yaml:"thcv"`
	CBG         float64        `yaml:"cbg"`
	CBN         float64        `yaml:"cbn"`
	Terpenes    []TerpeneLevel `yaml:"terpenes"`
	CannflavinA float64        `yaml:"cannflavin_a"`
	VSCPresent  bool           `yaml:"vsc_present"`
}

// Compounds flattens the profile into scoreable compounds, cannabinoids
// first. Zero levels are omitted.
func (v Variant) Compounds() []scoring.Compound {
	var out []scoring.Compound
	add := func(name string, typ scoring.CompoundType, value float64) {
		if value > 0 {
			out = append(out, scoring.Compound{Name: name, Type: typ, Value: value})
		}
	}
	add("THC", scoring.TypeCannabinoid, v.THC)
	add("CBD", scoring.TypeCannabinoid, v.CBD)
	add("THCV", scoring.TypeCannabinoid, v.THCV)
	add("CBG", scoring.TypeCannabinoid, v.CBG)
	add("CBN", scoring.TypeCannabinoid, v.CBN)
	for _, t := range v.Terpenes {
		add(t.Name, scoring.TypeTerpene, t.Value)
	}
	add("Cannflavin A", scoring.TypeFlavonoid, v.CannflavinA)
	return out
}

// Product labels the variant with its grow context so several variants of
// one strain can be ranked side by side.
func (v Variant) Product() scoring.Product {
	return scoring.Product{
		Name:      fmt.Sprintf("%s (%s)", v.Name, v.GrowStyle),
		GrowStyle: v.GrowStyle,
		Compounds: v.Compounds(),
	}
}
