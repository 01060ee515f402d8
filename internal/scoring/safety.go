package scoring

// SafetyZone is the risk band a device temperature falls into.
type SafetyZone struct {
	Zone        string
	Risk        string
	Description string
	Warnings    []string
}

// ZoneReference describes a zone for catalog listings.
type ZoneReference struct {
	Name            string
	RangeF          string
	Risk            string
	ActiveCompounds string
	RecommendedFor  string
}

type zoneBand struct {
	upperF float64
	zone   SafetyZone
	ref    ZoneReference
}

// zoneBands is ordered by exclusive upper bound; the last band is open.
var zoneBands = []zoneBand{
	{
		upperF: 311,
		zone: SafetyZone{
			Zone:        "A - Flavor/Cerebral",
			Risk:        "LOW",
			Description: "Volatile terpenes only, minimal cannabinoid activation",
			Warnings:    []string{"Many therapeutic compounds unavailable"},
		},
		ref: ZoneReference{
			RangeF:          "< 311°F (< 155°C)",
			ActiveCompounds: "Pinene, light terpenes",
			RecommendedFor:  "Microdosing, flavor appreciation",
		},
	},
	{
		upperF: 365,
		zone: SafetyZone{
			Zone:        "B - Medical/Entourage",
			Risk:        "LOW",
			Description: "Optimal cannabinoid and cannflavin activation",
		},
		ref: ZoneReference{
			RangeF:          "311-365°F (155-185°C)",
			ActiveCompounds: "THC, CBD, Cannflavin A, most terpenes",
			RecommendedFor:  "Pain, anxiety, inflammation (optimal zone)",
		},
	},
	{
		upperF: 401,
		zone: SafetyZone{
			Zone:        "C - High Extraction",
			Risk:        "MEDIUM",
			Description: "Maximum cannabinoid extraction approaching benzene threshold",
			Warnings:    []string{"Nearing benzene formation risk"},
		},
		ref: ZoneReference{
			RangeF:          "365-401°F (185-205°C)",
			ActiveCompounds: "THCV, CBN, high-boiling cannabinoids",
			RecommendedFor:  "Maximum cannabinoid extraction",
		},
	},
	{
		upperF: 482,
		zone: SafetyZone{
			Zone:        "D - High Risk",
			Risk:        "HIGH",
			Description: "Benzene formation: significant toxin risk",
			Warnings:    []string{"Benzene and methacrolein formation", "Terpene degradation"},
		},
		ref: ZoneReference{
			RangeF:          "401-482°F (205-250°C)",
			ActiveCompounds: "Quercetin (antiviral), but benzene formation",
			RecommendedFor:  "Not recommended: toxin risk",
		},
	},
	{
		zone: SafetyZone{
			Zone:        "E - Combustion/Destructive",
			Risk:        "CRITICAL",
			Description: "Pyrolysis: full combustion with carcinogens",
			Warnings:    []string{"Tar formation", "PAH carcinogens", "Compound destruction"},
		},
		ref: ZoneReference{
			RangeF:          "> 482°F (> 250°C)",
			ActiveCompounds: "All compounds plus tar, PAHs, carcinogens",
			RecommendedFor:  "Avoid: use vaporization instead",
		},
	},
}

// ClassifySafetyZone maps a temperature in °F to its risk zone.
func ClassifySafetyZone(tempF float64) SafetyZone {
	last := len(zoneBands) - 1
	for _, band := range zoneBands[:last] {
		if tempF < band.upperF {
			return band.zone.clone()
		}
	}
	return zoneBands[last].zone.clone()
}

// Zones lists every zone from coolest to hottest.
func Zones() []ZoneReference {
	out := make([]ZoneReference, 0, len(zoneBands))
	for _, band := range zoneBands {
		ref := band.ref
		ref.Name = band.zone.Zone
		ref.Risk = band.zone.Risk
		out = append(out, ref)
	}
	return out
}

func (z SafetyZone) clone() SafetyZone {
	z.Warnings = append([]string(nil), z.Warnings...)
	return z
}
