package scoring

import (
	"fmt"
	"math"
	"strings"

	"greenforge/pkg/platform/units"
)

// Compound sets read by each mode, keyed by upper-cased name.
var (
	cognitiveCompounds = nameSet("THCV", "ALPHA-PINENE", "PINENE", "LIMONENE")
	somaticCompounds   = nameSet("CBD", "CBN", "CBG", "MYRCENE", "CARYOPHYLLENE", "BETA-CARYOPHYLLENE", "Β-CARYOPHYLLENE")
	anxietyCompounds   = nameSet("CBD", "LINALOOL", "LIMONENE", "MYRCENE", "CBN", "APIGENIN")
)

const (
	recreationalScore = 100.0

	cognitiveWeight       = 40.0
	cognitiveTHCFloor     = 10.0
	cognitiveTHCPenalty   = 3.0
	cognitiveTHCWarning   = 20.0
	cognitiveSignalFloor  = 1.0
	somaticSignalWeight   = 8.0
	somaticTHCWeight      = 1.2
	cannflavinBoost       = 30.0
	cannflavinSignalScale = 5.0
	soilFlavonoidBonus    = 1.3
	anxietyWeight         = 15.0
	anxietyTHCFloor       = 5.0
	anxietyTHCPenalty     = 2.0
	anxietyTHCWarning     = 15.0
	generalWeight         = 3.0
)

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// preparedCompound is a compound after catalog resolution and input
// sanitation, paired with its thermal detail for this pass.
type preparedCompound struct {
	name    string
	key     string
	typ     CompoundType
	raw     float64
	thermal ThermalDetail
}

// modified applies the cultivation multiplier for lookupType and, for
// cannabinoids, receptor saturation.
func (c preparedCompound) modified(lookupType CompoundType, growStyle string) float64 {
	v := ApplyCultivation(c.name, lookupType, growStyle, c.raw)
	if c.typ == TypeCannabinoid {
		v = Saturate(v)
	}
	return v
}

// scoringContext is everything a mode scorer may read for one product.
type scoringContext struct {
	compounds []preparedCompound
	growStyle string
	tempF     float64
	rawTHC    float64
	thc       float64
}

type modeOutcome struct {
	base        float64
	signal      *float64
	penalty     *float64
	thcContrib  *float64
	multipliers map[string]float64
	warnings    []string
}

func (sc scoringContext) signalOver(set map[string]struct{}) float64 {
	var signal float64
	for _, c := range sc.compounds {
		if _, ok := set[c.key]; ok {
			signal += c.modified(c.typ, sc.growStyle) * c.thermal.Availability
		}
	}
	return signal
}

func scoreCondition(mode Mode, condition Condition, sc scoringContext) modeOutcome {
	switch mode {
	case ModeRecreational:
		return modeOutcome{base: recreationalScore}
	case ModeCognitive:
		return scoreCognitive(sc)
	case ModeSomatic:
		return scoreSomatic(condition, sc)
	case ModeAnxiety:
		return scoreAnxiety(sc)
	default:
		return scoreGeneral(sc)
	}
}

func scoreCognitive(sc scoringContext) modeOutcome {
	signal := sc.signalOver(cognitiveCompounds)
	penalty := math.Max(0, (sc.thc-cognitiveTHCFloor)*cognitiveTHCPenalty)

	out := modeOutcome{
		base:    signal*cognitiveWeight - penalty,
		signal:  ptr(signal),
		penalty: ptr(penalty),
	}
	if sc.thc > cognitiveTHCWarning {
		out.warnings = append(out.warnings, fmt.Sprintf("High THC (%s%%) may impair cognitive function", formatNumber(sc.rawTHC)))
	}
	if signal < cognitiveSignalFloor {
		out.warnings = append(out.warnings, "Low focus compound levels")
	}
	return out
}

func scoreSomatic(condition Condition, sc scoringContext) modeOutcome {
	signal := sc.signalOver(somaticCompounds)
	boost := 1.0
	var warnings []string

	lcond := strings.ToLower(condition.Name)
	inflammatory := strings.Contains(lcond, "pain") || strings.Contains(lcond, "inflammation")
	if inflammatory {
		for _, c := range sc.compounds {
			if !strings.Contains(strings.ToLower(c.name), "cannflavin") {
				continue
			}
			if c.thermal.Availability > 0 {
				boost = cannflavinBoost
				signal += c.modified(TypeFlavonoid, sc.growStyle) * c.thermal.Availability * cannflavinSignalScale
				warnings = append(warnings, fmt.Sprintf("%s active: 30x aspirin anti-inflammatory potency at %s°F",
					c.name, formatNumber(sc.tempF)))
				continue
			}
			warnings = append(warnings, inactiveFlavonoidWarning(c, sc.tempF))
		}
	}

	bonus := 1.0
	if boost > 1.0 && isSoilGrown(sc.growStyle) {
		bonus = soilFlavonoidBonus
		warnings = append(warnings, "Living soil cultivation: enhanced flavonoid bioavailability")
	}

	thcContrib := sc.thc * somaticTHCWeight
	return modeOutcome{
		base:       (signal*somaticSignalWeight + thcContrib) * bonus * boost,
		signal:     ptr(signal),
		thcContrib: ptr(thcContrib),
		multipliers: map[string]float64{
			"flavonoid_bonus":  bonus,
			"cannflavin_boost": boost,
		},
		warnings: warnings,
	}
}

func scoreAnxiety(sc scoringContext) modeOutcome {
	signal := sc.signalOver(anxietyCompounds)
	penalty := math.Max(0, (sc.thc-anxietyTHCFloor)*anxietyTHCPenalty)

	out := modeOutcome{
		base:    signal*anxietyWeight - penalty,
		signal:  ptr(signal),
		penalty: ptr(penalty),
	}
	if sc.thc > anxietyTHCWarning {
		out.warnings = append(out.warnings, fmt.Sprintf("High THC (%s%%) may exacerbate anxiety", formatNumber(sc.rawTHC)))
	}
	return out
}

// scoreGeneral looks every compound up as a cannabinoid, whatever its
// catalog type.
func scoreGeneral(sc scoringContext) modeOutcome {
	var sum float64
	for _, c := range sc.compounds {
		sum += c.modified(TypeCannabinoid, sc.growStyle) * c.thermal.Availability
	}
	return modeOutcome{base: sum * generalWeight}
}

func inactiveFlavonoidWarning(c preparedCompound, tempF float64) string {
	d := c.thermal
	switch {
	case d.NeededTempF != nil:
		return fmt.Sprintf("%s locked (needs %s°F, currently %s°F)", c.name, formatNumber(*d.NeededTempF), formatNumber(tempF))
	case d.Status == StatusDegrading && d.BoilingPointF != nil:
		return fmt.Sprintf("%s degraded (boils at %s°F, currently %s°F)", c.name, formatNumber(*d.BoilingPointF), formatNumber(tempF))
	default:
		return fmt.Sprintf("%s locked (no thermal data, currently %s°F)", c.name, formatNumber(tempF))
	}
}

// formatNumber renders a float without trailing zeros, e.g. 314.6 or 370.
func formatNumber(v float64) string {
	return fmt.Sprintf("%g", units.Round(v, 1))
}
