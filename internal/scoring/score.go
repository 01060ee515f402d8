package scoring

import (
	"fmt"
	"strings"

	pstrings "greenforge/pkg/platform/strings"
	"greenforge/pkg/platform/units"
)

const (
	minSeverity = 1
	maxSeverity = 10

	gatePenalty       = 0.8
	gateRawThreshold  = 0.5
	gateAvailability  = 0.5
	marketTHCFloor    = 25.0
	marketProfileRoof = 2.0

	warnEmptyProduct = "Empty product"
	warnNoConditions = "No conditions specified"
	warnMarket       = "MARKET REALITY: High THC, low therapeutic compound profile"
)

// ScoreProduct runs the full pipeline for one product. It is pure: the
// catalog must already hold everything it will be asked for.
func ScoreProduct(product Product, conditions []Condition, tempF float64, catalog Catalog, opts Options) Result {
	zone := ClassifySafetyZone(tempF)
	res := Result{
		ProductName:    product.Name,
		GrowStyle:      product.GrowStyle,
		Breakdown:      map[string]Breakdown{},
		ThermalDetails: map[string]ThermalDetail{},
		SafetyZone:     zone,
		CompoundsTotal: len(product.Compounds),
	}

	if len(product.Compounds) == 0 {
		res.Warnings = pstrings.DedupeAndTrim(append([]string{warnEmptyProduct}, zone.Warnings...))
		return res
	}
	if len(conditions) == 0 {
		res.Warnings = pstrings.DedupeAndTrim(append([]string{warnNoConditions}, zone.Warnings...))
		return res
	}

	warnings := append([]string{}, zone.Warnings...)

	prepared, prepWarnings := prepareCompounds(product.Compounds, tempF, catalog, opts)
	warnings = append(warnings, prepWarnings...)

	for _, c := range prepared {
		res.ThermalDetails[c.name] = c.thermal
	}
	for _, d := range res.ThermalDetails {
		if d.Active() {
			res.CompoundsAvailable++
		}
	}

	sc := scoringContext{
		compounds: prepared,
		growStyle: product.GrowStyle,
		tempF:     tempF,
	}
	var nonTHC float64
	for _, c := range prepared {
		if c.key == "THC" {
			sc.rawTHC = c.raw
		} else {
			nonTHC += c.raw
		}
	}
	sc.thc = Saturate(sc.rawTHC)

	gate, gateWarning := thermalGate(prepared)
	active := 0
	for _, c := range prepared {
		if c.thermal.Active() {
			active++
		}
	}
	entourage := EntourageMultiplier(active)

	var totalScore, totalWeight float64
	for _, cond := range conditions {
		severity, sevWarning := clampSeverity(cond)
		if sevWarning != "" {
			warnings = append(warnings, sevWarning)
		}

		mode := ClassifyCondition(cond.Name)
		outcome := scoreCondition(mode, cond, sc)
		warnings = append(warnings, outcome.warnings...)

		final := outcome.base
		bd := Breakdown{
			Mode:            mode,
			BaseScore:       units.Round(outcome.base, 1),
			Signal:          roundPtr(outcome.signal, 2),
			Penalties:       roundPtr(outcome.penalty, 1),
			THCContribution: roundPtr(outcome.thcContrib, 1),
		}

		if mode != ModeRecreational {
			bd.Multipliers = map[string]float64{}
			for k, v := range outcome.multipliers {
				bd.Multipliers[k] = v
			}
			if gateWarning != "" {
				warnings = append(warnings, gateWarning)
			}
			final *= gate
			bd.Multipliers["thermal_gate"] = gate
			if entourage > 1.0 {
				final *= entourage
				bd.EntourageActive = active
			}
			bd.Multipliers["entourage"] = units.Round(entourage, 2)
		}

		bd.Score = units.Round(final, 1)
		res.Breakdown[cond.Name] = bd

		totalScore += final * float64(severity)
		totalWeight += float64(severity)
	}

	res.Score = aggregate(totalScore, totalWeight)

	if sc.rawTHC > marketTHCFloor && nonTHC < marketProfileRoof {
		warnings = append(warnings, warnMarket)
	}

	res.Warnings = pstrings.DedupeAndTrim(warnings)
	return res
}

// aggregate is the severity-weighted mean, clamped to [0,100] and rounded to
// one decimal. Zero weight scores zero.
func aggregate(totalScore, totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	return units.Round(clamp(totalScore/totalWeight, 0, 100), 1)
}

// prepareCompounds resolves catalog records, drops unusable values and
// computes each compound's thermal detail.
func prepareCompounds(compounds []Compound, tempF float64, catalog Catalog, opts Options) ([]preparedCompound, []string) {
	var warnings []string
	out := make([]preparedCompound, 0, len(compounds))

	for _, c := range compounds {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			warnings = append(warnings, "Ignored compound without a name")
			continue
		}

		raw := c.Value
		if !units.IsFinite(raw) || raw < 0 {
			warnings = append(warnings, fmt.Sprintf("Ignored invalid value for %s", name))
			raw = 0
		}

		pc := preparedCompound{
			name: name,
			key:  CatalogKey(name),
			typ:  c.Type,
			raw:  raw,
		}

		rec, found := PhysicalRecord{}, false
		if catalog != nil {
			rec, found = catalog.Lookup(name, c.Type)
		}
		if found {
			if rec.Type != TypeUnknown {
				pc.typ = rec.Type
			}
			pc.thermal = ThermalAvailability(rec.BoilingPointF, tempF)
		} else {
			pc.thermal = unknownThermal(opts.UnknownPolicy)
		}

		out = append(out, pc)
	}
	return out, warnings
}

// thermalGate returns the penalty factor and warning for substantial
// compounds still below their activation temperature.
func thermalGate(compounds []preparedCompound) (float64, string) {
	var locked []string
	for _, c := range compounds {
		if c.raw > gateRawThreshold && c.thermal.Availability < gateAvailability && c.thermal.NeededTempF != nil {
			locked = append(locked, fmt.Sprintf("%s (needs %s°F)", c.name, formatNumber(*c.thermal.NeededTempF)))
		}
	}
	if len(locked) == 0 {
		return 1.0, ""
	}
	return gatePenalty, "Thermal gate locked: " + strings.Join(locked, ", ")
}

func clampSeverity(c Condition) (int, string) {
	switch {
	case c.Severity < minSeverity:
		return minSeverity, fmt.Sprintf("Severity for %s raised to %d", c.Name, minSeverity)
	case c.Severity > maxSeverity:
		return maxSeverity, fmt.Sprintf("Severity for %s lowered to %d", c.Name, maxSeverity)
	}
	return c.Severity, ""
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := units.Round(*v, places)
	return &r
}
