package scoring

import "math"

// ThermalStatus labels where a temperature sits relative to a boiling point.
type ThermalStatus string

const (
	StatusLocked          ThermalStatus = "locked"
	StatusPartiallyActive ThermalStatus = "partially_active"
	StatusFullyActive     ThermalStatus = "fully_active"
	StatusDegrading       ThermalStatus = "degrading"
	StatusAssumedActive   ThermalStatus = "assumed_active"
	StatusUnknown         ThermalStatus = "unknown"
)

// Thermal curve constants, all in °F.
const (
	partialWindowF       = 15.0
	optimalWindowF       = 40.0
	degradationPerDegree = 0.02
	lockedAvailability   = 0.05
	partialFloor         = 0.1
	partialRange         = 0.9
)

// ThermalDetail is the availability of one compound at one temperature.
// NeededTempF is set only while the compound is below its boiling point;
// TempMarginF only once it has reached it.
type ThermalDetail struct {
	Status        ThermalStatus
	BoilingPointF *float64
	Availability  float64
	NeededTempF   *float64
	TempMarginF   *float64
}

// Active reports whether the compound counts towards synergy and the
// available-compound tally.
func (d ThermalDetail) Active() bool {
	return d.Availability > 0.5
}

// ThermalAvailability places tempF on the activation curve of a compound
// boiling at bp. A nil bp fails open.
func ThermalAvailability(bp *float64, tempF float64) ThermalDetail {
	if bp == nil {
		return ThermalDetail{Status: StatusAssumedActive, Availability: 1.0}
	}

	b := *bp
	d := ThermalDetail{BoilingPointF: ptr(b)}

	switch {
	case tempF < b-partialWindowF:
		d.Status = StatusLocked
		d.Availability = lockedAvailability
		d.NeededTempF = ptr(b)
	case tempF < b:
		d.Status = StatusPartiallyActive
		d.Availability = partialFloor + partialRange*(1-(b-tempF)/partialWindowF)
		d.NeededTempF = ptr(b)
	case tempF <= b+optimalWindowF:
		d.Status = StatusFullyActive
		d.Availability = 1.0
		d.TempMarginF = ptr(tempF - b)
	default:
		d.Status = StatusDegrading
		d.Availability = math.Max(0, 1-degradationPerDegree*(tempF-(b+optimalWindowF)))
		d.TempMarginF = ptr(tempF - b)
	}

	d.Availability = clamp(d.Availability, 0, 1)
	return d
}

// unknownThermal is the detail for a compound the catalog has never heard of.
func unknownThermal(policy UnknownPolicy) ThermalDetail {
	if policy == FailClosed {
		return ThermalDetail{Status: StatusUnknown, Availability: 0}
	}
	return ThermalDetail{Status: StatusAssumedActive, Availability: 1.0}
}

func ptr(v float64) *float64 {
	return &v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
