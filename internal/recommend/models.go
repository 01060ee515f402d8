package recommend

import (
	"fmt"

	"greenforge/internal/scoring"
	"greenforge/pkg/platform/units"
)

// MaxTemperatureF is the hottest device setting accepted. It sits well inside
// the combustion zone.
const MaxTemperatureF = 1000.0

var temperatureRangeMessage = fmt.Sprintf("temperatureF must be between %.2f and %.0f", units.AbsoluteZeroF, MaxTemperatureF)

// TemperatureInRange reports whether f is a physically meaningful device
// temperature.
func TemperatureInRange(f float64) bool {
	return f >= units.AbsoluteZeroF && f <= MaxTemperatureF
}

// TemperatureRangeMessage describes the accepted temperature range.
func TemperatureRangeMessage() string { return temperatureRangeMessage }

// Request is a validated recommendation request.
type Request struct {
	TemperatureF float64
	Conditions   []scoring.Condition
	Products     []scoring.Product
}

// Response carries ranked results plus the echoed request context.
type Response struct {
	Results            []scoring.Result
	TemperatureF       float64
	TemperatureC       float64
	ConditionsAnalyzed []string
}
