// Package units converts temperatures between scales. Conversions fail
// closed: NaN and infinite inputs are rejected rather than propagated.
package units

import (
	"errors"
	"math"
)

// ErrNonFinite is returned when a temperature, or its conversion, is NaN or
// infinite.
var ErrNonFinite = errors.New("temperature must be a finite number")

// AbsoluteZeroF is the lowest physical temperature in °F.
const AbsoluteZeroF = -459.67

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CelsiusToFahrenheit converts c to °F, rounded to one decimal.
func CelsiusToFahrenheit(c float64) (float64, error) {
	if !IsFinite(c) {
		return 0, ErrNonFinite
	}
	return finite(Round(c*1.8+32, 1))
}

// FahrenheitToCelsius converts f to °C, rounded to one decimal.
func FahrenheitToCelsius(f float64) (float64, error) {
	if !IsFinite(f) {
		return 0, ErrNonFinite
	}
	return finite(Round((f-32)/1.8, 1))
}

// finite rejects results that overflowed for inputs near the float64 limit.
func finite(v float64) (float64, error) {
	if !IsFinite(v) {
		return 0, ErrNonFinite
	}
	return v, nil
}
