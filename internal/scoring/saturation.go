package scoring

const (
	saturationCeiling = 25.0
	saturationSlope   = 0.1
)

// Saturate credits cannabinoid potency above the receptor ceiling at a tenth
// of its face value.
func Saturate(value float64) float64 {
	if value <= saturationCeiling {
		return value
	}
	return saturationCeiling + (value-saturationCeiling)*saturationSlope
}
