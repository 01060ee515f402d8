package scoring

// EntourageMultiplier rewards products with several concurrently active
// compounds: two give 1.1, three 1.2, and so on.
func EntourageMultiplier(activeCount int) float64 {
	if activeCount < 2 {
		return 1.0
	}
	return 1.0 + float64(activeCount-1)*0.1
}
