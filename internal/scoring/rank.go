package scoring

import "sort"

// Rank orders results by score, highest first. Equal scores keep their
// input order.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// Recommend scores every product sequentially and ranks the results.
func Recommend(products []Product, conditions []Condition, tempF float64, catalog Catalog, opts Options) []Result {
	results := make([]Result, 0, len(products))
	for _, p := range products {
		results = append(results, ScoreProduct(p, conditions, tempF, catalog, opts))
	}
	Rank(results)
	return results
}
