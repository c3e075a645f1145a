package domain

// Metrics holds the aggregated compatibility scores for one audit run.
// Derived data only; recomputed per run, never persisted.
type Metrics struct {
	// GlobalScore is the weighted compatibility score in [0, 100]
	GlobalScore float64 `json:"global_score"`

	// Per-status feature counts
	WidelyCount  int `json:"widely_count"`
	NewlyCount   int `json:"newly_count"`
	LimitedCount int `json:"limited_count"`

	// BrowserCoverage maps browser name to percentage of features supported
	// at the active target baseline
	BrowserCoverage map[string]float64 `json:"browser_coverage"`

	// TopRisks lists up to 5 feature ids ranked by severity and usage
	TopRisks []string `json:"top_risks"`

	// TotalFeatures is the number of distinct features detected
	TotalFeatures int `json:"total_features"`

	// Target is the baseline profile the scores were computed against
	Target string `json:"target"`
}
