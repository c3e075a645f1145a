package domain

// ReportSummary is the headline block of an audit report
type ReportSummary struct {
	FilesScanned      int                `json:"files_scanned"`
	FeaturesTotal     int                `json:"features_total"`
	ScoreGlobal       float64            `json:"score_global"`
	CoverageByBrowser map[string]float64 `json:"coverage_by_browser"`
	Target            string             `json:"target"`
}

// FeatureEntry is one feature row in the report, sorted by risk priority
type FeatureEntry struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Status    BaselineStatus    `json:"status"`
	Browsers  map[string]string `json:"browsers"`
	Files     []FileHits        `json:"files"`
	TotalHits int               `json:"total_hits"`
	FileCount int               `json:"file_count"`
}

// Report is the complete structured output of one audit run.
// Only the most recent report is retained; each run overwrites it.
type Report struct {
	Summary     ReportSummary  `json:"summary"`
	Features    []FeatureEntry `json:"features"`
	NextActions []string       `json:"next_actions"`
	GeneratedAt string         `json:"generated_at"`
	Version     string         `json:"version,omitempty"`
}

// DonutChart is a categorical breakdown projection
type DonutChart struct {
	Type   string            `json:"type"`
	Data   map[string]int    `json:"data"`
	Colors map[string]string `json:"colors"`
}

// BarChart is a per-category percentage projection
type BarChart struct {
	Type   string             `json:"type"`
	Data   map[string]float64 `json:"data"`
	Colors map[string]string  `json:"colors"`
}

// RiskItem is one entry in the top-risk chart projection
type RiskItem struct {
	Feature string         `json:"feature"`
	Status  BaselineStatus `json:"status"`
	Files   int            `json:"files"`
	Hits    int            `json:"hits"`
}

// RiskChart lists the ranked risks for visualization
type RiskChart struct {
	Type string     `json:"type"`
	Data []RiskItem `json:"data"`
}

// GaugeChart projects the global score against a target threshold
type GaugeChart struct {
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Label  string  `json:"label"`
}

// ChartData is the visualization projection of one audit run
type ChartData struct {
	CompatibilityOverview DonutChart `json:"compatibility_overview"`
	BrowserBars           BarChart   `json:"browser_bars"`
	TopRisks              RiskChart  `json:"top_risks"`
	Trend                 GaugeChart `json:"trend"`
}

// FeatureStatusLine is one resolved feature in a single-file audit
type FeatureStatusLine struct {
	Feature        string            `json:"feature"`
	Name           string            `json:"name"`
	Hits           int               `json:"hits"`
	BaselineStatus BaselineStatus    `json:"baseline_status"`
	Browsers       map[string]string `json:"browsers"`
}

// FileAudit is the result of auditing a single file
type FileAudit struct {
	File          string              `json:"file"`
	Features      []string            `json:"features"`
	Statuses      []FeatureStatusLine `json:"statuses"`
	FileScore     float64             `json:"file_score"`
	TotalFeatures int                 `json:"total_features"`
	Message       string              `json:"message,omitempty"`
}

// FeatureLookup is a single feature status with a human interpretation
type FeatureLookup struct {
	StatusRecord
	Interpretation string `json:"interpretation"`
}
