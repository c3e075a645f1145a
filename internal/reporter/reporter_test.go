package reporter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/baseline-tools/bscan/domain"
)

func testReporter() *Reporter {
	return &Reporter{now: func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func makeAgg(id string, status domain.BaselineStatus, files ...domain.FileHits) *domain.FeatureAggregate {
	total := 0
	for _, f := range files {
		total += f.Hits
	}
	return &domain.FeatureAggregate{
		ID:        id,
		TotalHits: total,
		Files:     files,
		Status: &domain.StatusRecord{
			ID:             id,
			Name:           id,
			BaselineStatus: status,
		},
	}
}

func TestFormatReport_FeatureOrdering(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"safe":       makeAgg("safe", domain.BaselineWidely, domain.FileHits{Path: "a.css", Hits: 20}),
		"risky":      makeAgg("risky", domain.BaselineLimited, domain.FileHits{Path: "b.css", Hits: 1}),
		"risky-more": makeAgg("risky-more", domain.BaselineLimited, domain.FileHits{Path: "c.css", Hits: 5}),
		"recent":     makeAgg("recent", domain.BaselineNewly, domain.FileHits{Path: "d.js", Hits: 3}),
	}
	metrics := &domain.Metrics{
		GlobalScore:   37.5,
		WidelyCount:   1,
		NewlyCount:    1,
		LimitedCount:  2,
		TotalFeatures: 4,
		Target:        "baseline-2024",
		TopRisks:      []string{"risky-more", "risky", "recent"},
	}

	report := testReporter().FormatReport(aggregates, metrics, 4)

	gotOrder := make([]string, len(report.Features))
	for i, f := range report.Features {
		gotOrder[i] = f.ID
	}
	want := []string{"risky-more", "risky", "recent", "safe"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("feature order = %v, want %v", gotOrder, want)
		}
	}

	if report.Summary.FilesScanned != 4 {
		t.Errorf("FilesScanned = %d, want 4", report.Summary.FilesScanned)
	}
	if report.Summary.ScoreGlobal != 37.5 {
		t.Errorf("ScoreGlobal = %v", report.Summary.ScoreGlobal)
	}
	if report.GeneratedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("GeneratedAt = %s", report.GeneratedAt)
	}
}

func TestFormatReport_FileListTruncated(t *testing.T) {
	files := make([]domain.FileHits, 15)
	for i := range files {
		files[i] = domain.FileHits{Path: fmt.Sprintf("src/f%02d.css", i), Hits: i + 1}
	}
	aggregates := map[string]*domain.FeatureAggregate{
		"wide-spread": makeAgg("wide-spread", domain.BaselineLimited, files...),
	}
	metrics := &domain.Metrics{TotalFeatures: 1, LimitedCount: 1, Target: "widely", TopRisks: []string{"wide-spread"}}

	report := testReporter().FormatReport(aggregates, metrics, 15)

	entry := report.Features[0]
	if len(entry.Files) != 10 {
		t.Fatalf("truncated file list length = %d, want 10", len(entry.Files))
	}
	// highest hit count first after sorting
	if entry.Files[0].Hits != 15 {
		t.Errorf("top file hits = %d, want 15", entry.Files[0].Hits)
	}
	// full counts survive truncation
	if entry.FileCount != 15 {
		t.Errorf("FileCount = %d, want 15", entry.FileCount)
	}
	if entry.TotalHits != 120 {
		t.Errorf("TotalHits = %d, want 120", entry.TotalHits)
	}
}

func TestFormatReport_DoesNotMutateAggregates(t *testing.T) {
	agg := makeAgg("x", domain.BaselineLimited,
		domain.FileHits{Path: "low.css", Hits: 1},
		domain.FileHits{Path: "high.css", Hits: 9},
	)
	aggregates := map[string]*domain.FeatureAggregate{"x": agg}
	metrics := &domain.Metrics{TotalFeatures: 1, LimitedCount: 1, Target: "widely", TopRisks: []string{"x"}}

	testReporter().FormatReport(aggregates, metrics, 2)

	if agg.Files[0].Path != "low.css" {
		t.Error("input aggregate file order was mutated")
	}
}

func TestGenerateActions_Phrasing(t *testing.T) {
	tests := []struct {
		id     string
		status domain.BaselineStatus
		want   string
	}{
		{id: "css-container-queries", status: domain.BaselineLimited, want: "Replace @container with media queries in main.css"},
		{id: "css-subgrid", status: domain.BaselineLimited, want: "Use nested grids instead of subgrid in main.css"},
		{id: "css-has-selector", status: domain.BaselineLimited, want: "Refactor :has() with JavaScript fallback in main.css"},
		{id: "html-dialog", status: domain.BaselineLimited, want: "Add dialog polyfill or use modal library"},
		{id: "js-weakref", status: domain.BaselineLimited, want: "Add polyfill for js-weakref"},
		{id: "js-at-method", status: domain.BaselineNewly, want: "Test js-at-method in older browsers (newly available)"},
	}

	r := testReporter()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			aggregates := map[string]*domain.FeatureAggregate{
				tt.id: makeAgg(tt.id, tt.status, domain.FileHits{Path: "main.css", Hits: 2}),
			}
			actions := r.generateActions(aggregates, []string{tt.id})
			if len(actions) != 1 || actions[0] != tt.want {
				t.Errorf("actions = %v, want [%q]", actions, tt.want)
			}
		})
	}
}

func TestGenerateActions_Fallbacks(t *testing.T) {
	r := testReporter()

	t.Run("no risks but features detected", func(t *testing.T) {
		aggregates := map[string]*domain.FeatureAggregate{
			"fine": makeAgg("fine", domain.BaselineWidely, domain.FileHits{Path: "a.css", Hits: 1}),
		}
		actions := r.generateActions(aggregates, nil)
		if len(actions) != 1 || actions[0] != "All detected features have good browser support" {
			t.Errorf("actions = %v", actions)
		}
	})

	t.Run("nothing detected", func(t *testing.T) {
		actions := r.generateActions(map[string]*domain.FeatureAggregate{}, nil)
		if len(actions) != 1 || actions[0] != "No compatibility issues detected" {
			t.Errorf("actions = %v", actions)
		}
	})
}

func TestGenerateActions_TopThreeOnly(t *testing.T) {
	aggregates := make(map[string]*domain.FeatureAggregate)
	var risks []string
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("feat-%d", i)
		aggregates[id] = makeAgg(id, domain.BaselineLimited, domain.FileHits{Path: "a.css", Hits: 5 - i})
		risks = append(risks, id)
	}

	actions := testReporter().generateActions(aggregates, risks)
	if len(actions) != 3 {
		t.Errorf("len(actions) = %d, want 3", len(actions))
	}
}

func TestFormatCharts(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"risky": makeAgg("risky", domain.BaselineLimited,
			domain.FileHits{Path: "a.css", Hits: 3},
			domain.FileHits{Path: "b.css", Hits: 1},
		),
	}
	metrics := &domain.Metrics{
		GlobalScore:  25.0,
		LimitedCount: 1,
		WidelyCount:  0,
		NewlyCount:   0,
		BrowserCoverage: map[string]float64{
			"chrome": 100, "firefox": 100, "safari": 0, "edge": 100,
		},
		TopRisks:      []string{"risky"},
		TotalFeatures: 1,
		Target:        "baseline-2024",
	}

	charts := testReporter().FormatCharts(metrics, aggregates)

	if charts.CompatibilityOverview.Data["limited"] != 1 {
		t.Errorf("donut limited = %d", charts.CompatibilityOverview.Data["limited"])
	}
	if charts.CompatibilityOverview.Colors["limited"] != "#ef4444" {
		t.Errorf("limited color = %s", charts.CompatibilityOverview.Colors["limited"])
	}
	if charts.BrowserBars.Data["safari"] != 0 {
		t.Errorf("bar safari = %v", charts.BrowserBars.Data["safari"])
	}
	if len(charts.TopRisks.Data) != 1 {
		t.Fatalf("risk items = %d", len(charts.TopRisks.Data))
	}
	item := charts.TopRisks.Data[0]
	if item.Feature != "risky" || item.Hits != 4 || item.Files != 2 || item.Status != domain.BaselineLimited {
		t.Errorf("risk item = %+v", item)
	}
	if charts.Trend.Value != 25.0 || charts.Trend.Target != 80.0 {
		t.Errorf("gauge = %+v", charts.Trend)
	}
	if !strings.Contains(charts.Trend.Label, "baseline-2024") {
		t.Errorf("gauge label = %s", charts.Trend.Label)
	}
}

func TestFormatSummary(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"css-has-selector": makeAgg("css-has-selector", domain.BaselineLimited,
			domain.FileHits{Path: "a.css", Hits: 2}),
	}
	metrics := &domain.Metrics{
		GlobalScore:  50.0,
		WidelyCount:  1,
		LimitedCount: 1,
		BrowserCoverage: map[string]float64{
			"chrome": 100, "firefox": 100, "safari": 50, "edge": 100,
		},
		TopRisks:      []string{"css-has-selector"},
		TotalFeatures: 2,
		Target:        "baseline-2024",
	}

	out := testReporter().FormatSummary(metrics, aggregates)

	for _, want := range []string{
		"BASELINE COMPATIBILITY REPORT",
		"Score: 50.0% (target: baseline-2024)",
		"Features detected: 2",
		"widely supported: 1",
		"limited support:  1",
		"Weakest support: safari (50.0%)",
		"1. css-has-selector",
		"Add polyfills for limited features",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestFormatSummary_HighScore(t *testing.T) {
	metrics := &domain.Metrics{
		GlobalScore: 100.0,
		WidelyCount: 2,
		BrowserCoverage: map[string]float64{
			"chrome": 100, "firefox": 100, "safari": 100, "edge": 100,
		},
		TotalFeatures: 2,
		Target:        "widely",
	}

	out := testReporter().FormatSummary(metrics, map[string]*domain.FeatureAggregate{})
	if !strings.Contains(out, "Good compatibility! Continue monitoring new features") {
		t.Errorf("missing positive recommendation:\n%s", out)
	}
}
