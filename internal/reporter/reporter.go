// Package reporter renders aggregated audit data into report structures,
// chart projections and a text summary. All formatting is pure: inputs are
// never mutated and no I/O is performed.
package reporter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/version"
)

// maxFilesPerFeature truncates each feature's file list in the report
const maxFilesPerFeature = 10

// maxActions caps the generated recommendation list
const maxActions = 5

// scoreTarget is the gauge threshold shown in the trend chart
const scoreTarget = 80.0

var statusColors = map[string]string{
	"widely":  "#22c55e",
	"newly":   "#f59e0b",
	"limited": "#ef4444",
}

var browserColors = map[string]string{
	"chrome":  "#4285f4",
	"firefox": "#ff9500",
	"safari":  "#0fb5ee",
	"edge":    "#0078d4",
}

// Reporter formats audit results
type Reporter struct {
	now func() time.Time
}

// New creates a Reporter
func New() *Reporter {
	return &Reporter{now: time.Now}
}

// FormatReport builds the complete structured report. Features are sorted by
// risk priority (limited < newly < widely, hits descending) and each file
// list is truncated to its top entries by hit count.
func (r *Reporter) FormatReport(aggregates map[string]*domain.FeatureAggregate, metrics *domain.Metrics, fileCount int) *domain.Report {
	features := make([]domain.FeatureEntry, 0, len(aggregates))

	for id, agg := range aggregates {
		status := agg.BaselineOrLimited()

		name := id
		browsers := map[string]string{}
		if agg.Status != nil {
			name = agg.Status.DisplayName()
			if agg.Status.Browsers != nil {
				browsers = agg.Status.Browsers
			}
		}

		files := make([]domain.FileHits, len(agg.Files))
		copy(files, agg.Files)
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Hits > files[j].Hits
		})
		if len(files) > maxFilesPerFeature {
			files = files[:maxFilesPerFeature]
		}

		features = append(features, domain.FeatureEntry{
			ID:        id,
			Name:      name,
			Status:    status,
			Browsers:  browsers,
			Files:     files,
			TotalHits: agg.TotalHits,
			FileCount: agg.FileCount(),
		})
	}

	sort.SliceStable(features, func(i, j int) bool {
		if features[i].Status.RiskRank() != features[j].Status.RiskRank() {
			return features[i].Status.RiskRank() < features[j].Status.RiskRank()
		}
		if features[i].TotalHits != features[j].TotalHits {
			return features[i].TotalHits > features[j].TotalHits
		}
		return features[i].ID < features[j].ID
	})

	return &domain.Report{
		Summary: domain.ReportSummary{
			FilesScanned:      fileCount,
			FeaturesTotal:     metrics.TotalFeatures,
			ScoreGlobal:       metrics.GlobalScore,
			CoverageByBrowser: metrics.BrowserCoverage,
			Target:            metrics.Target,
		},
		Features:    features,
		NextActions: r.generateActions(aggregates, metrics.TopRisks),
		GeneratedAt: r.now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}
}

// FormatCharts builds the visualization projection of the metrics
func (r *Reporter) FormatCharts(metrics *domain.Metrics, aggregates map[string]*domain.FeatureAggregate) *domain.ChartData {
	riskItems := make([]domain.RiskItem, 0, len(metrics.TopRisks))
	for _, id := range metrics.TopRisks {
		item := domain.RiskItem{Feature: id, Status: domain.BaselineLimited}
		if agg, ok := aggregates[id]; ok {
			item.Status = agg.BaselineOrLimited()
			item.Files = agg.FileCount()
			item.Hits = agg.TotalHits
		}
		riskItems = append(riskItems, item)
	}

	return &domain.ChartData{
		CompatibilityOverview: domain.DonutChart{
			Type: "donut",
			Data: map[string]int{
				"widely":  metrics.WidelyCount,
				"newly":   metrics.NewlyCount,
				"limited": metrics.LimitedCount,
			},
			Colors: statusColors,
		},
		BrowserBars: domain.BarChart{
			Type:   "bar",
			Data:   metrics.BrowserCoverage,
			Colors: browserColors,
		},
		TopRisks: domain.RiskChart{
			Type: "list",
			Data: riskItems,
		},
		Trend: domain.GaugeChart{
			Type:   "gauge",
			Value:  metrics.GlobalScore,
			Target: scoreTarget,
			Label:  fmt.Sprintf("Compatibility Score (%s)", metrics.Target),
		},
	}
}

// FormatSummary renders a human-readable text summary
func (r *Reporter) FormatSummary(metrics *domain.Metrics, aggregates map[string]*domain.FeatureAggregate) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "BASELINE COMPATIBILITY REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Score: %.1f%% (target: %s)\n", metrics.GlobalScore, metrics.Target)

	fmt.Fprintf(&b, "\nFeatures detected: %d\n", metrics.TotalFeatures)
	fmt.Fprintf(&b, "  - widely supported: %d\n", metrics.WidelyCount)
	fmt.Fprintf(&b, "  - newly available:  %d\n", metrics.NewlyCount)
	fmt.Fprintf(&b, "  - limited support:  %d\n", metrics.LimitedCount)

	fmt.Fprintf(&b, "\nBrowser coverage:\n")
	browsers := make([]string, 0, len(metrics.BrowserCoverage))
	for browser := range metrics.BrowserCoverage {
		browsers = append(browsers, browser)
	}
	sort.Strings(browsers)
	for _, browser := range browsers {
		fmt.Fprintf(&b, "  %-8s %.1f%%\n", browser, metrics.BrowserCoverage[browser])
	}

	if weakest := weakestBrowser(metrics.BrowserCoverage); weakest != "" {
		fmt.Fprintf(&b, "\nWeakest support: %s (%.1f%%)\n", weakest, metrics.BrowserCoverage[weakest])
	}

	if len(metrics.TopRisks) > 0 {
		fmt.Fprintf(&b, "\nTop compatibility risks:\n")
		for i, id := range metrics.TopRisks {
			if i == 3 {
				break
			}
			agg, ok := aggregates[id]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  %d. %s\n", i+1, id)
			fmt.Fprintf(&b, "     status: %s | files: %d\n", agg.BaselineOrLimited(), agg.FileCount())
		}
	}

	fmt.Fprintf(&b, "\nRecommendations:\n")
	if metrics.LimitedCount > 0 {
		fmt.Fprintln(&b, "  - Add polyfills for limited features")
		fmt.Fprintln(&b, "  - Consider fallback implementations")
	}
	if metrics.NewlyCount > 3 {
		fmt.Fprintln(&b, "  - Monitor browser updates for newly supported features")
		fmt.Fprintln(&b, "  - Test thoroughly in older browser versions")
	}
	if metrics.GlobalScore >= 80 {
		fmt.Fprintln(&b, "  - Good compatibility! Continue monitoring new features")
	}

	fmt.Fprintln(&b, rule)
	return b.String()
}

// generateActions derives up to maxActions recommendations from the top
// risks, with feature-specific phrasing where the id suggests a known
// migration path.
func (r *Reporter) generateActions(aggregates map[string]*domain.FeatureAggregate, topRisks []string) []string {
	var actions []string

	for i, id := range topRisks {
		if i == 3 || len(actions) == maxActions {
			break
		}
		agg, ok := aggregates[id]
		if !ok {
			continue
		}

		topFile := "unknown"
		if len(agg.Files) > 0 {
			best := agg.Files[0]
			for _, f := range agg.Files[1:] {
				if f.Hits > best.Hits {
					best = f
				}
			}
			topFile = best.Path
		}

		switch agg.BaselineOrLimited() {
		case domain.BaselineLimited:
			switch {
			case strings.Contains(id, "container"):
				actions = append(actions, fmt.Sprintf("Replace @container with media queries in %s", topFile))
			case strings.Contains(id, "subgrid"):
				actions = append(actions, fmt.Sprintf("Use nested grids instead of subgrid in %s", topFile))
			case strings.Contains(id, "has"):
				actions = append(actions, fmt.Sprintf("Refactor :has() with JavaScript fallback in %s", topFile))
			case strings.Contains(id, "dialog"):
				actions = append(actions, "Add dialog polyfill or use modal library")
			default:
				actions = append(actions, fmt.Sprintf("Add polyfill for %s", id))
			}
		case domain.BaselineNewly:
			actions = append(actions, fmt.Sprintf("Test %s in older browsers (newly available)", id))
		}
	}

	if len(actions) == 0 {
		if len(aggregates) > 0 {
			actions = append(actions, "All detected features have good browser support")
		} else {
			actions = append(actions, "No compatibility issues detected")
		}
	}

	return actions
}

// weakestBrowser returns the browser with the lowest coverage, breaking ties
// by name for determinism
func weakestBrowser(coverage map[string]float64) string {
	weakest := ""
	for browser, pct := range coverage {
		if weakest == "" || pct < coverage[weakest] || (pct == coverage[weakest] && browser < weakest) {
			weakest = browser
		}
	}
	return weakest
}
