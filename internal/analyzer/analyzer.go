// Package analyzer turns feature aggregates into compatibility metrics.
package analyzer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/baseline-tools/bscan/domain"
)

// DefaultTarget is the baseline profile used when an unknown one is requested
const DefaultTarget = "baseline-2024"

// maxTopRisks caps the ranked risk list
const maxTopRisks = 5

// Browsers are the engines tracked for coverage scoring
var Browsers = []string{"chrome", "firefox", "safari", "edge"}

// TargetTable maps a target baseline name to minimum browser versions
type TargetTable map[string]map[string]float64

// DefaultTargets returns the built-in target baseline table
func DefaultTargets() TargetTable {
	return TargetTable{
		"baseline-2024": {"chrome": 121, "firefox": 122, "safari": 17, "edge": 121},
		"baseline-2023": {"chrome": 109, "firefox": 109, "safari": 16, "edge": 109},
		"baseline-2022": {"chrome": 97, "firefox": 97, "safari": 15.4, "edge": 97},
		"widely":        {"chrome": 100, "firefox": 100, "safari": 15, "edge": 100},
		"conservative":  {"chrome": 90, "firefox": 90, "safari": 14, "edge": 90},
	}
}

// Analyzer computes metrics against one target baseline
type Analyzer struct {
	target string
	minima map[string]float64
}

// New creates an Analyzer for the given target. An unrecognized target falls
// back to DefaultTarget with a warning rather than failing.
func New(target string, targets TargetTable, warnf func(format string, args ...interface{})) *Analyzer {
	if targets == nil {
		targets = DefaultTargets()
	}
	minima, ok := targets[target]
	if !ok {
		if warnf != nil {
			warnf("unknown target %q, falling back to %s", target, DefaultTarget)
		}
		target = DefaultTarget
		minima = targets[DefaultTarget]
	}
	return &Analyzer{target: target, minima: minima}
}

// Target returns the resolved target baseline name
func (a *Analyzer) Target() string {
	return a.target
}

// candidate is one risk entry prior to ranking
type candidate struct {
	id        string
	hits      int
	fileCount int
	status    domain.BaselineStatus
}

// Analyze computes the metrics for a finalized aggregate set
func (a *Analyzer) Analyze(aggregates map[string]*domain.FeatureAggregate) *domain.Metrics {
	if len(aggregates) == 0 {
		return a.emptyMetrics()
	}

	var widely, newly, limited int
	var risks []candidate
	supported := make(map[string][]bool, len(Browsers))

	// Deterministic iteration keeps warnings and tie-breaks stable
	ids := make([]string, 0, len(aggregates))
	for id := range aggregates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		agg := aggregates[id]
		status := agg.BaselineOrLimited()

		switch status {
		case domain.BaselineWidely:
			widely++
		case domain.BaselineNewly:
			newly++
			risks = append(risks, candidate{id, agg.TotalHits, agg.FileCount(), status})
		default:
			limited++
			risks = append(risks, candidate{id, agg.TotalHits, agg.FileCount(), status})
		}

		var browsers map[string]string
		if agg.Status != nil {
			browsers = agg.Status.Browsers
		}
		for _, browser := range Browsers {
			supported[browser] = append(supported[browser], a.browserSupports(browser, browsers))
		}
	}

	total := widely + newly + limited
	globalScore := 100.0
	if total > 0 {
		globalScore = (float64(widely)*1.0 + float64(newly)*0.5) / float64(total) * 100
	}

	coverage := make(map[string]float64, len(Browsers))
	for _, browser := range Browsers {
		results := supported[browser]
		if len(results) == 0 {
			coverage[browser] = 100.0
			continue
		}
		ok := 0
		for _, s := range results {
			if s {
				ok++
			}
		}
		coverage[browser] = round1(float64(ok) / float64(len(results)) * 100)
	}

	sortRisks(risks)
	topRisks := make([]string, 0, maxTopRisks)
	for _, r := range risks {
		if len(topRisks) == maxTopRisks {
			break
		}
		topRisks = append(topRisks, r.id)
	}

	return &domain.Metrics{
		GlobalScore:     round1(globalScore),
		WidelyCount:     widely,
		NewlyCount:      newly,
		LimitedCount:    limited,
		BrowserCoverage: coverage,
		TopRisks:        topRisks,
		TotalFeatures:   total,
		Target:          a.target,
	}
}

// browserSupports reports whether a feature counts as supported on a browser
// at the active target. Absent browsers and unparsable versions count as
// unsupported.
func (a *Analyzer) browserSupports(browser string, browsers map[string]string) bool {
	versionStr, ok := browsers[browser]
	if !ok {
		return false
	}
	major := strings.SplitN(versionStr, ".", 2)[0]
	version, err := strconv.ParseFloat(major, 64)
	if err != nil {
		return false
	}
	minimum, ok := a.minima[browser]
	if !ok {
		return false
	}
	return version >= minimum
}

// sortRisks orders candidates by limited-before-newly, then total hits
// descending, then distinct-file count descending, then id for stability
func sortRisks(risks []candidate) {
	sort.SliceStable(risks, func(i, j int) bool {
		if risks[i].status.RiskRank() != risks[j].status.RiskRank() {
			return risks[i].status.RiskRank() < risks[j].status.RiskRank()
		}
		if risks[i].hits != risks[j].hits {
			return risks[i].hits > risks[j].hits
		}
		if risks[i].fileCount != risks[j].fileCount {
			return risks[i].fileCount > risks[j].fileCount
		}
		return risks[i].id < risks[j].id
	})
}

// emptyMetrics is the vacuously-compatible result for an empty feature set
func (a *Analyzer) emptyMetrics() *domain.Metrics {
	coverage := make(map[string]float64, len(Browsers))
	for _, browser := range Browsers {
		coverage[browser] = 100.0
	}
	return &domain.Metrics{
		GlobalScore:     100.0,
		BrowserCoverage: coverage,
		TopRisks:        []string{},
		Target:          a.target,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
