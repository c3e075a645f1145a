package analyzer

import (
	"reflect"
	"testing"

	"github.com/baseline-tools/bscan/domain"
)

func agg(id string, hits, files int, status domain.BaselineStatus, browsers map[string]string) *domain.FeatureAggregate {
	fileHits := make([]domain.FileHits, files)
	for i := range fileHits {
		fileHits[i] = domain.FileHits{Path: "f" + string(rune('a'+i)), Hits: hits / files}
	}
	return &domain.FeatureAggregate{
		ID:        id,
		TotalHits: hits,
		Files:     fileHits,
		Status: &domain.StatusRecord{
			ID:             id,
			BaselineStatus: status,
			Browsers:       browsers,
		},
	}
}

func TestNew_UnknownTargetFallsBack(t *testing.T) {
	var warned bool
	a := New("baseline-1999", nil, func(format string, args ...interface{}) {
		warned = true
	})
	if a.Target() != DefaultTarget {
		t.Errorf("expected fallback to %s, got %s", DefaultTarget, a.Target())
	}
	if !warned {
		t.Error("expected a warning for unknown target")
	}
}

func TestAnalyze_EmptySet(t *testing.T) {
	a := New("widely", nil, nil)
	m := a.Analyze(nil)

	if m.GlobalScore != 100.0 {
		t.Errorf("empty set score = %v, want 100.0", m.GlobalScore)
	}
	if m.TotalFeatures != 0 {
		t.Errorf("TotalFeatures = %d, want 0", m.TotalFeatures)
	}
	if len(m.TopRisks) != 0 {
		t.Errorf("TopRisks = %v, want empty", m.TopRisks)
	}
	for _, browser := range Browsers {
		if m.BrowserCoverage[browser] != 100.0 {
			t.Errorf("coverage[%s] = %v, want 100.0", browser, m.BrowserCoverage[browser])
		}
	}
}

func TestAnalyze_GlobalScore(t *testing.T) {
	tests := []struct {
		name                   string
		widely, newly, limited int
		want                   float64
	}{
		{name: "all widely", widely: 3, want: 100.0},
		{name: "all limited", limited: 2, want: 0.0},
		{name: "all newly", newly: 2, want: 50.0},
		{name: "one widely one limited", widely: 1, limited: 1, want: 50.0},
		{name: "two widely one newly", widely: 2, newly: 1, want: 83.3},
		{name: "mixed", widely: 1, newly: 1, limited: 1, want: 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregates := make(map[string]*domain.FeatureAggregate)
			n := 0
			add := func(count int, status domain.BaselineStatus) {
				for i := 0; i < count; i++ {
					id := "feat-" + string(rune('a'+n))
					aggregates[id] = agg(id, 1, 1, status, nil)
					n++
				}
			}
			add(tt.widely, domain.BaselineWidely)
			add(tt.newly, domain.BaselineNewly)
			add(tt.limited, domain.BaselineLimited)

			m := New("baseline-2024", nil, nil).Analyze(aggregates)
			if m.GlobalScore != tt.want {
				t.Errorf("GlobalScore = %v, want %v", m.GlobalScore, tt.want)
			}
			if m.TotalFeatures != tt.widely+tt.newly+tt.limited {
				t.Errorf("TotalFeatures = %d", m.TotalFeatures)
			}
		})
	}
}

func TestAnalyze_MissingStatusCountsAsLimited(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"mystery": {ID: "mystery", TotalHits: 1, Files: []domain.FileHits{{Path: "a.css", Hits: 1}}},
	}
	m := New("baseline-2024", nil, nil).Analyze(aggregates)
	if m.LimitedCount != 1 {
		t.Errorf("LimitedCount = %d, want 1", m.LimitedCount)
	}
	if m.GlobalScore != 0.0 {
		t.Errorf("GlobalScore = %v, want 0.0", m.GlobalScore)
	}
}

func TestAnalyze_BrowserCoverage(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"old": agg("old", 1, 1, domain.BaselineWidely, map[string]string{
			"chrome": "130", "firefox": "130", "safari": "18", "edge": "130",
		}),
		"new": agg("new", 1, 1, domain.BaselineNewly, map[string]string{
			"chrome": "130", "firefox": "130", "safari": "16.4", "edge": "130",
		}),
	}

	m := New("baseline-2024", nil, nil).Analyze(aggregates)

	// baseline-2024 wants safari >= 17; "16.4" parses to major 16
	if m.BrowserCoverage["safari"] != 50.0 {
		t.Errorf("safari coverage = %v, want 50.0", m.BrowserCoverage["safari"])
	}
	if m.BrowserCoverage["chrome"] != 100.0 {
		t.Errorf("chrome coverage = %v, want 100.0", m.BrowserCoverage["chrome"])
	}
}

func TestAnalyze_UnparsableVersionCountsUnsupported(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		"odd": agg("odd", 1, 1, domain.BaselineWidely, map[string]string{
			"chrome": "unknown", "firefox": "130", "safari": "18", "edge": "130",
		}),
	}

	m := New("baseline-2024", nil, nil).Analyze(aggregates)
	if m.BrowserCoverage["chrome"] != 0.0 {
		t.Errorf("chrome coverage = %v, want 0.0", m.BrowserCoverage["chrome"])
	}
	if m.BrowserCoverage["firefox"] != 100.0 {
		t.Errorf("firefox coverage = %v, want 100.0", m.BrowserCoverage["firefox"])
	}
}

func TestAnalyze_RiskRanking(t *testing.T) {
	aggregates := map[string]*domain.FeatureAggregate{
		// limited always outranks newly regardless of hit counts
		"newly-big":   agg("newly-big", 50, 5, domain.BaselineNewly, nil),
		"limited-one": agg("limited-one", 1, 1, domain.BaselineLimited, nil),
		// among limited: hits descending
		"limited-many": agg("limited-many", 9, 1, domain.BaselineLimited, nil),
		"stable":       agg("stable", 100, 10, domain.BaselineWidely, nil),
	}

	m := New("baseline-2024", nil, nil).Analyze(aggregates)

	want := []string{"limited-many", "limited-one", "newly-big"}
	if !reflect.DeepEqual(m.TopRisks, want) {
		t.Errorf("TopRisks = %v, want %v", m.TopRisks, want)
	}
}

func TestAnalyze_RiskTieBreaks(t *testing.T) {
	// equal status and hits: distinct-file count descending, then id ascending
	aggregates := map[string]*domain.FeatureAggregate{
		"beta":  agg("beta", 4, 2, domain.BaselineLimited, nil),
		"alpha": agg("alpha", 4, 2, domain.BaselineLimited, nil),
		"gamma": agg("gamma", 4, 4, domain.BaselineLimited, nil),
	}

	m := New("baseline-2024", nil, nil).Analyze(aggregates)

	want := []string{"gamma", "alpha", "beta"}
	if !reflect.DeepEqual(m.TopRisks, want) {
		t.Errorf("TopRisks = %v, want %v", m.TopRisks, want)
	}
}

func TestAnalyze_TopRisksCapped(t *testing.T) {
	aggregates := make(map[string]*domain.FeatureAggregate)
	for i := 0; i < 8; i++ {
		id := "risk-" + string(rune('a'+i))
		aggregates[id] = agg(id, i+1, 1, domain.BaselineLimited, nil)
	}

	m := New("baseline-2024", nil, nil).Analyze(aggregates)
	if len(m.TopRisks) != maxTopRisks {
		t.Errorf("len(TopRisks) = %d, want %d", len(m.TopRisks), maxTopRisks)
	}
	// highest hit count first
	if m.TopRisks[0] != "risk-h" {
		t.Errorf("TopRisks[0] = %s, want risk-h", m.TopRisks[0])
	}
}

func TestDefaultTargets_KnownProfiles(t *testing.T) {
	targets := DefaultTargets()
	for _, name := range []string{"baseline-2024", "baseline-2023", "baseline-2022", "widely", "conservative"} {
		minima, ok := targets[name]
		if !ok {
			t.Errorf("missing target %s", name)
			continue
		}
		for _, browser := range Browsers {
			if _, ok := minima[browser]; !ok {
				t.Errorf("target %s missing browser %s", name, browser)
			}
		}
	}
}
