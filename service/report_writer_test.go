package service

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseline-tools/bscan/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Summary: domain.ReportSummary{
			FilesScanned:  2,
			FeaturesTotal: 2,
			ScoreGlobal:   50.0,
			CoverageByBrowser: map[string]float64{
				"chrome": 100, "firefox": 100, "safari": 50, "edge": 100,
			},
			Target: "baseline-2024",
		},
		Features: []domain.FeatureEntry{
			{
				ID:        "css-has-selector",
				Name:      ":has()",
				Status:    domain.BaselineLimited,
				Browsers:  map[string]string{"chrome": "105"},
				Files:     []domain.FileHits{{Path: "styles/main.css", Hits: 2}},
				TotalHits: 2,
				FileCount: 1,
			},
		},
		NextActions: []string{"Refactor :has() with JavaScript fallback in styles/main.css"},
		GeneratedAt: "2025-06-01T12:00:00Z",
		Version:     "1.0.0",
	}
}

func TestExportAndReadReport_RoundTrip(t *testing.T) {
	w := NewReportWriter()
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, w.Export(sampleReport(), path), "export creates parent directories")

	got, err := w.ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), got)
}

func TestExport_NilReport(t *testing.T) {
	w := NewReportWriter()
	err := w.Export(nil, filepath.Join(t.TempDir(), "report.json"))
	assert.True(t, domain.IsValidationError(err))
}

func TestExport_UnwritablePath(t *testing.T) {
	w := NewReportWriter()
	err := w.Export(sampleReport(), filepath.Join(t.TempDir(), "missing\x00dir", "report.json"))
	require.Error(t, err)

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrCodeIO, derr.Code)
}

func TestReadReport_Malformed(t *testing.T) {
	w := NewReportWriter()
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, w.Export(sampleReport(), path))

	_, err := w.ReadReport(strings.TrimSuffix(path, ".json") + "-missing.json")
	assert.Error(t, err)
}

func TestWriteJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
