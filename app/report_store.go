package app

import (
	"sync"

	"github.com/baseline-tools/bscan/domain"
)

// ReportStore retains the most recent audit report and its chart projection.
// Each audit run overwrites the previous result; no history is kept. The
// store replaces ambient global state with an explicit, orchestrator-owned
// object written by one run at a time.
type ReportStore struct {
	mu     sync.RWMutex
	report *domain.Report
	charts *domain.ChartData
}

// NewReportStore creates an empty ReportStore
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Set overwrites the stored report and charts
func (s *ReportStore) Set(report *domain.Report, charts *domain.ChartData) {
	s.mu.Lock()
	s.report = report
	s.charts = charts
	s.mu.Unlock()
}

// LastReport returns the most recent report, or nil if no audit has run
func (s *ReportStore) LastReport() *domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// LastCharts returns the most recent chart data, or nil if no audit has run
func (s *ReportStore) LastCharts() *domain.ChartData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.charts
}
