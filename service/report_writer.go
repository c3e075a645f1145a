package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/baseline-tools/bscan/domain"
)

// ReportWriter serializes audit artifacts
type ReportWriter struct{}

// NewReportWriter creates a ReportWriter
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Export serializes the report as indented JSON to path, creating parent
// directories as needed
func (w *ReportWriter) Export(report *domain.Report, path string) error {
	if report == nil {
		return domain.NewValidationError("no report to export", nil)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewIOError(fmt.Sprintf("creating directory %s", dir), err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.NewIOError(fmt.Sprintf("creating %s", path), err)
	}
	defer f.Close()

	if err := WriteJSON(f, report); err != nil {
		return domain.NewIOError(fmt.Sprintf("writing %s", path), err)
	}
	return nil
}

// ReadReport parses a previously exported report from path
func (w *ReportWriter) ReadReport(path string) (*domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("reading %s", path), err)
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, domain.NewIOError(fmt.Sprintf("parsing %s", path), err)
	}
	return &report, nil
}
