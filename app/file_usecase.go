package app

import (
	"context"
	"math"
	"path/filepath"
	"sort"
	"sync"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/detector"
	"github.com/baseline-tools/bscan/internal/rules"
	"github.com/baseline-tools/bscan/internal/validate"
)

// FileAuditUseCase audits a single file for tracked web features
type FileAuditUseCase struct {
	rules  *rules.Set
	status domain.StatusService
}

// NewFileAuditUseCase creates a single-file audit use case
func NewFileAuditUseCase(ruleSet *rules.Set, status domain.StatusService) *FileAuditUseCase {
	return &FileAuditUseCase{rules: ruleSet, status: status}
}

// Execute validates the file, detects features and resolves their statuses.
// The file score weighs widely features at 1.0 and newly at 0.5.
func (uc *FileAuditUseCase) Execute(ctx context.Context, path string) (*domain.FileAudit, error) {
	if err := validate.FilePath(path); err != nil {
		return nil, err
	}

	det := detector.New(uc.rules, nil)
	hits := det.Detect(path)

	audit := &domain.FileAudit{
		File:          filepath.Base(path),
		Features:      []string{},
		Statuses:      []domain.FeatureStatusLine{},
		TotalFeatures: len(hits),
	}

	if len(hits) == 0 {
		audit.FileScore = 100.0
		audit.Message = "No tracked features detected - good compatibility!"
		return audit, nil
	}

	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	audit.Features = ids

	// Fan out; the status service bounds its own concurrency and never fails
	defer uc.status.Close()
	records := make(map[string]*domain.StatusRecord, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := uc.status.GetStatus(ctx, id)
			mu.Lock()
			records[id] = record
			mu.Unlock()
		}()
	}
	wg.Wait()

	scoreSum := 0.0
	for _, id := range ids {
		record := records[id]
		audit.Statuses = append(audit.Statuses, domain.FeatureStatusLine{
			Feature:        id,
			Name:           record.DisplayName(),
			Hits:           hits[id],
			BaselineStatus: record.BaselineStatus,
			Browsers:       record.Browsers,
		})
		switch record.BaselineStatus {
		case domain.BaselineWidely:
			scoreSum += 1.0
		case domain.BaselineNewly:
			scoreSum += 0.5
		}
	}

	audit.FileScore = math.Round(scoreSum/float64(len(ids))*1000) / 10
	return audit, nil
}
