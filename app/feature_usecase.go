package app

import (
	"context"
	"strings"

	"github.com/baseline-tools/bscan/domain"
)

// FeatureLookupUseCase resolves one feature id to its baseline status
type FeatureLookupUseCase struct {
	status domain.StatusService
}

// NewFeatureLookupUseCase creates a feature lookup use case
func NewFeatureLookupUseCase(status domain.StatusService) *FeatureLookupUseCase {
	return &FeatureLookupUseCase{status: status}
}

// Execute fetches the status for featureID and attaches a human-readable
// interpretation. Lookup never fails; degraded results carry an error marker.
func (uc *FeatureLookupUseCase) Execute(ctx context.Context, featureID string) (*domain.FeatureLookup, error) {
	featureID = strings.TrimSpace(featureID)
	if featureID == "" {
		return nil, domain.NewValidationError("feature id must not be empty", nil)
	}

	record := uc.status.GetStatus(ctx, featureID)

	return &domain.FeatureLookup{
		StatusRecord:   *record,
		Interpretation: interpret(record.BaselineStatus),
	}, nil
}

func interpret(status domain.BaselineStatus) string {
	switch status {
	case domain.BaselineWidely:
		return "Widely supported - safe to use"
	case domain.BaselineNewly:
		return "Newly available - monitor adoption"
	default:
		return "Limited support - use with caution"
	}
}
