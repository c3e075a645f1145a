package domain

// BaselineStatus classifies a web feature's cross-browser support maturity
type BaselineStatus string

const (
	// BaselineWidely means the feature is long-established across browsers
	BaselineWidely BaselineStatus = "widely"

	// BaselineNewly means the feature recently became broadly available
	BaselineNewly BaselineStatus = "newly"

	// BaselineLimited means the feature is not broadly supported
	BaselineLimited BaselineStatus = "limited"
)

// RiskRank orders statuses by severity for risk sorting (lower sorts first)
func (s BaselineStatus) RiskRank() int {
	switch s {
	case BaselineLimited:
		return 0
	case BaselineNewly:
		return 1
	default:
		return 2
	}
}

// StatusSource records how a StatusRecord was obtained, so callers can
// distinguish a confident answer from a degraded or guessed one.
type StatusSource string

const (
	// StatusSourceLive is a successful direct fetch from the remote service
	StatusSourceLive StatusSource = "live"

	// StatusSourceSearch is a successful search-by-id fallback result
	StatusSourceSearch StatusSource = "search"

	// StatusSourceCache is a fresh cache hit (no network access)
	StatusSourceCache StatusSource = "cache"

	// StatusSourceStale is an expired cache entry returned after a failed fetch
	StatusSourceStale StatusSource = "stale"

	// StatusSourceUnknown is a synthetic record; nothing could be resolved
	StatusSourceUnknown StatusSource = "unknown"
)

// Degraded reports whether the record is a fallback rather than a live answer
func (s StatusSource) Degraded() bool {
	return s == StatusSourceStale || s == StatusSourceUnknown
}

// StatusRecord is the normalized baseline support data for one feature
type StatusRecord struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	BaselineStatus BaselineStatus `json:"baseline_status"`
	BaselineDate   string         `json:"baseline_date,omitempty"`

	// Browsers maps browser name to minimum supporting version string.
	// Browsers the remote service doesn't report are absent.
	Browsers map[string]string `json:"browsers"`

	Description string `json:"description,omitempty"`

	// Source tags the provenance of this record
	Source StatusSource `json:"source,omitempty"`

	// Error carries the failure message when the record is synthetic
	Error string `json:"error,omitempty"`
}

// DisplayName returns the human-readable name, falling back to the id
func (r *StatusRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
