package domain

import "regexp"

// RuleGroup identifies the language family a detection rule applies to
type RuleGroup string

const (
	// RuleGroupCSS matches stylesheets and embedded <style> content
	RuleGroupCSS RuleGroup = "css"

	// RuleGroupJS matches JavaScript/TypeScript and embedded <script> content
	RuleGroupJS RuleGroup = "js"

	// RuleGroupHTML matches markup-level features
	RuleGroupHTML RuleGroup = "html"
)

// Valid reports whether the group is one of the known language families
func (g RuleGroup) Valid() bool {
	switch g {
	case RuleGroupCSS, RuleGroupJS, RuleGroupHTML:
		return true
	}
	return false
}

// FeatureRule is a compiled detection rule for one web feature.
// Rules are immutable after load; invalid patterns are dropped at load time.
type FeatureRule struct {
	// ID is the web feature identifier (e.g., "css-has-selector")
	ID string

	// Pattern is the compiled detection regex
	Pattern *regexp.Regexp

	// Group selects which file contents the rule is applied to
	Group RuleGroup
}

// FileRecord describes one candidate file produced by the walker
type FileRecord struct {
	// AbsPath is the absolute path on disk
	AbsPath string

	// RelPath is the path relative to the scan root, used in reports
	RelPath string

	// Ext is the lowercased file extension including the dot
	Ext string
}

// FileHits records how many times a feature was matched in one file
type FileHits struct {
	Path string `json:"path"`
	Hits int    `json:"hits"`
}

// FeatureAggregate accumulates all hits for one feature across a scan.
// It is owned by a single audit run; Status is attached after the
// remote-resolution phase completes.
type FeatureAggregate struct {
	ID        string        `json:"id"`
	TotalHits int           `json:"total_hits"`
	Files     []FileHits    `json:"files"`
	Status    *StatusRecord `json:"status,omitempty"`
}

// FileCount returns the number of distinct files the feature was seen in
func (a *FeatureAggregate) FileCount() int {
	return len(a.Files)
}

// BaselineOrLimited returns the aggregate's baseline status, defaulting to
// limited when no status has been resolved yet
func (a *FeatureAggregate) BaselineOrLimited() BaselineStatus {
	if a.Status == nil {
		return BaselineLimited
	}
	return a.Status.BaselineStatus
}
