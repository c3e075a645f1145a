// Package rules loads and compiles the feature detection rule set.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/baseline-tools/bscan/domain"
)

// RawRule is the on-disk form of a detection rule
type RawRule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Group   string `yaml:"group" json:"group"`
}

// Set is an immutable compiled rule set, grouped by language family
type Set struct {
	rules   []domain.FeatureRule
	byGroup map[domain.RuleGroup][]domain.FeatureRule
}

// Load reads a YAML rule file and compiles it. A missing or malformed file
// falls back to the built-in default set with a warning; loading never fails.
func Load(path string, warnf func(format string, args ...interface{})) *Set {
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}

	raw := DefaultRules()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			warnf("rule file %s unreadable, using built-in rules: %v", path, err)
		} else {
			var loaded map[string]RawRule
			if err := yaml.Unmarshal(data, &loaded); err != nil {
				warnf("rule file %s malformed, using built-in rules: %v", path, err)
			} else if len(loaded) == 0 {
				warnf("rule file %s is empty, using built-in rules", path)
			} else {
				raw = loaded
			}
		}
	}

	return Compile(raw, warnf)
}

// Compile turns raw rules into a compiled Set. Rules with an unknown group
// or an uncompilable pattern are skipped with a warning.
func Compile(raw map[string]RawRule, warnf func(format string, args ...interface{})) *Set {
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}

	// Deterministic compile order so warnings and iteration are stable
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := &Set{
		byGroup: make(map[domain.RuleGroup][]domain.FeatureRule),
	}

	for _, id := range ids {
		r := raw[id]
		group := domain.RuleGroup(r.Group)
		if !group.Valid() {
			warnf("rule %s has unknown group %q, skipping", id, r.Group)
			continue
		}
		if r.Pattern == "" {
			warnf("rule %s has no pattern, skipping", id)
			continue
		}

		expr := r.Pattern
		// CSS and HTML matching is case-insensitive; JS is case-sensitive
		if group == domain.RuleGroupCSS || group == domain.RuleGroupHTML {
			expr = "(?i)" + expr
		}

		compiled, err := regexp.Compile(expr)
		if err != nil {
			warnf("rule %s has invalid pattern %q, skipping: %v", id, r.Pattern, err)
			continue
		}

		rule := domain.FeatureRule{ID: id, Pattern: compiled, Group: group}
		s.rules = append(s.rules, rule)
		s.byGroup[group] = append(s.byGroup[group], rule)
	}

	return s
}

// Group returns the compiled rules for one language family
func (s *Set) Group(g domain.RuleGroup) []domain.FeatureRule {
	return s.byGroup[g]
}

// Len returns the total number of compiled rules
func (s *Set) Len() int {
	return len(s.rules)
}

// All returns every compiled rule in deterministic (id) order
func (s *Set) All() []domain.FeatureRule {
	return s.rules
}

// DefaultRules returns the built-in detection rule set used when no rule
// file is configured or the configured file cannot be loaded.
func DefaultRules() map[string]RawRule {
	return map[string]RawRule{
		"css-container-queries": {
			Pattern: `@container\s+[\w-]+|@container\s*\(`,
			Group:   "css",
		},
		"css-has-selector": {
			Pattern: `:has\s*\([^)]+\)`,
			Group:   "css",
		},
		"css-subgrid": {
			Pattern: `grid-template-(rows|columns)\s*:\s*subgrid`,
			Group:   "css",
		},
		// RE2 has no lookahead; the trailing character class excludes the
		// numeric-literal (?.5) and compound-assignment (??=) false positives
		"js-optional-chaining": {
			Pattern: `\?\.(?:[^0-9]|$)`,
			Group:   "js",
		},
		"js-nullish-coalescing": {
			Pattern: `\?\?(?:[^=]|$)`,
			Group:   "js",
		},
	}
}

// String implements fmt.Stringer for debugging
func (s *Set) String() string {
	return fmt.Sprintf("rules.Set(%d rules)", len(s.rules))
}
