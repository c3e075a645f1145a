package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baseline-tools/bscan/domain"
)

func TestCompile_SkipsInvalidRules(t *testing.T) {
	var warnings []string
	warnf := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	raw := map[string]RawRule{
		"good-css":    {Pattern: `:has\(`, Group: "css"},
		"bad-pattern": {Pattern: `:has(`, Group: "css"},
		"bad-group":   {Pattern: `foo`, Group: "python"},
		"no-pattern":  {Group: "js"},
	}

	set := Compile(raw, warnf)

	if set.Len() != 1 {
		t.Fatalf("expected 1 compiled rule, got %d", set.Len())
	}
	if got := set.All()[0].ID; got != "good-css" {
		t.Errorf("expected good-css to survive, got %s", got)
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
}

func TestCompile_CSSCaseInsensitiveJSCaseSensitive(t *testing.T) {
	set := Compile(map[string]RawRule{
		"css-rule": {Pattern: `@container`, Group: "css"},
		"js-rule":  {Pattern: `structuredClone`, Group: "js"},
	}, nil)

	cssRule := set.Group(domain.RuleGroupCSS)[0]
	if !cssRule.Pattern.MatchString("@CONTAINER (min-width: 10px)") {
		t.Error("css rule should match case-insensitively")
	}

	jsRule := set.Group(domain.RuleGroupJS)[0]
	if jsRule.Pattern.MatchString("STRUCTUREDCLONE(x)") {
		t.Error("js rule should be case-sensitive")
	}
	if !jsRule.Pattern.MatchString("structuredClone(x)") {
		t.Error("js rule should match exact case")
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	var warnings []string
	warnf := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	set := Load(filepath.Join(t.TempDir(), "nope.yaml"), warnf)

	if set.Len() != len(DefaultRules()) {
		t.Errorf("expected %d default rules, got %d", len(DefaultRules()), set.Len())
	}
	if len(warnings) == 0 {
		t.Error("expected a warning about the missing rule file")
	}
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	var warned bool
	set := Load(path, func(format string, args ...interface{}) {
		if strings.Contains(format, "malformed") {
			warned = true
		}
	})

	if set.Len() != len(DefaultRules()) {
		t.Errorf("expected default rules on malformed file, got %d rules", set.Len())
	}
	if !warned {
		t.Error("expected a malformed-file warning")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
my-feature:
  pattern: 'view-transition'
  group: css
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set := Load(path, nil)

	if set.Len() != 1 {
		t.Fatalf("expected 1 rule, got %d", set.Len())
	}
	if set.All()[0].ID != "my-feature" {
		t.Errorf("unexpected rule id %s", set.All()[0].ID)
	}
}

func TestDefaultRules_AllCompile(t *testing.T) {
	set := Compile(DefaultRules(), func(format string, args ...interface{}) {
		t.Errorf("unexpected warning: "+format, args...)
	})
	if set.Len() != len(DefaultRules()) {
		t.Errorf("expected all %d default rules to compile, got %d", len(DefaultRules()), set.Len())
	}
}

func TestDefaultRules_PatternBehavior(t *testing.T) {
	set := Compile(DefaultRules(), nil)
	byID := make(map[string]domain.FeatureRule)
	for _, r := range set.All() {
		byID[r.ID] = r
	}

	tests := []struct {
		rule    string
		input   string
		matches int
	}{
		{"css-has-selector", ".card:has(img) { }", 1},
		{"css-has-selector", "a:HAS(.x) b:has(.y) { }", 2},
		{"css-container-queries", "@container sidebar (min-width: 400px) { }", 1},
		{"css-subgrid", "grid-template-columns: subgrid;", 1},
		{"js-optional-chaining", "a?.b?.c", 2},
		{"js-optional-chaining", "obj?.5", 0}, // numeric access is a ternary, not chaining
		{"js-nullish-coalescing", "x ?? y", 1},
		{"js-nullish-coalescing", "x ??= y", 0},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.input, func(t *testing.T) {
			rule, ok := byID[tt.rule]
			if !ok {
				t.Fatalf("rule %s not found", tt.rule)
			}
			got := len(rule.Pattern.FindAllStringIndex(tt.input, -1))
			if got != tt.matches {
				t.Errorf("expected %d matches, got %d", tt.matches, got)
			}
		})
	}
}
