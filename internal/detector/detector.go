// Package detector applies feature detection rules to file contents.
package detector

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/rules"
)

var (
	lineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	styleBlockRe   = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptBlockRe  = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
)

var jsExtensions = map[string]bool{
	".js":  true,
	".ts":  true,
	".jsx": true,
	".tsx": true,
}

// Detector matches compiled feature rules against file contents
type Detector struct {
	rules *rules.Set
	warnf func(format string, args ...interface{})
}

// New creates a Detector over the given rule set
func New(set *rules.Set, warnf func(format string, args ...interface{})) *Detector {
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}
	return &Detector{rules: set, warnf: warnf}
}

// Detect reads the file and returns a sparse mapping of feature id to hit
// count. Unreadable files yield an empty result with a warning; decode
// problems are tolerated by scanning the raw bytes as text.
func (d *Detector) Detect(path string) map[string]int {
	data, err := os.ReadFile(path)
	if err != nil {
		d.warnf("could not read %s: %v", path, err)
		return nil
	}
	return d.DetectContent(string(data), strings.ToLower(filepath.Ext(path)))
}

// DetectContent dispatches content to the detection pass for its extension
func (d *Detector) DetectContent(content, ext string) map[string]int {
	switch {
	case ext == ".css" || ext == ".scss":
		return d.DetectText(content, domain.RuleGroupCSS)
	case jsExtensions[ext]:
		return d.DetectText(content, domain.RuleGroupJS)
	case ext == ".html":
		return d.detectHTML(content)
	}
	return nil
}

// DetectText applies one rule group to content. JS content is stripped of
// line and block comments first to reduce false positives from commented-out
// code. Features with zero matches contribute no entry.
func (d *Detector) DetectText(content string, group domain.RuleGroup) map[string]int {
	if group == domain.RuleGroupJS {
		content = stripJSComments(content)
	}

	var hits map[string]int
	for _, rule := range d.rules.Group(group) {
		count := len(rule.Pattern.FindAllStringIndex(content, -1))
		if count == 0 {
			continue
		}
		if hits == nil {
			hits = make(map[string]int)
		}
		hits[rule.ID] += count
	}
	return hits
}

// detectHTML applies html-group rules to the markup, then recursively runs
// CSS detection over <style> blocks and JS detection over <script> blocks,
// merging counts by feature id.
func (d *Detector) detectHTML(content string) map[string]int {
	hits := d.DetectText(content, domain.RuleGroupHTML)

	merge := func(more map[string]int) {
		if len(more) == 0 {
			return
		}
		if hits == nil {
			hits = make(map[string]int)
		}
		for id, n := range more {
			hits[id] += n
		}
	}

	for _, m := range styleBlockRe.FindAllStringSubmatch(content, -1) {
		merge(d.DetectText(m[1], domain.RuleGroupCSS))
	}
	for _, m := range scriptBlockRe.FindAllStringSubmatch(content, -1) {
		merge(d.DetectText(m[1], domain.RuleGroupJS))
	}

	return hits
}

// stripJSComments removes // line comments and /* */ block comments
func stripJSComments(content string) string {
	content = blockCommentRe.ReplaceAllString(content, "")
	return lineCommentRe.ReplaceAllString(content, "")
}
