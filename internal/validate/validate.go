// Package validate checks caller input before an audit begins. These are the
// only checks that can fail an audit outright; everything downstream degrades
// instead of aborting.
package validate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/walker"
)

// MaxFilesLimit is the hard upper bound on a scan's file budget
const MaxFilesLimit = 100000

var baselineTargetRe = regexp.MustCompile(`^baseline-\d{4}$`)

// ProjectPath validates a project directory: it must exist, be a readable
// directory, and contain at least one supported file somewhere underneath.
func ProjectPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("path does not exist: %s", path), err)
	}
	if !info.IsDir() {
		return domain.NewValidationError(fmt.Sprintf("path is not a directory: %s", path), nil)
	}
	if _, err := os.ReadDir(path); err != nil {
		return domain.NewValidationError(fmt.Sprintf("cannot read directory: %s", path), err)
	}

	if !hasSupportedFile(path) {
		return domain.NewValidationError(
			fmt.Sprintf("no supported files found in %s (looking for: %s)",
				path, strings.Join(supportedExtList(), ", ")), nil)
	}
	return nil
}

// FilePath validates a single file for auditing: it must exist, carry a
// supported extension, be readable, and not look binary.
func FilePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("file does not exist: %s", path), err)
	}
	if info.IsDir() {
		return domain.NewValidationError(fmt.Sprintf("path is not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !walker.SupportedExtensions[ext] {
		return domain.NewValidationError(
			fmt.Sprintf("unsupported file type: %s (supported: %s)",
				ext, strings.Join(supportedExtList(), ", ")), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("cannot read file: %s", path), err)
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, _ := f.Read(head)
	if isBinary(head[:n]) {
		return domain.NewValidationError(fmt.Sprintf("file appears to be binary: %s", path), nil)
	}
	return nil
}

// Target validates and normalizes a target baseline name. It accepts
// "widely" and "baseline-YYYY" plus a few backwards-compatible shorthands.
func Target(target string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(target))

	switch {
	case t == "widely":
		return t, nil
	case strings.Contains(t, "wide"):
		return "widely", nil
	case baselineTargetRe.MatchString(t):
		return t, nil
	case strings.Contains(t, "2024"):
		return "baseline-2024", nil
	case strings.Contains(t, "2023"):
		return "baseline-2023", nil
	}

	return "", domain.NewValidationError(
		fmt.Sprintf("invalid target %q: expected 'widely' or 'baseline-YYYY'", target), nil)
}

// MaxFiles validates the scan file budget
func MaxFiles(maxFiles int) (int, error) {
	if maxFiles < 1 {
		return 0, domain.NewValidationError(
			fmt.Sprintf("max files must be at least 1, got %d", maxFiles), nil)
	}
	if maxFiles > MaxFilesLimit {
		return 0, domain.NewValidationError(
			fmt.Sprintf("max files too large (limit %d), got %d", MaxFilesLimit, maxFiles), nil)
	}
	return maxFiles, nil
}

// hasSupportedFile reports whether any supported file exists under root.
// The walk stops at the first match.
func hasSupportedFile(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && walker.ExcludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if walker.SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// isBinary applies a NUL-byte plus non-text-ratio heuristic to a sample
func isBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	nonText := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if (b < 32 || b > 126) && b != '\n' && b != '\r' && b != '\t' && b != '\f' && b != '\b' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.3
}

func supportedExtList() []string {
	exts := make([]string, 0, len(walker.SupportedExtensions))
	for ext := range walker.SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
