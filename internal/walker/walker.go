// Package walker enumerates candidate web files under a project root.
package walker

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/baseline-tools/bscan/domain"
)

// MaxFileSize is the per-file size cap; larger files are skipped
const MaxFileSize = 2 * 1024 * 1024

// DefaultMaxFiles bounds a scan when no explicit limit is configured
const DefaultMaxFiles = 10000

// errLimitReached stops the walk once the file budget is exhausted
var errLimitReached = errors.New("file limit reached")

// SupportedExtensions is the fixed set of file types the detector understands
var SupportedExtensions = map[string]bool{
	".css":  true,
	".scss": true,
	".js":   true,
	".ts":   true,
	".jsx":  true,
	".tsx":  true,
	".html": true,
}

// ExcludedDirs are directory names never descended into (build artifacts,
// dependency caches, version control)
var ExcludedDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	"dist":          true,
	"build":         true,
	".next":         true,
	".nuxt":         true,
	"vendor":        true,
	"coverage":      true,
	".cache":        true,
	".turbo":        true,
	"tmp":           true,
	"__pycache__":   true,
	".venv":         true,
	"env":           true,
	"venv":          true,
	".tox":          true,
	".pytest_cache": true,
	".output":       true,
	".vercel":       true,
}

// Options configures a Walker
type Options struct {
	// MaxFiles bounds the number of files emitted; <= 0 uses DefaultMaxFiles
	MaxFiles int

	// UseGitignore additionally honors the root .gitignore when present
	UseGitignore bool

	// Warnf receives non-fatal diagnostics; nil silences them
	Warnf func(format string, args ...interface{})
}

// Walker enumerates supported files under a root directory
type Walker struct {
	maxFiles int
	useGit   bool
	warnf    func(format string, args ...interface{})
}

// New creates a Walker with the given options
func New(opts Options) *Walker {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	warnf := opts.Warnf
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}
	return &Walker{maxFiles: maxFiles, useGit: opts.UseGitignore, warnf: warnf}
}

// Scan walks root depth-first and returns the included files plus a flag
// indicating whether the max-file limit truncated the result. Permission
// errors skip the affected subtree; a partial scan is not an error.
func (w *Walker) Scan(root string) ([]domain.FileRecord, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		w.warnf("cannot resolve %s: %v", root, err)
		return nil, false
	}

	var ignorer *gitignore.GitIgnore
	if w.useGit {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
			ignorer = gi
		}
	}

	var files []domain.FileRecord
	truncated := false

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: skip the subtree, keep scanning elsewhere
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != absRoot && ExcludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}

		if !w.include(path, rel, d) {
			return nil
		}
		if ignorer != nil && ignorer.MatchesPath(rel) {
			return nil
		}

		if len(files) >= w.maxFiles {
			truncated = true
			return errLimitReached
		}

		files = append(files, domain.FileRecord{
			AbsPath: path,
			RelPath: filepath.ToSlash(rel),
			Ext:     strings.ToLower(filepath.Ext(path)),
		})
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, errLimitReached) {
		w.warnf("scan of %s ended early: %v", root, walkErr)
	}
	if truncated {
		w.warnf("reached max file limit (%d), result truncated", w.maxFiles)
	}

	return files, truncated
}

// include applies the extension, size and excluded-segment filters
func (w *Walker) include(path, rel string, d fs.DirEntry) bool {
	if !SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	// Excluded directory names must not appear anywhere in the relative
	// path (defense in depth against symlinked trees)
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ExcludedDirs[part] {
			return false
		}
	}

	info, err := d.Info()
	if err != nil {
		return false
	}
	size := info.Size()
	if size == 0 || size > MaxFileSize {
		return false
	}

	return true
}
