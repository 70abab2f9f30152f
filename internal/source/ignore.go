package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreFiles are read from the watched directory in addition to the
// configured patterns.
var ignoreFiles = []string{".gitignore", ".cogtraceignore"}

// Ignorer decides which paths under Root are not watched.
type Ignorer struct {
	Root     string
	Patterns []string
	// Paths, and everything beneath them, are always ignored whatever the
	// patterns say.
	Paths []string
}

// LoadIgnorer merges the configured patterns with those found in the
// ignore files under root.
func LoadIgnorer(root string, patterns []string) (*Ignorer, error) {
	merged := make([]string, len(patterns))
	copy(merged, patterns)

	for _, name := range ignoreFiles {
		extra, err := readPatternFile(filepath.Join(root, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return &Ignorer{Root: root, Patterns: merged}, err
		}
		merged = append(merged, extra...)
	}
	return &Ignorer{Root: root, Patterns: merged}, nil
}

// Ignored reports whether path is, or is under, an excluded path, or matches
// any pattern.
// Patterns without a slash match any path segment; patterns with one match
// the path relative to Root, including everything beneath it.
func (ig *Ignorer) Ignored(path string) bool {
	clean := filepath.Clean(path)
	for _, p := range ig.Paths {
		p = filepath.Clean(p)
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}

	rel := path
	if ig.Root != "" {
		if r, err := filepath.Rel(ig.Root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")

	for _, pattern := range ig.Patterns {
		pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
		if pattern == "" {
			continue
		}
		if !strings.Contains(pattern, "/") {
			for _, seg := range segments {
				if ok, _ := doublestar.Match(pattern, seg); ok {
					return true
				}
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", rel); ok {
			return true
		}
	}
	return false
}

// readPatternFile reads a gitignore-style file and returns non-empty, non-comment lines.
// Negation ("!pattern") lines are not supported and are dropped, so a
// re-include in .gitignore has no effect on what is watched.
func readPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
