package pitcore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// builtinIgnores are always active regardless of .pitignore contents.
var builtinIgnores = []string{".pit", ".pit/*", "*.pyc", "__pycache__"}

// IgnoreMatcher tests repository-relative paths against the ignore pattern
// set. A path is ignored when any pattern matches the whole path or any
// single path component, so "*.pyc" catches "a/b/c.pyc" via the
// per-component rule.
type IgnoreMatcher struct {
	patterns []string
}

// LoadIgnore reads <repo>/.pitignore (glob patterns, one per line, '#' for
// comments) and returns a matcher over those patterns plus the builtins.
// A missing ignore file leaves only the builtins active.
func (r *Repository) LoadIgnore() *IgnoreMatcher {
	m := &IgnoreMatcher{patterns: append([]string(nil), builtinIgnores...)}

	//nolint:gosec // G304: path is fixed relative to the repository root
	f, err := os.Open(filepath.Join(r.workDir, ".pitignore"))
	if err != nil {
		return m
	}
	defer f.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, line)
	}
	return m
}

// Ignored reports whether the given path matches any ignore pattern.
// Path separators are normalized to "/" before matching.
func (m *IgnoreMatcher) Ignored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	components := strings.Split(relPath, "/")

	for _, pattern := range m.patterns {
		if matched, _ := path.Match(pattern, relPath); matched {
			return true
		}
		for _, component := range components {
			if matched, _ := path.Match(pattern, component); matched {
				return true
			}
		}
	}
	return false
}
