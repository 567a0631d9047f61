// Package security validates user-supplied locations before they reach a driver.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never expected in a database file name.
var forbiddenChars = []string{";", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// SQLitePath validates a SQLite location and returns it absolute and cleaned,
// with symlinks resolved when the file exists. A trailing "?query" is kept
// untouched. The in-memory path is returned as is.
func SQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}

	file, query, hasQuery := strings.Cut(path, "?")
	if file == "" {
		return "", fmt.Errorf("database path cannot be empty")
	}
	for _, char := range forbiddenChars {
		if strings.Contains(file, char) {
			return "", fmt.Errorf("database path contains forbidden character %q: %s", char, file)
		}
	}

	cleanPath := filepath.Clean(file)
	if !filepath.IsAbs(cleanPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		cleanPath = filepath.Join(cwd, cleanPath)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	switch {
	case err == nil:
		cleanPath = resolved
	case !os.IsNotExist(err):
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}

	if hasQuery {
		return cleanPath + "?" + query, nil
	}
	return cleanPath, nil
}
