// Package security validates user-supplied file paths before they are read.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned for paths carrying shell metacharacters.
var ErrUnsafePath = errors.New("unsafe file path")

// dangerousChars are shell metacharacters that never belong in a definition
// file name.
const dangerousChars = ";&|$`(){}<>!\n\r"

// ValidateFilePath cleans path, makes it absolute and resolves symlinks.
// Paths that do not exist yet are returned cleaned but unresolved.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafePath)
	}
	if i := strings.IndexAny(path, dangerousChars); i >= 0 {
		return "", fmt.Errorf("%w: forbidden character %q in %s", ErrUnsafePath, path[i], path)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// SafeReadFile reads a file after validating its path.
func SafeReadFile(path string) ([]byte, error) {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.ReadFile(cleanPath)
}
