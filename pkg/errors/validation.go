package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLibraryName validates a library or category name for safety.
// Library names end up as file names under the data directory, so anything
// that could escape it is rejected.
//
// Rules:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLibraryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "library name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "library name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "library name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "library name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// packageCodeRegex matches four-digit imperial SMD case codes.
var packageCodeRegex = regexp.MustCompile(`^[0-9]{4}$`)

// ValidatePackageCode checks the shape of a package code ("0603").
// It does not check that the code is in the geometry table.
func ValidatePackageCode(code string) error {
	if !packageCodeRegex.MatchString(code) {
		return New(ErrCodeUnknownPackage, "invalid package code: %q (expected four digits, e.g. 0603)", code)
	}
	return nil
}
