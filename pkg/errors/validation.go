package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxKeyLength bounds entity keys and labels.
const maxKeyLength = 256

// ValidateKey validates an entity key supplied by a user or a document.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key contains invalid control characters")
		}
	}
	return nil
}

// ValidateLabel validates display text. Empty labels are allowed.
func ValidateLabel(label string) error {
	if len(label) > maxKeyLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxKeyLength)
	}
	for _, r := range label {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "label contains null bytes")
		}
	}
	return nil
}

// ValidatePath validates a document file path given on the command line
// or over the HTTP API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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
	return nil
}

// ValidateRelativePath additionally rejects absolute paths and traversal
// sequences. The HTTP API uses it for image references.
func ValidateRelativePath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
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

var (
	hexColorRegex   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColorRegex = regexp.MustCompile(`^[a-zA-Z]+$`)
	funcColorRegex  = regexp.MustCompile(`^rgba?\(\s*[0-9.]+\s*,\s*[0-9.]+\s*,\s*[0-9.]+\s*(,\s*[0-9.]+\s*)?\)$`)
)

// ValidateColor accepts CSS-style colors: hex (#RGB, #RRGGBB, #RRGGBBAA),
// plain names ("white") and rgb()/rgba() functions. Empty is allowed.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if hexColorRegex.MatchString(color) || namedColorRegex.MatchString(color) || funcColorRegex.MatchString(color) {
		return nil
	}
	return New(ErrCodeInvalidColor, "invalid color: %q", color)
}
