package errors

import (
	"strings"
	"unicode"
)

// ValidateFunctionName validates the name of a stored function. Names become
// file names in the file store and document keys in the Mongo store, so the
// rules reject anything that could escape the workspace directory:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or parent references
//   - Maximum length of 128 characters
func ValidateFunctionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "function name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "function name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "function name contains invalid characters")
		}
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "function name cannot contain path components: %q", name)
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "function name cannot start with a dot")
	}
	return nil
}
