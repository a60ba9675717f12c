package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// labelRegex matches valid cross-referencing labels: a letter followed by
// letters, digits, hyphens, or underscores.
var labelRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateLabel validates a cross-referencing label.
//
// Labels travel through selectors, cache keys, and query parameters, so
// the rules are intentionally conservative:
//   - No empty labels
//   - Maximum length of 128 characters
//   - Letter first, then letters, digits, hyphens, underscores
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}

	if len(label) > 128 {
		return New(ErrCodeInvalidLabel, "label too long (max 128 characters)")
	}

	if !labelRegex.MatchString(label) {
		return New(ErrCodeInvalidLabel, "invalid label: %q", label)
	}

	return nil
}

// elementRegex matches valid element names: lowercase ascii words.
var elementRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ValidateElementName validates an element kind name.
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidElement, "element name cannot be empty")
	}

	if !elementRegex.MatchString(name) {
		return New(ErrCodeInvalidElement, "invalid element name: %q", name)
	}

	return nil
}

// ValidateStyleKey validates a style key.
//
// Style keys are dotted lowercase paths like "page.width". Control
// characters and path-like separators are rejected because keys end up in
// cache keys and serialized style chains.
func ValidateStyleKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidStyle, "style key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidStyle, "style key too long (max 128 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style key contains invalid control characters")
		}
	}

	if strings.ContainsAny(key, "/\\ \t") {
		return New(ErrCodeInvalidStyle, "style key contains invalid characters: %q", key)
	}

	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return New(ErrCodeInvalidStyle, "style key has empty segment: %q", key)
		}
		if strings.ToLower(part) != part {
			return New(ErrCodeInvalidStyle, "style key must be lowercase: %q", key)
		}
	}

	return nil
}
