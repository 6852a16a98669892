// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for world content.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 4000
	MaxTagCount          = 10
	MaxTagLength         = 50
	MaxZoneLength        = 64

	MinCharacterNameLength = 2
	MaxCharacterNameLength = 32
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateName checks that a name is non-empty UTF-8 without control characters.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !utf8.ValidString(name) {
		return &ValidationError{Field: "name", Message: "must be valid UTF-8"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxNameLength)}
	}
	if hasControlChars(name) {
		return &ValidationError{Field: "name", Message: "cannot contain control characters"}
	}
	return nil
}

var characterNameRegex = regexp.MustCompile(`^[\p{L}]+( [\p{L}]+)*$`)

// ValidateCharacterName checks the stricter rules for character names:
// letters and single spaces only, 2-32 bytes, no outer whitespace.
func ValidateCharacterName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if name != strings.TrimSpace(name) {
		return &ValidationError{Field: "name", Message: "cannot have leading or trailing spaces"}
	}
	if strings.Contains(name, "  ") {
		return &ValidationError{Field: "name", Message: "cannot have consecutive spaces"}
	}
	if len(name) < MinCharacterNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at least %d characters", MinCharacterNameLength)}
	}
	if len(name) > MaxCharacterNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxCharacterNameLength)}
	}
	if !characterNameRegex.MatchString(name) {
		return &ValidationError{Field: "name", Message: "must contain letters and spaces only"}
	}
	return nil
}

// NormalizeCharacterName converts a name to Initial Caps with single spaces.
//
// Example: "alaric" -> "Alaric", "jOhN  sMiTh" -> "John Smith"
func NormalizeCharacterName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ValidateDescription allows empty descriptions; newlines and tabs are permitted.
func ValidateDescription(desc string) error {
	if desc == "" {
		return nil
	}
	if !utf8.ValidString(desc) {
		return &ValidationError{Field: "description", Message: "must be valid UTF-8"}
	}
	if len(desc) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("exceeds maximum length of %d", MaxDescriptionLength)}
	}
	if hasControlCharsExceptWhitespace(desc) {
		return &ValidationError{Field: "description", Message: "cannot contain control characters (except newline/tab)"}
	}
	return nil
}

// ValidateTags checks item and transition tags.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagCount {
		return &ValidationError{Field: "tags", Message: fmt.Sprintf("exceeds maximum count of %d", MaxTagCount)}
	}
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("tag %d cannot be empty", i)}
		}
		if !utf8.ValidString(tag) {
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("tag %d must be valid UTF-8", i)}
		}
		if len(tag) > MaxTagLength {
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("tag %d exceeds maximum length of %d", i, MaxTagLength)}
		}
		if hasControlChars(tag) {
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("tag %d cannot contain control characters", i)}
		}
	}
	return nil
}

// ValidateZone checks that a zone name is a non-empty identifier.
func ValidateZone(z Zone) error {
	if z == "" {
		return &ValidationError{Field: "zone", Message: "cannot be empty"}
	}
	if len(z) > MaxZoneLength {
		return &ValidationError{Field: "zone", Message: fmt.Sprintf("exceeds maximum length of %d", MaxZoneLength)}
	}
	if !isValidIdentifier(string(z)) {
		return &ValidationError{Field: "zone", Message: fmt.Sprintf("%q is not a valid identifier", z)}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func hasControlCharsExceptWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

// isValidIdentifier accepts letters, digits, underscores and hyphens, starting with a letter.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
