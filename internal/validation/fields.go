package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// emailPattern excludes the same whitespace set as isSpace: ASCII space and
// controls, vertical tab, every Unicode separator and the byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// isSpace matches browser trimming: unicode.IsSpace plus U+FEFF, minus U+0085.
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// Each helper returns the normalized value and an empty reason, or a zero
// value and the rejection message for the field.

func trimmedString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return strings.TrimFunc(s, isSpace), true
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

func requiredString(value any, field string, max int) (string, string) {
	s, _ := trimmedString(value)
	if s == "" {
		return "", fmt.Sprintf("%s is required", field)
	}
	if tooLong(s, max) {
		return "", fmt.Sprintf("%s is too long", field)
	}
	return s, ""
}

func optionalString(value any, field string, max int) (*string, string) {
	if value == nil {
		return nil, ""
	}
	if s, ok := value.(string); ok && s == "" {
		return nil, ""
	}

	s, ok := trimmedString(value)
	if !ok {
		return nil, fmt.Sprintf("%s must be a string", field)
	}
	if tooLong(s, max) {
		return nil, fmt.Sprintf("%s is too long", field)
	}
	return &s, ""
}

func email(value any) (string, string) {
	s, _ := trimmedString(value)
	if s == "" {
		return "", "email is required"
	}
	if tooLong(s, maxEmailLength) || !emailPattern.MatchString(s) {
		return "", "email is invalid"
	}
	return strings.ToLower(s), ""
}

func allowedValue(value any, field string, allowed []string) (string, string) {
	s, _ := trimmedString(value)
	if s == "" {
		return "", fmt.Sprintf("%s is required", field)
	}
	if !slices.Contains(allowed, s) {
		return "", fmt.Sprintf("%s has an invalid value", field)
	}
	return s, ""
}

func allowedSet(value any, field string, allowed []string) ([]string, string) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Sprintf("%s must be an array", field)
	}

	normalized := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := trimmedString(item)
		if !ok || s == "" {
			continue
		}
		normalized = append(normalized, s)
	}

	if len(normalized) == 0 {
		return nil, fmt.Sprintf("%s must include at least one value", field)
	}
	if len(normalized) > maxSetItems {
		return nil, fmt.Sprintf("%s has too many values", field)
	}
	for _, s := range normalized {
		if !slices.Contains(allowed, s) {
			return nil, fmt.Sprintf("%s contains an invalid value", field)
		}
	}
	return normalized, ""
}

// honeypot never inspects the content; a non-empty value only marks the
// submission as automated.
func honeypot(value any, field string) (string, string) {
	if value == nil {
		return "", ""
	}
	s, ok := trimmedString(value)
	if !ok {
		return "", fmt.Sprintf("%s must be a string", field)
	}
	return s, ""
}
