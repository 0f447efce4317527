package compare

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidAppID    = errors.New("enter a valid App Store URL or numeric app id")
	ErrInvalidCurrency = errors.New("enter a three-letter currency code")
)

var appIDPattern = regexp.MustCompile(`id(\d+)`)

// ParseAppID accepts a numeric id, "id123", or an App Store URL such as
// https://apps.apple.com/us/app/example/id123456789?l=en.
func ParseAppID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidAppID
	}
	if isDigits(s) {
		return s, nil
	}
	if strings.HasPrefix(s, "id") && isDigits(s[2:]) {
		return s[2:], nil
	}
	if strings.Contains(s, "apps.apple.com") {
		m := appIDPattern.FindAllStringSubmatch(s, -1)
		if len(m) > 0 {
			return m[len(m)-1][1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAppID, input)
}

// ParseCurrency upper-cases a three-character alphanumeric code.
func ParseCurrency(input string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if len(s) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, input)
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, input)
		}
	}
	return s, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
