package utils

import (
	"regexp"
	"strings"

	"leetstats/pkg/models"
)

// MaxUsernameLength is the longest username accepted before any request is made
const MaxUsernameLength = 50

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NormalizeUsername trims the raw input value
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateUsername checks a trimmed username before it is sent upstream
func ValidateUsername(username string) error {
	if username == "" {
		return models.ErrEmptyUsername
	}
	if len(username) > MaxUsernameLength || !usernameRegex.MatchString(username) {
		return models.ErrInvalidUsername
	}
	return nil
}
