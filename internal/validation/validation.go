package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
	emailRegexp    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks the username is 3-32 characters of letters,
// digits and underscores
func ValidateUsername(username string) error {
	if !usernameRegexp.MatchString(username) {
		return errors.New("username must be 3-32 letters, numbers or underscores")
	}
	return nil
}

// ValidateEmail checks the email has a plausible shape
func ValidateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return errors.New("please enter a valid email address")
	}
	return nil
}

// ValidatePassword checks minimum password strength
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateDisplayName checks the display name is non-empty and not absurd
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("display name is required")
	}
	if utf8.RuneCountInString(name) > 64 {
		return errors.New("display name must be at most 64 characters")
	}
	return nil
}

// ValidateFamilyName checks the family name is non-empty and not absurd
func ValidateFamilyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("family name is required")
	}
	if utf8.RuneCountInString(name) > 64 {
		return errors.New("family name must be at most 64 characters")
	}
	return nil
}

// ValidateItemTitle checks a wishlist item title
func ValidateItemTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	return nil
}
