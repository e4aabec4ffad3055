package validator

import (
	"fmt"
	"regexp"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

func Username(username string) error {
	length := len(username)
	if length < 2 {
		return fmt.Errorf("short_username")
	} else if length > 32 {
		return fmt.Errorf("long_username")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("bad_format")
	}
	return nil
}

// Password checks against the configured floor; the stricter character
// classes only apply when the security policy demands secure passwords.
func Password(password string, minLength int, requireSecure bool) error {
	length := len(password)
	if length < minLength {
		return fmt.Errorf("short_password")
	} else if length > 128 {
		return fmt.Errorf("long_password")
	}

	if !requireSecure {
		return nil
	}

	lowercase := regexp.MustCompile(`[a-z]`)
	uppercase := regexp.MustCompile(`[A-Z]`)
	number := regexp.MustCompile(`\d`)

	if !lowercase.MatchString(password) {
		return fmt.Errorf("no_lowercase")
	}
	if !uppercase.MatchString(password) {
		return fmt.Errorf("no_uppercase")
	}
	if !number.MatchString(password) {
		return fmt.Errorf("no_number")
	}
	return nil
}
