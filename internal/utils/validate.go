package utils

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a plain addr-spec email.  Display
// names ("Dr. X <x@y>") are rejected; the stored address must be the bare
// form usable as a login identifier.
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s, "@")
}

// IsValidPhone accepts at least ten characters drawn from digits and the
// punctuation used in written phone numbers: + - ( ).
func IsValidPhone(s string) bool {
	if len(s) < 10 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return true
}
