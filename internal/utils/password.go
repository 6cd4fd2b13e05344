package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.  The
// comparison is constant-time inside bcrypt; credentials are never checked
// by recomputing a fast hash and string-comparing.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Password strength levels.
const (
	StrengthWeak   = "weak"
	StrengthMedium = "medium"
	StrengthStrong = "strong"
)

// PasswordStrength is the result of scoring a candidate password.  Score
// runs 0-100 in steps of 20; Feedback lists the missing criteria.
type PasswordStrength struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	Level    string   `json:"level"`
}

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// CheckPasswordStrength scores a password 20 points per satisfied
// criterion: length of at least 8, lowercase, uppercase, digits and
// special characters.  Below 60 is weak, 60-79 medium, 80+ strong.
func CheckPasswordStrength(password string) PasswordStrength {
	var ps PasswordStrength

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	score := func(ok bool, missing string) {
		if ok {
			ps.Score += 20
		} else {
			ps.Feedback = append(ps.Feedback, missing)
		}
	}
	score(len(password) >= 8, "at least 8 characters")
	score(hasLower, "lowercase letters")
	score(hasUpper, "uppercase letters")
	score(hasDigit, "digits")
	score(hasSymbol, "special characters")

	switch {
	case ps.Score >= 80:
		ps.Level = StrengthStrong
	case ps.Score >= 60:
		ps.Level = StrengthMedium
	default:
		ps.Level = StrengthWeak
	}
	return ps
}
