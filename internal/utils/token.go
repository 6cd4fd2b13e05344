package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/clinic-management/internal/model"
)

// ResetToken is a generated password-reset credential.  Raw is what would
// be delivered to the user; only Hash would ever be stored.  In the current
// system the token is generated but neither persisted nor delivered.
type ResetToken struct {
	Raw       string    // hex-encoded random token for the user
	Hash      string    // SHA-256 hex digest for storage
	ExpiresAt time.Time // UTC expiry, 24 hours after generation
}

// NewResetToken generates a 32-byte cryptographically random token, its
// storage hash and a 24-hour expiry.
func NewResetToken() (ResetToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return ResetToken{}, err
	}
	sum := sha256.Sum256([]byte(raw))
	return ResetToken{
		Raw:       raw,
		Hash:      hex.EncodeToString(sum[:]),
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewSessionToken serializes a session as a signed HS256 JWT so the
// transport layer can hand the whole session value back to the client and
// reconstruct it on every request without server-side storage.  The exp
// claim mirrors the configured session timeout.
func NewSessionToken(secret string, sess model.Session, timeout time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":       sess.UserID,
		"email":     sess.Email,
		"username":  sess.Username,
		"role":      sess.Role,
		"full_name": sess.FullName,
		"iat":       sess.LoginAt.Unix(),
		"exp":       sess.LoginAt.Add(timeout).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies a session token and rebuilds the session
// value.  Expiry is re-derived by the identity service from LoginAt, so a
// forged or tampered token is the only thing rejected here besides the
// jwt library's own exp check.
func ParseSessionToken(secret, raw string) (model.Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Session{}, errors.New("invalid session token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Session{}, errors.New("invalid session claims")
	}
	sess := model.Session{
		Email:    str(claims["email"]),
		Username: str(claims["username"]),
		Role:     str(claims["role"]),
		FullName: str(claims["full_name"]),
	}
	if sub, ok := claims["sub"].(float64); ok {
		sess.UserID = int64(sub)
	}
	if iat, ok := claims["iat"].(float64); ok {
		sess.LoginAt = time.Unix(int64(iat), 0).UTC()
	}
	if sess.UserID == 0 || sess.LoginAt.IsZero() {
		return model.Session{}, errors.New("invalid session claims")
	}
	return sess, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
