package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edumaster/web/internal/models"
)

var (
	ErrMalformed = errors.New("tokens: malformed token")
	ErrNoExpiry  = errors.New("tokens: token has no expiry")
)

// Claims is the subset of the access token payload the client cares about.
// The subject is the user's email.
type Claims struct {
	UserID int64  `json:"uid,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Decode reads the payload without verifying the signature; the backend is the
// only party that can and does verify it.
func Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// Identity rebuilds the partial user carried by the claims. It reports false
// when the token lacks a user id or a known role.
func (c *Claims) Identity() (models.User, bool) {
	if c == nil || c.UserID == 0 {
		return models.User{}, false
	}
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return models.User{}, false
	}

	user := models.User{
		ID:       c.UserID,
		Email:    c.Subject,
		Role:     role,
		IsActive: true,
	}
	if c.IssuedAt != nil {
		user.CreatedAt = c.IssuedAt.Time
		user.UpdatedAt = c.IssuedAt.Time
	}
	return user, true
}

// Validator decides whether a token is still inside its validity window.
// Skew shortens the window so a token is retired before the server would
// reject it.
type Validator struct {
	Skew time.Duration
	Now  func() time.Time
}

func NewValidator(skew time.Duration) Validator {
	return Validator{Skew: skew, Now: time.Now}
}

func (v Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

// Remaining is the usable lifetime left on the token after subtracting Skew.
func (v Validator) Remaining(raw string) (time.Duration, error) {
	claims, err := Decode(raw)
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt == nil {
		return 0, ErrNoExpiry
	}
	return claims.ExpiresAt.Time.Sub(v.now()) - v.Skew, nil
}

// Usable never returns an error: malformed or expiry-less tokens are simply
// not usable.
func (v Validator) Usable(raw string) bool {
	remaining, err := v.Remaining(raw)
	return err == nil && remaining > 0
}
