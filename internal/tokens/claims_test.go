package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edumaster/web/internal/models"
)

func mintToken(t *testing.T, claims Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestDecodeReadsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := mintToken(t, Claims{
		UserID: 42,
		Role:   "INSTRUCTOR",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada@example.com",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "ada@example.com" || !claims.ExpiresAt.Time.Equal(exp) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	user, ok := claims.Identity()
	if !ok {
		t.Fatal("expected identity")
	}
	if user.ID != 42 || user.Role != models.RoleInstructor || user.Email != "ada@example.com" {
		t.Fatalf("unexpected identity: %+v", user)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"} {
		if _, err := Decode(raw); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q) err = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestIdentityRequiresUserIDAndRole(t *testing.T) {
	cases := []Claims{
		{Role: "ADMIN"},
		{UserID: 1},
		{UserID: 1, Role: "ROOT"},
	}
	for _, c := range cases {
		if _, ok := c.Identity(); ok {
			t.Fatalf("expected no identity for %+v", c)
		}
	}
}

func TestValidatorUsable(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	v := Validator{Skew: 30 * time.Second, Now: func() time.Time { return now }}

	tokenExpiringIn := func(d time.Duration) string {
		return mintToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		}})
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"well inside window", tokenExpiringIn(10 * time.Minute), true},
		{"inside skew", tokenExpiringIn(20 * time.Second), false},
		{"already expired", tokenExpiringIn(-time.Minute), false},
		{"no expiry", mintToken(t, Claims{UserID: 1}), false},
		{"malformed", "garbage", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Usable(tt.raw); got != tt.want {
				t.Fatalf("Usable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidatorRemaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	v := Validator{Skew: 30 * time.Second, Now: func() time.Time { return now }}

	raw := mintToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}})

	remaining, err := v.Remaining(raw)
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if remaining != 4*time.Minute+30*time.Second {
		t.Fatalf("remaining = %s", remaining)
	}

	if _, err := v.Remaining(mintToken(t, Claims{UserID: 1})); !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("err = %v, want ErrNoExpiry", err)
	}
}
