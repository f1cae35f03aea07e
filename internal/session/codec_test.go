package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devraider/dataroom/internal/core"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New("test-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		ttl       time.Duration
	}{
		{"empty secret", "", "HS256", time.Minute},
		{"unknown algorithm", "s", "HS123", time.Minute},
		{"non-hmac algorithm", "s", "RS256", time.Minute},
		{"zero ttl", "s", "HS256", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.secret, tt.algorithm, tt.ttl); err == nil {
				t.Errorf("New(%q, %q, %v) expected error", tt.secret, tt.algorithm, tt.ttl)
			}
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	token, exp, err := c.Issue(42, "a@x.com", now)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if want := now.Add(30 * time.Minute); !exp.Equal(want) {
		t.Errorf("Issue() exp = %v, want %v", exp, want)
	}

	claims, err := c.Verify(token, now)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", claims.Email)
	}
	if claims.ExpiresAt.Unix() != exp.Unix() {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	c := newTestCodec(t)
	t0 := time.Now()

	token, _, err := c.Issue(1, "a@x.com", t0)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"immediately", t0, false},
		{"one second before expiry", t0.Add(30*time.Minute - time.Second), false},
		{"exactly at expiry", t0.Add(30 * time.Minute), true},
		{"after expiry", t0.Add(31 * time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Verify(token, tt.now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, core.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want core.ErrInvalidToken", err)
			}
		})
	}
}

func TestCodec_RejectsForeignTokens(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	otherCodec, err := New("other-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := otherCodec.Issue(1, "a@x.com", now)
	if err != nil {
		t.Fatal(err)
	}

	// claims are valid but the token is signed with alg "none"
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	good, _, err := c.Issue(1, "a@x.com", now)
	if err != nil {
		t.Fatal(err)
	}
	tampered := good[:strings.LastIndex(good, ".")+1] + "AAAA"

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong key", foreign},
		{"alg none", unsigned},
		{"tampered signature", tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Verify(tt.token, now); !errors.Is(err, core.ErrInvalidToken) {
				t.Errorf("Verify(%q) error = %v, want core.ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestCodec_RejectsMalformedClaims(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing exp", jwt.MapClaims{"sub": "1"}},
		{"missing sub", jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}},
		{"non-numeric sub", jwt.MapClaims{"sub": "gandalf", "exp": now.Add(time.Hour).Unix()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Verify(sign(tt.claims), now); !errors.Is(err, core.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want core.ErrInvalidToken", err)
			}
		})
	}
}
