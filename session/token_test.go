package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func TestTokenExpiredPastExp(t *testing.T) {
	now := time.Now()
	token := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})

	if !tokenExpired(token, 0, now) {
		t.Fatal("expected expired token to be detected")
	}
}

func TestTokenExpiredFutureExp(t *testing.T) {
	now := time.Now()
	token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})

	if tokenExpired(token, 0, now) {
		t.Fatal("token with future exp must not read as expired")
	}
}

func TestTokenExpiredLeewayAbsorbsSkew(t *testing.T) {
	now := time.Now()
	token := signedToken(t, jwt.MapClaims{"exp": now.Add(-30 * time.Second).Unix()})

	if tokenExpired(token, time.Minute, now) {
		t.Fatal("expiry within leeway must not read as expired")
	}
	if !tokenExpired(token, 10*time.Second, now) {
		t.Fatal("expiry beyond leeway must read as expired")
	}
}

func TestTokenExpiredNoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "alice"})

	if tokenExpired(token, 0, time.Now()) {
		t.Fatal("token without exp is a presence-only marker, never expired")
	}
}

func TestTokenExpiredGarbageToken(t *testing.T) {
	if !tokenExpired("not.a.jwt", 0, time.Now()) {
		t.Fatal("unparseable marker must not keep a session alive")
	}
}

func TestStoreTokenExpiredForcesStaleAdminMarker(t *testing.T) {
	store := NewStore(NewMemoryKV(), 0)
	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})

	if err := store.Login(context.Background(), Identity{Username: "root"}, RoleAdmin, expired); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !store.TokenExpired() {
		t.Fatal("expected stale marker to be reported expired")
	}
}
