package users

import (
	"errors"
	"testing"
	"time"
)

var tokenSecret = []byte("test-jwt-secret")

func testUser() User {
	return User{ID: "11111111-1111-1111-1111-111111111111", Role: RoleCustomer}
}

func TestMintAndParseToken(t *testing.T) {
	raw, err := MintToken(tokenSecret, testUser(), TokenAccess, time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}

	claims, err := ParseToken(tokenSecret, raw, TokenAccess)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != testUser().ID {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Role != RoleCustomer {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseTokenWrongType(t *testing.T) {
	raw, err := MintToken(tokenSecret, testUser(), TokenRefresh, time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if _, err := ParseToken(tokenSecret, raw, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	raw, err := MintToken(tokenSecret, testUser(), TokenAccess, time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if _, err := ParseToken([]byte("other"), raw, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with wrong secret accepted: %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	raw, err := MintToken(tokenSecret, testUser(), TokenAccess, -time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if _, err := ParseToken(tokenSecret, raw, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken(tokenSecret, "not.a.token", TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage accepted: %v", err)
	}
}
