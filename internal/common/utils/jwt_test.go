package utils

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testClaims() *JWTClaims {
    now := time.Now()
    return &JWTClaims{
        UserID:    42,
        Email:     "ada@campus.edu",
        Type:      "access",
        ExpiresAt: now.Add(time.Hour).Unix(),
        IssuedAt:  now.Unix(),
        NotBefore: now.Unix(),
        Issuer:    "coha-backend",
        Subject:   "42",
    }
}

func TestJWTRoundTrip(t *testing.T) {
    token, err := GenerateJWT(testClaims(), testSecret)
    require.NoError(t, err)
    require.NotEmpty(t, token)

    parsed, err := ValidateJWT(token, testSecret)
    require.NoError(t, err)

    assert.Equal(t, int64(42), parsed.UserID)
    assert.Equal(t, "ada@campus.edu", parsed.Email)
    assert.Equal(t, "access", parsed.Type)
    assert.Equal(t, "coha-backend", parsed.Issuer)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
    token, err := GenerateJWT(testClaims(), testSecret)
    require.NoError(t, err)

    _, err = ValidateJWT(token, "other-secret")
    assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
    claims := testClaims()
    claims.ExpiresAt = time.Now().Add(-time.Hour).Unix()

    token, err := GenerateJWT(claims, testSecret)
    require.NoError(t, err)

    _, err = ValidateJWT(token, testSecret)
    assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
    _, err := ValidateJWT("not-a-token", testSecret)
    assert.Error(t, err)
}
