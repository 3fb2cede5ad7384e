package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "rentquote-test",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{
		AccountID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "landlord",
		Scopes:    []string{"billing:write"},
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.AccountID.String(), claims.AccountID)
	assert.Equal(t, subject.UserID.String(), claims.UserID)
	assert.Equal(t, "landlord", claims.Username)
	assert.True(t, claims.HasScope("billing:write"))
	assert.False(t, claims.HasScope("quotation:write"))

	accountID, err := claims.AccountUUID()
	require.NoError(t, err)
	assert.Equal(t, subject.AccountID, accountID)
}

func TestValidate_WrongTokenType(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	// Refresh token signed with the refresh secret fails signature as access
	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	shared := NewJWTService(config.JWTConfig{
		Secret:                 "same-secret-for-both-token-types!",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "rentquote-test",
		MaxRefreshCount:        1,
	})
	pair, err = shared.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)
	_, err = shared.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_MissingAccount(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	claims := svc.claims(newTestSubject(), TokenTypeAccess, now, now.Add(time.Minute))
	claims.AccountID = ""
	token, err := sign(claims, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrMissingAccountID)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	claims := svc.claims(newTestSubject(), TokenTypeAccess, now, now.Add(time.Minute))
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, []string{"reports:read"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.AccountID.String(), claims.AccountID)
	assert.Equal(t, []string{"reports:read"}, claims.Scopes)

	refreshClaims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)
	assert.Equal(t, []string{"reports:read"}, refreshClaims.Scopes)

	t.Run("refresh count is capped", func(t *testing.T) {
		second, err := svc.RefreshTokenPair(refreshed.RefreshToken, nil)
		require.NoError(t, err)

		_, err = svc.RefreshTokenPair(second.RefreshToken, nil)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
	assert.InDelta(t, time.Minute.Seconds(), c.RemainingTTL(now).Seconds(), 1)
	assert.Zero(t, c.RemainingTTL(now.Add(time.Hour)))
	assert.Zero(t, (&Claims{}).RemainingTTL(now))
}

func TestClaims_NoScopesIsUnrestricted(t *testing.T) {
	assert.True(t, (&Claims{}).HasScope("anything"))
}
