package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*hmacJWTService, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := newHMACJWTService(testAuthConfig(), c.Now)
	require.NoError(t, err)
	return svc, c
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig())
	assert.NoError(t, err)

	short := testAuthConfig()
	short.JWTSecret = "tooshort"
	_, err = NewJWTService(short)
	assert.Error(t, err)

	zero := testAuthConfig()
	zero.TokenLifetimeMinutes = 0
	_, err = NewJWTService(zero)
	assert.Error(t, err)
}

func TestIssueTokenPairRoundTrip(t *testing.T) {
	t.Parallel()

	svc, c := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	pair, err := svc.IssueTokenPair(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, c.now.Add(time.Hour), pair.ExpiresAt)

	access, err := svc.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, access.UserID)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Equal(t, userID.String(), access.Subject)
	assert.NotEmpty(t, access.ID)
	assert.True(t, access.ExpiresAt.Equal(c.now.Add(time.Hour)))

	refresh, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.UserID)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.True(t, refresh.ExpiresAt.Equal(c.now.Add(24*time.Hour)))
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	pair, err := svc.IssueTokenPair(ctx, uuid.New())
	require.NoError(t, err)
	access, refresh := pair.AccessToken, pair.RefreshToken

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenTiming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		advance    time.Duration
		wantAccess error
		wantRefrsh error
	}{
		{"fresh", 0, nil, nil},
		{"within leeway after access expiry", time.Hour + time.Minute, nil, nil},
		{"access expired", time.Hour + 3*time.Minute, ErrExpiredToken, nil},
		{"both expired", 25 * time.Hour, ErrExpiredToken, ErrExpiredRefreshToken},
		{"within leeway before issue", -time.Minute, nil, nil},
		{"issued in the future", -10 * time.Minute, ErrTokenNotYetValid, ErrInvalidRefreshToken},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, c := newTestService(t)
			ctx := context.Background()
			pair, err := svc.IssueTokenPair(ctx, uuid.New())
			require.NoError(t, err)

			c.now = c.now.Add(tc.advance)

			_, err = svc.ValidateToken(ctx, pair.AccessToken)
			if tc.wantAccess == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantAccess)
			}

			_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
			if tc.wantRefrsh == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantRefrsh)
			}
		})
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc, c := newTestService(t)
	ctx := context.Background()

	other, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:                   "adifferentsecretthatisalso32charslong",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}, c.Now)
	require.NoError(t, err)
	foreignPair, err := other.IssueTokenPair(ctx, uuid.New())
	require.NoError(t, err)
	foreign := foreignPair.AccessToken

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		UserID:    uuid.New(),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(c.now),
			ExpiresAt: jwt.NewNumericDate(c.now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		UserID:           uuid.New(),
		TokenType:        TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(c.now)},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"malformed", "not.a.jwt", ErrInvalidToken},
		{"wrong signature", foreign, ErrInvalidToken},
		{"alg none", noneToken, ErrInvalidToken},
		{"missing expiry", noExpiry, ErrInvalidToken},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(ctx, tc.token)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err = svc.ValidateRefreshToken(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
