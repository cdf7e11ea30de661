package auth

import (
	"testing"
	"time"

	"amburide/config"

	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:     "test-access-secret",
		ActivationSecret: "test-activation-secret",
		AccessExpiry:     time.Hour,
		ActivationExpiry: 5 * time.Minute,
		Issuer:           "amburide",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "DRIVER")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.AccountID)
	require.Equal(t, "DRIVER", claims.Role)
	require.Equal(t, "amburide", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "USER")
	require.NoError(t, err)

	other := testJWTConfig()
	other.AccessSecret = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestActivationTokenCarriesPayload(t *testing.T) {
	cfg := testJWTConfig()
	payload := map[string]string{
		"name":  "Asha",
		"email": "asha@example.com",
		"phone": "+919900112233",
	}
	token, err := GenerateActivationToken(cfg, "4821", payload)
	require.NoError(t, err)

	claims, err := ParseActivationToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "4821", claims.OTP)
	require.Equal(t, payload, claims.Payload)
}

func TestActivationTokenExpires(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ActivationExpiry = -time.Minute
	token, err := GenerateActivationToken(cfg, "4821", nil)
	require.NoError(t, err)

	_, err = ParseActivationToken(cfg, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestActivationTokenNotValidAsAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateActivationToken(cfg, "4821", nil)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
