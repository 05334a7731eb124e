package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/walletbridge/core"
)

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestJWTTokenizer_RoundTrip(t *testing.T) {
	tok := NewJWTTokenizer(newKey(t))
	session := core.ActiveSession{
		ID:          "0f5a6c1e-52b4-4a1b-8a53-5d7c2f9d9b10",
		BackendID:   core.BackendStation,
		Family:      core.FamilyCosmos,
		Address:     "terra1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq",
		ConnectedAt: time.Now().Add(-time.Minute).Truncate(time.Second),
	}

	token, err := tok.SessionToToken(session, time.Now().Add(time.Hour))
	require.NoError(t, err)

	got, err := tok.TokenToSession(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.BackendID, got.BackendID)
	assert.Equal(t, session.Family, got.Family)
	assert.Equal(t, session.Address, got.Address)
	assert.True(t, session.ConnectedAt.Equal(got.ConnectedAt))
}

func TestJWTTokenizer_Rejects(t *testing.T) {
	key := newKey(t)
	tok := NewJWTTokenizer(key)
	session := core.ActiveSession{ID: "id", Family: core.FamilyEVM, Address: "0xabc", ConnectedAt: time.Now()}

	t.Run("expired", func(t *testing.T) {
		token, err := tok.SessionToToken(session, time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = tok.TokenToSession(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("foreign key", func(t *testing.T) {
		token, err := NewJWTTokenizer(newKey(t)).SessionToToken(session, time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = tok.TokenToSession(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "0xabc",
			Audience:  jwt.ClaimStrings{"session:access"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
		require.NoError(t, err)
		_, err = tok.TokenToSession(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tok.TokenToSession("not-a-token")
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})
}
