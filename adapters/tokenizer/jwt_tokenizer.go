package tokenizer

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

const AudienceConnection = "wallet:connection"

// ConnectionClaims combines standard claims with the active session fields
type ConnectionClaims struct {
	jwt.RegisteredClaims
	Backend core.BackendID   `json:"bid"`
	Family  core.ChainFamily `json:"fam"`
}

// JWTTokenizer implements the Tokenizer interface using JWT
type JWTTokenizer struct {
	signKey *ecdsa.PrivateKey
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(signKey *ecdsa.PrivateKey) ports.Tokenizer {
	return &JWTTokenizer{signKey: signKey}
}

// SessionToToken converts an active session to a connection token
func (j *JWTTokenizer) SessionToToken(session core.ActiveSession, expiresAt time.Time) (string, error) {
	claims := ConnectionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Address,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(session.ConnectedAt),
			Audience:  jwt.ClaimStrings{AudienceConnection},
		},
		Backend: session.BackendID,
		Family:  session.Family,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// TokenToSession parses a connection token. The session it returns may no
// longer be active; callers compare its ID with the live one.
func (j *JWTTokenizer) TokenToSession(tokenStr string) (core.ActiveSession, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ConnectionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceConnection))
	if err != nil {
		return core.ActiveSession{}, fmt.Errorf("failed to parse token: %w: %w", core.ErrInvalidToken, err)
	}

	if !token.Valid {
		return core.ActiveSession{}, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*ConnectionClaims)
	if !ok {
		return core.ActiveSession{}, fmt.Errorf("invalid claims type: %w", core.ErrInvalidToken)
	}

	session := core.ActiveSession{
		ID:        claims.ID,
		BackendID: claims.Backend,
		Family:    claims.Family,
		Address:   claims.Subject,
	}
	if claims.IssuedAt != nil {
		session.ConnectedAt = claims.IssuedAt.Time
	}
	return session, nil
}
