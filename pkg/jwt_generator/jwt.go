package jwt_generator

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"

	"rest-api/pkg/config"
)

type JwtGenerator interface {
	GenerateSessionToken(user *UserSnapshot, lifetime time.Duration) (string, error)
	VerifySessionToken(rawJwtToken string) (*UserSnapshot, error)
}

type jwtGenerator struct {
	signature []byte
}

func NewJwtGenerator(jwtConfig config.JwtConfig) (JwtGenerator, error) {
	if jwtConfig.Signature == "" {
		return nil, fmt.Errorf(config.EnvironmentVariableNotDefined, config.JwtSignature)
	}

	return &jwtGenerator{
		signature: []byte(jwtConfig.Signature),
	}, nil
}

func (jwtGenerator *jwtGenerator) GenerateSessionToken(
	user *UserSnapshot,
	lifetime time.Duration,
) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(jwtGenerator.signature)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// VerifySessionToken checks signature and format first, then expiry.
// Callers rely on ErrTokenExpired and ErrTokenInvalid being distinct.
func (jwtGenerator *jwtGenerator) VerifySessionToken(rawJwtToken string) (*UserSnapshot, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(rawJwtToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}

		return jwtGenerator.signature, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrTokenInvalid
	}

	now := time.Now().UTC()
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return nil, ErrTokenExpired
	}

	return claims.User, nil
}

// SnapshotFromDocument converts a raw user document into the identity
// embedded in session tokens. Fields outside UserSnapshot, the password
// hash included, do not survive the conversion.
func SnapshotFromDocument(document map[string]interface{}) (*UserSnapshot, error) {
	marshalled, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}

	var snapshot UserSnapshot
	err = json.Unmarshal(marshalled, &snapshot)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
