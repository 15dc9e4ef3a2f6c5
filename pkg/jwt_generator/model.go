package jwt_generator

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenInvalid = errors.New("session token is not valid")
	ErrTokenExpired = errors.New("session token expired")
)

// Privilege grants a set of HTTP methods on one collection.
type Privilege struct {
	Model   string   `json:"model" bson:"model"`
	Methods []string `json:"methods" bson:"methods"`
}

// UserSnapshot is the identity embedded into a session token. It never
// carries the password hash.
type UserSnapshot struct {
	Id         string      `json:"_id"`
	Name       string      `json:"name,omitempty"`
	Email      string      `json:"email"`
	// No omitempty: an empty grant list must survive the token
	// round-trip, it does not mean the same thing as no list at all.
	Privileges []Privilege `json:"privileges"`
}

type Claims struct {
	User *UserSnapshot `json:"user"`
	jwt.RegisteredClaims
}
