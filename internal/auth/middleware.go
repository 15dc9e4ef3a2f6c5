package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rest-api/pkg/cerror"
	"rest-api/pkg/jwt_generator"
)

type Middleware struct {
	jwtGenerator jwt_generator.JwtGenerator
	guestMethods []string
}

func NewMiddleware(jwtGenerator jwt_generator.JwtGenerator, guestMethods []string) *Middleware {
	return &Middleware{
		jwtGenerator: jwtGenerator,
		guestMethods: guestMethods,
	}
}

// Authenticate validates a session token when one is present. Requests
// without a token query parameter and without a two-part Authorization
// header continue anonymously; the privilege stage decides what guests
// may do.
func (m *Middleware) Authenticate(ctx *fiber.Ctx) error {
	token := strings.TrimSpace(ctx.Query("token"))
	if token == "" {
		authorization := ctx.Get(fiber.HeaderAuthorization)
		headerParts := strings.Split(authorization, " ")
		if authorization == "" || len(headerParts) == 1 {
			return ctx.Next()
		}

		token = strings.TrimSpace(headerParts[1])
	}

	identity, err := m.jwtGenerator.VerifySessionToken(token)
	if err != nil {
		if errors.Is(err, jwt_generator.ErrTokenExpired) {
			return cerror.NewError(
				fiber.StatusUnauthorized,
				"Token expired",
			).SetSeverity(zapcore.WarnLevel)
		}

		return cerror.NewError(
			fiber.StatusBadRequest,
			"Token validation error",
			zap.Error(err),
		).SetSeverity(zapcore.WarnLevel).SetResponseFields(map[string]interface{}{
			"token": token,
		})
	}

	ctx.Locals(IdentityContextKey, identity)
	return ctx.Next()
}

// Authorize enforces per-collection privileges on /:model routes. Only
// anonymous callers take the guest path; an authenticated identity is
// judged by its grants alone, so an empty grant list can do nothing.
func (m *Middleware) Authorize(ctx *fiber.Ctx) error {
	method := ctx.Method()

	identity := IdentityFromContext(ctx)
	if identity == nil {
		for _, guestMethod := range m.guestMethods {
			if guestMethod == method {
				return ctx.Next()
			}
		}

		return cerror.NewError(
			fiber.StatusBadRequest,
			"User is not allowed to do this",
		).SetSeverity(zapcore.WarnLevel)
	}

	model := ctx.Params("model")
	for _, privilege := range identity.Privileges {
		if privilege.Model != model {
			continue
		}

		for _, allowedMethod := range privilege.Methods {
			if allowedMethod == method {
				return ctx.Next()
			}
		}
	}

	return cerror.NewError(
		fiber.StatusBadRequest,
		"User cannot perform that action",
	).SetSeverity(zapcore.WarnLevel).SetResponseFields(map[string]interface{}{
		"action": Actions[method],
		"model":  model,
	})
}
