package auth

import (
	"github.com/gofiber/fiber/v2"

	"rest-api/pkg/jwt_generator"
)

// IdentityContextKey addresses the authenticated identity in the request
// locals. It is set once by Authenticate and only read afterwards.
const IdentityContextKey = "identity"

// Actions names the operation behind each HTTP method in rejection
// responses.
var Actions = map[string]string{
	fiber.MethodGet:    "search",
	fiber.MethodPost:   "create",
	fiber.MethodPut:    "update",
	fiber.MethodDelete: "delete",
}

// IdentityFromContext returns the authenticated identity, or nil for an
// anonymous request.
func IdentityFromContext(ctx *fiber.Ctx) *jwt_generator.UserSnapshot {
	identity, ok := ctx.Locals(IdentityContextKey).(*jwt_generator.UserSnapshot)
	if !ok {
		return nil
	}

	return identity
}
