package cerror

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rest-api/pkg/logger"
)

// Middleware is the fiber error handler. Every handler and middleware
// returns errors instead of writing failure responses; this is the single
// place they are logged and rendered as {error:true, msg:...} bodies.
func Middleware(ctx *fiber.Ctx, err error) error {
	var cerr *CustomError
	isCerror := errors.As(err, &cerr)
	if !isCerror {
		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			return ctx.Status(fiberError.Code).JSON(fiber.Map{
				"error": true,
				"msg":   fiberError.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true,
			"msg":   err.Error(),
		})
	}

	log := logger.FromContext(ctx.Context()).Desugar()
	for _, field := range cerr.LogFields {
		log = log.With(field)
	}
	log.Log(cerr.LogSeverity, cerr.LogMessage)

	body := fiber.Map{
		"error": true,
		"msg":   cerr.ResponseMessage(),
	}
	for key, value := range cerr.ResponseFields {
		body[key] = value
	}

	return ctx.Status(cerr.HttpStatusCode).JSON(body)
}
