package api

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rest-api/internal/auth"
	"rest-api/internal/registry"
	"rest-api/internal/store"
	"rest-api/pkg/cerror"
	"rest-api/pkg/config"
	"rest-api/pkg/hasher"
	"rest-api/pkg/jwt_generator"
	"rest-api/pkg/logger"
	"rest-api/pkg/server"
)

type handler struct {
	store          store.Factory
	jwtGenerator   jwt_generator.JwtGenerator
	passwordHasher hasher.Hasher
	authMiddleware *auth.Middleware
	config         *config.Config
	validate       *validator.Validate
}

func NewHandler(
	storeFactory store.Factory,
	jwtGenerator jwt_generator.JwtGenerator,
	passwordHasher hasher.Hasher,
	authMiddleware *auth.Middleware,
	config *config.Config,
) server.Handler {
	return &handler{
		store:          storeFactory,
		jwtGenerator:   jwtGenerator,
		passwordHasher: passwordHasher,
		authMiddleware: authMiddleware,
		config:         config,
		validate:       validator.New(),
	}
}

// RegisterRoutes mounts the public user and login endpoints first, then
// the dynamic collection routes behind the auth chain. Registration
// order matters: fiber matches /user before /:model.
func (h *handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/user", h.RegisterUser)
	api.Post("/users", h.RegisterUser)
	api.Get("/user", h.ListUsers)
	api.Get("/users", h.ListUsers)
	api.Post("/login", h.Login)

	collectionMethods := []string{
		fiber.MethodGet,
		fiber.MethodPost,
		fiber.MethodPut,
		fiber.MethodDelete,
	}
	for _, method := range collectionMethods {
		api.Add(
			method,
			"/:model/:id?",
			h.authMiddleware.Authenticate,
			h.authMiddleware.Authorize,
			h.Dispatch,
		)
	}
}

func (h *handler) RegisterUser(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "registerUser"))

	var body map[string]interface{}
	err := ctx.BodyParser(&body)
	if err != nil {
		return cerror.NewError(
			fiber.StatusBadRequest,
			"malformed request body",
			zap.Error(err),
		).SetSeverity(zapcore.WarnLevel)
	}

	// Nobody grants themselves privileges on registration.
	delete(body, "privileges")

	adapter, err := h.store.For(registry.UserCollection)
	if err != nil {
		return err
	}

	document, err := adapter.Insert(ctx.Context(), body)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return h.respond(ctx, fiber.StatusCreated, fiber.Map{
		"error": false,
		"user":  sanitizeUserDocument(document, false),
	})
}

// ListUsers is the public user listing; password and privileges never
// leave through it.
func (h *handler) ListUsers(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "listUsers"))

	adapter, err := h.store.For(registry.UserCollection)
	if err != nil {
		return err
	}

	result, err := adapter.Search(ctx.Context(), nil, nil)
	if err != nil {
		return err
	}

	users := make([]bson.M, 0, len(result.Documents))
	for _, document := range result.Documents {
		users = append(users, sanitizeUserDocument(document, true))
	}

	log.Info(logger.EventFinishedSuccessfully)
	return h.respond(ctx, fiber.StatusOK, users)
}

func (h *handler) Login(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "login"))

	var payload LoginPayload
	err := ctx.BodyParser(&payload)
	if err == nil {
		err = h.validate.Struct(&payload)
	}
	if err != nil {
		return cerror.NewError(
			fiber.StatusBadRequest,
			"Email and password are required",
			zap.Error(err),
		).SetSeverity(zapcore.WarnLevel)
	}

	adapter, err := h.store.For(registry.UserCollection)
	if err != nil {
		return err
	}

	result, err := adapter.Search(ctx.Context(), map[string]string{"email": payload.Email}, nil)
	if err != nil {
		return err
	}
	if len(result.Documents) == 0 {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"Could not find user",
		).SetSeverity(zapcore.WarnLevel)
	}

	userDocument := result.Documents[0]
	storedHash, _ := userDocument["password"].(string)
	matched, err := h.passwordHasher.Verify(payload.Password, storedHash)
	if err != nil || !matched {
		return cerror.NewError(
			fiber.StatusBadRequest,
			"Password is incorrect",
		).SetSeverity(zapcore.WarnLevel)
	}

	snapshot, err := jwt_generator.SnapshotFromDocument(userDocument)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while build session token payload",
			zap.Error(err),
		)
	}

	token, err := h.jwtGenerator.GenerateSessionToken(snapshot, h.config.Jwt.Lifetime)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate session token",
			zap.Error(err),
		)
	}

	log.Info(logger.EventFinishedSuccessfully)
	return h.respond(ctx, fiber.StatusOK, fiber.Map{
		"error": false,
		"token": token,
	})
}

// Dispatch maps method + collection + optional id onto one store
// operation.
func (h *handler) Dispatch(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(
			zap.String("eventName", "dispatch"),
			zap.String("model", ctx.Params("model")),
		)

	adapter, err := h.store.For(ctx.Params("model"))
	if err != nil {
		return err
	}

	id := ctx.Params("id")

	switch ctx.Method() {
	case fiber.MethodPost:
		var body map[string]interface{}
		err = ctx.BodyParser(&body)
		if err != nil {
			return cerror.NewError(
				fiber.StatusBadRequest,
				"malformed request body",
				zap.Error(err),
			).SetSeverity(zapcore.WarnLevel)
		}

		var document bson.M
		document, err = adapter.Insert(ctx.Context(), body)
		if err != nil {
			return err
		}

		log.Info(logger.EventFinishedSuccessfully)
		return h.respond(ctx, fiber.StatusOK, h.sanitizeDocument(adapter, document))

	case fiber.MethodGet:
		if id != "" {
			var document bson.M
			document, err = adapter.Get(ctx.Context(), id)
			if err != nil {
				return err
			}

			log.Info(logger.EventFinishedSuccessfully)
			return h.respond(ctx, fiber.StatusOK, h.sanitizeDocument(adapter, document))
		}

		filters, query := translateQueryParams(ctx.Queries())
		var result *store.SearchResult
		result, err = adapter.Search(ctx.Context(), filters, query)
		if err != nil {
			return err
		}

		documents := make([]bson.M, 0, len(result.Documents))
		for _, document := range result.Documents {
			documents = append(documents, h.sanitizeDocument(adapter, document))
		}

		log.Info(logger.EventFinishedSuccessfully)
		if result.Paged {
			return h.respond(ctx, fiber.StatusOK, fiber.Map{
				"total":  result.Total,
				"result": documents,
			})
		}

		return h.respond(ctx, fiber.StatusOK, documents)

	case fiber.MethodPut:
		if id == "" {
			return cerror.NewError(
				fiber.StatusBadRequest,
				"Missing object id",
			).SetSeverity(zapcore.WarnLevel)
		}

		var result *store.UpdateResult
		result, err = adapter.Update(ctx.Context(), id, updateBodyFromQuery(ctx.Queries()))
		if err != nil {
			return err
		}

		log.Info(logger.EventFinishedSuccessfully)
		return h.respond(ctx, fiber.StatusOK, result)

	case fiber.MethodDelete:
		if id == "" {
			return cerror.NewError(
				fiber.StatusBadRequest,
				"Missing object id",
			).SetSeverity(zapcore.WarnLevel)
		}

		var result *store.UpdateResult
		result, err = adapter.Remove(ctx.Context(), id)
		if err != nil {
			return err
		}

		log.Info(logger.EventFinishedSuccessfully)
		return h.respond(ctx, fiber.StatusOK, result)
	}

	return fiber.ErrMethodNotAllowed
}

// respond renders payload as JSON, indented when pretty printing was
// asked for by query parameter or configuration.
func (h *handler) respond(ctx *fiber.Ctx, statusCode int, payload interface{}) error {
	if h.config.PrettyPrint || ctx.Query("pretty") != "" {
		body, err := json.MarshalIndent(payload, "", "    ")
		if err != nil {
			return err
		}

		ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return ctx.Status(statusCode).Send(body)
	}

	return ctx.Status(statusCode).JSON(payload)
}

func (h *handler) sanitizeDocument(adapter store.Adapter, document bson.M) bson.M {
	if adapter.Collection() != registry.UserCollection {
		return document
	}

	return sanitizeUserDocument(document, false)
}

// sanitizeUserDocument strips the password hash, and the privilege
// grants too on the public listing.
func sanitizeUserDocument(document bson.M, public bool) bson.M {
	sanitized := make(bson.M, len(document))
	for key, value := range document {
		if key == "password" {
			continue
		}
		if public && key == "privileges" {
			continue
		}

		sanitized[key] = value
	}

	return sanitized
}

// translateQueryParams splits URL parameters into search filters and
// normalized query options; recognized aliases never reach the filters.
func translateQueryParams(params map[string]string) (map[string]string, *store.Query) {
	filters := make(map[string]string)
	query := &store.Query{}

	for key, value := range params {
		target, isAlias := searchParams[key]
		if !isAlias {
			filters[key] = value
			continue
		}

		switch target {
		case "limit":
			query.Limit, _ = strconv.Atoi(value)
		case "page":
			query.Page, _ = strconv.Atoi(value)
		case "sort":
			query.Sort = value
		case "order":
			query.Order = value
		}
	}

	return filters, query
}

// updateBodyFromQuery builds the partial update from URL parameters,
// excluding the transport keys so a session token is never persisted
// into a document.
func updateBodyFromQuery(params map[string]string) map[string]interface{} {
	body := make(map[string]interface{}, len(params))
	for key, value := range params {
		if key == "token" || key == "pretty" {
			continue
		}

		body[key] = value
	}

	return body
}
