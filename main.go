package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rest-api/internal/api"
	"rest-api/internal/auth"
	"rest-api/internal/registry"
	"rest-api/internal/store"
	"rest-api/pkg/config"
	"rest-api/pkg/hasher"
	"rest-api/pkg/jwt_generator"
	"rest-api/pkg/logger"
	"rest-api/pkg/server"
)

func main() {
	log := logger.NewLogger()
	defer func(l logger.Logger) {
		err := l.Desugar().Sync()
		if err != nil {
			panic(err)
		}
	}(log)

	isAtRemote := os.Getenv(config.IsAtRemote)
	if isAtRemote == "" {
		err := godotenv.Load()
		if err != nil {
			log.Warnw(
				"no .env file loaded",
				zap.Error(err),
			)
		}
	}

	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalw(
			"failed to read configuration",
			zap.Error(err),
		)
	}
	cfg.Print()

	var jwtGenerator jwt_generator.JwtGenerator
	jwtGenerator, err = jwt_generator.NewJwtGenerator(cfg.Jwt)
	if err != nil {
		log.Fatalw(
			"failed to create jwt generator",
			zap.Error(err),
		)
	}

	ctx := context.Background()
	mongodbClient, err := setupMongodbClient(ctx, cfg)
	if err != nil {
		log.Fatalw(
			"failed to setup mongodb client",
			zap.Error(err),
		)
	}

	defer func(client *mongo.Client, ctx context.Context) {
		err := client.Disconnect(ctx)
		if err != nil {
			log.Fatalw(
				"failed to disconnect mongodb client",
				zap.Error(err),
			)
		}
	}(mongodbClient, ctx)

	schemaRegistry := registry.Default()
	passwordHasher := hasher.NewHasher()
	storeFactory := store.NewFactory(mongodbClient, cfg, schemaRegistry, passwordHasher)
	authMiddleware := auth.NewMiddleware(jwtGenerator, cfg.GuestMethods)
	apiHandler := api.NewHandler(storeFactory, jwtGenerator, passwordHasher, authMiddleware, cfg)

	var handlers []server.Handler
	handlers = append(handlers, apiHandler)
	srv := server.NewServer(cfg, handlers)

	logMiddleware := logger.Middleware(log)
	app := srv.GetFiberInstance()
	app.Use(cors.New())
	app.Use(logMiddleware)

	srv.RegisterRoutes()

	if isAtRemote == "" {
		err = srv.Start()
		if err != nil {
			panic(err)
		}
	} else {
		lambda.Start(srv.LambdaProxyHandler)
	}
}

func setupMongodbClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	mongodbServerAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(cfg.Mongodb.Url).
		SetServerAPIOptions(mongodbServerAPIOptions)

	if cfg.Mongodb.Username != "" {
		clientOptions = clientOptions.SetAuth(options.Credential{
			Username: cfg.Mongodb.Username,
			Password: cfg.Mongodb.Password,
		})
	}

	mongodbClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	return mongodbClient, nil
}
