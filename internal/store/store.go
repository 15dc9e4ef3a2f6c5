package store

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rest-api/internal/registry"
	"rest-api/pkg/cerror"
	"rest-api/pkg/config"
	"rest-api/pkg/hasher"
)

type Adapter interface {
	Collection() string
	Insert(ctx context.Context, body map[string]interface{}) (bson.M, error)
	Get(ctx context.Context, id string) (bson.M, error)
	Search(ctx context.Context, filters map[string]string, query *Query) (*SearchResult, error)
	Update(ctx context.Context, id string, body map[string]interface{}) (*UpdateResult, error)
	Remove(ctx context.Context, id string) (*UpdateResult, error)
}

type Factory interface {
	For(collection string) (Adapter, error)
}

type factory struct {
	client         *mongo.Client
	config         *config.Config
	registry       *registry.Registry
	passwordHasher hasher.Hasher
	validate       *validator.Validate
}

func NewFactory(
	client *mongo.Client,
	config *config.Config,
	registry *registry.Registry,
	passwordHasher hasher.Hasher,
) Factory {
	return &factory{
		client:         client,
		config:         config,
		registry:       registry,
		passwordHasher: passwordHasher,
		validate:       validator.New(),
	}
}

// For resolves a collection name against the registry. The canonical
// (singular) schema name addresses the mongo collection, so plural
// aliases land on the same documents.
func (f *factory) For(collection string) (Adapter, error) {
	schema, ok := f.registry.Get(collection)
	if !ok {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			fmt.Sprintf("Collection %s not found", collection),
		).SetSeverity(zapcore.WarnLevel)
	}

	return &adapter{
		schema:         schema,
		collection:     f.client.Database(f.config.Mongodb.Database).Collection(schema.Name),
		passwordHasher: f.passwordHasher,
		validate:       f.validate,
	}, nil
}

type adapter struct {
	schema         registry.Schema
	collection     *mongo.Collection
	passwordHasher hasher.Hasher
	validate       *validator.Validate
}

// Collection reports the canonical collection name the adapter resolved
// to, regardless of which alias it was requested under.
func (a *adapter) Collection() string {
	return a.schema.Name
}

func (a *adapter) Insert(ctx context.Context, body map[string]interface{}) (bson.M, error) {
	messages := a.validateDocument(body)
	if len(messages) > 0 {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"document validation failed",
		).SetMessage(messages).SetSeverity(zapcore.WarnLevel)
	}

	// Keys outside the schema are dropped.
	document := make(bson.M, len(a.schema.Fields)+1)
	for _, field := range a.schema.Fields {
		if value, ok := body[field.Name]; ok {
			document[field.Name] = value
		}
	}

	if a.schema.Name == registry.UserCollection {
		if plaintext, ok := document["password"].(string); ok && plaintext != "" {
			hashedPassword, err := a.passwordHasher.Hash(plaintext)
			if err != nil {
				return nil, cerror.NewError(
					fiber.StatusInternalServerError,
					"error occurred while generate hash from password",
					zap.Error(err),
				)
			}

			document["password"] = hashedPassword
		}
	}

	document["_id"] = uuid.New().String()
	_, err := a.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while insert document",
			zap.Error(err),
		)
	}

	return document, nil
}

func (a *adapter) Get(ctx context.Context, id string) (bson.M, error) {
	filter := bson.M{
		"_id":     id,
		"deleted": bson.M{"$ne": true},
	}

	var document bson.M
	findOneOptions := options.FindOne().SetProjection(bson.M{"__v": 0})
	err := a.collection.FindOne(ctx, filter, findOneOptions).Decode(&document)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, cerror.NewError(
				fiber.StatusInternalServerError,
				fmt.Sprintf("Object with _id: %s not found", id),
			).SetSeverity(zapcore.WarnLevel)
		}

		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find document",
			zap.Error(err),
		)
	}

	return document, nil
}

func (a *adapter) Search(
	ctx context.Context,
	filters map[string]string,
	query *Query,
) (*SearchResult, error) {
	if query == nil {
		query = &Query{}
	}

	filter, supported := BuildSearchFilter(filters)
	if !supported {
		// Number queries are not supported, the whole search is abandoned.
		return &SearchResult{Documents: []bson.M{}}, nil
	}

	findOptions := options.Find().SetProjection(bson.M{"__v": 0})

	paged := query.Page > 0
	limit := query.Limit
	if paged {
		limit = ClampLimit(limit)
		findOptions.SetSkip(int64(query.Page-1) * int64(limit))
	}
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	if query.Sort != "" {
		findOptions.SetSort(bson.D{{Key: query.Sort, Value: SortDirection(query.Order)}})
	}

	cursor, err := a.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while search documents",
			zap.Error(err),
		)
	}

	documents := make([]bson.M, 0)
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while decode documents",
			zap.Error(err),
		)
	}

	result := &SearchResult{Documents: documents}
	if !paged {
		return result, nil
	}

	// The total ignores pagination; only computed when a page was asked
	// for, to avoid the extra count query otherwise.
	total, err := a.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while count documents",
			zap.Error(err),
		)
	}

	result.Paged = true
	result.Total = total
	return result, nil
}

func (a *adapter) Update(
	ctx context.Context,
	id string,
	body map[string]interface{},
) (*UpdateResult, error) {
	update := make(bson.M, len(body))
	for key, value := range body {
		if key == "_id" {
			continue
		}
		update[key] = value
	}

	if len(update) == 0 {
		return &UpdateResult{Error: false, Updated: 0}, nil
	}

	result, err := a.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": update},
	)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while update document",
			zap.Error(err),
		)
	}

	return &UpdateResult{Error: false, Updated: result.MatchedCount}, nil
}

// Remove soft-deletes: the document stays in the collection with
// deleted=true and disappears from Get and Search. Removing an already
// removed id matches nothing and reports updated:0.
func (a *adapter) Remove(ctx context.Context, id string) (*UpdateResult, error) {
	result, err := a.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"deleted": true}},
	)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while remove document",
			zap.Error(err),
		)
	}

	return &UpdateResult{Error: false, Updated: result.MatchedCount}, nil
}
