//go:build unit

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rest-api/internal/registry"
	"rest-api/pkg/config"
	"rest-api/pkg/hasher"
)

const (
	TestMongoDbUserName = "root"
	TestMongoDbPassword = "12345"
	TestMongoDbDatabase = "rest-api"

	TestUserEmail    = "test@test.com"
	TestUserPassword = "12345"
)

func TestNewFactory(t *testing.T) {
	storeFactory := NewFactory(nil, &config.Config{}, registry.Default(), hasher.NewHasher())

	assert.Implements(t, (*Factory)(nil), storeFactory)
}

func TestFactory_For(t *testing.T) {
	storeFactory := NewFactory(nil, &config.Config{}, registry.Default(), hasher.NewHasher())

	t.Run("happy path", func(t *testing.T) {
		adapter, err := storeFactory.For("note")

		assert.NoError(t, err)
		assert.Equal(t, "note", adapter.Collection())
	})

	t.Run("should resolve plural aliases to the canonical collection", func(t *testing.T) {
		adapter, err := storeFactory.For("users")

		assert.NoError(t, err)
		assert.Equal(t, registry.UserCollection, adapter.Collection())
	})

	t.Run("when collection is unknown should return error", func(t *testing.T) {
		adapter, err := storeFactory.For("widgets")

		assert.Nil(t, adapter)
		assert.EqualError(t, err, "Collection widgets not found")
	})
}

func TestAdapter_Insert(t *testing.T) {
	ctx := context.Background()
	storeFactory, _ := setupTestFactory(t, ctx)
	passwordHasher := hasher.NewHasher()

	t.Run("happy path", func(t *testing.T) {
		userAdapter, err := storeFactory.For(registry.UserCollection)
		require.NoError(t, err)

		document, err := userAdapter.Insert(ctx, testUserBody(TestUserEmail))

		assert.NoError(t, err)
		require.NotNil(t, document)
		assert.NotEmpty(t, document["_id"])
	})

	t.Run("should hash the password before persistence", func(t *testing.T) {
		userAdapter, err := storeFactory.For(registry.UserCollection)
		require.NoError(t, err)

		document, err := userAdapter.Insert(ctx, testUserBody("hash@test.com"))
		require.NoError(t, err)

		storedHash, _ := document["password"].(string)
		assert.NotEqual(t, TestUserPassword, storedHash)

		matched, err := passwordHasher.Verify(TestUserPassword, storedHash)
		assert.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("should drop keys outside the schema", func(t *testing.T) {
		noteAdapter, err := storeFactory.For("note")
		require.NoError(t, err)

		document, err := noteAdapter.Insert(ctx, map[string]interface{}{
			"title":    "a note",
			"intruder": "value",
		})
		require.NoError(t, err)

		assert.NotContains(t, document, "intruder")
	})

	t.Run("when required fields are missing should list every violation", func(t *testing.T) {
		userAdapter, err := storeFactory.For(registry.UserCollection)
		require.NoError(t, err)

		_, err = userAdapter.Insert(ctx, map[string]interface{}{
			"name": "John",
		})

		require.Error(t, err)
		messages := validationMessages(t, err)
		assert.Contains(t, messages, "Path `email` is required.")
		assert.Contains(t, messages, "Path `password` is required.")
	})
}

func TestAdapter_Get(t *testing.T) {
	ctx := context.Background()
	storeFactory, _ := setupTestFactory(t, ctx)

	noteAdapter, err := storeFactory.For("note")
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		inserted, err := noteAdapter.Insert(ctx, map[string]interface{}{"title": "readable"})
		require.NoError(t, err)

		document, err := noteAdapter.Get(ctx, inserted["_id"].(string))

		assert.NoError(t, err)
		assert.Equal(t, "readable", document["title"])
	})

	t.Run("when id does not exist should return not found", func(t *testing.T) {
		_, err := noteAdapter.Get(ctx, "missing-id")

		assert.EqualError(t, err, "Object with _id: missing-id not found")
	})

	t.Run("when document is soft deleted should return not found", func(t *testing.T) {
		inserted, err := noteAdapter.Insert(ctx, map[string]interface{}{"title": "to delete"})
		require.NoError(t, err)

		id := inserted["_id"].(string)
		_, err = noteAdapter.Remove(ctx, id)
		require.NoError(t, err)

		_, err = noteAdapter.Get(ctx, id)
		assert.Error(t, err)
	})
}

func TestAdapter_Search(t *testing.T) {
	ctx := context.Background()
	storeFactory, _ := setupTestFactory(t, ctx)

	noteAdapter, err := storeFactory.For("note")
	require.NoError(t, err)

	for i := 1; i <= 25; i++ {
		_, err := noteAdapter.Insert(ctx, map[string]interface{}{
			"title": fmt.Sprintf("Meeting %02d", i),
		})
		require.NoError(t, err)
	}
	_, err = noteAdapter.Insert(ctx, map[string]interface{}{"title": "groceries"})
	require.NoError(t, err)

	t.Run("should match case-insensitive partials", func(t *testing.T) {
		result, err := noteAdapter.Search(ctx, map[string]string{"title": "meeting"}, nil)

		assert.NoError(t, err)
		assert.Len(t, result.Documents, 25)
		assert.False(t, result.Paged)
	})

	t.Run("should paginate with a total ignoring pagination", func(t *testing.T) {
		result, err := noteAdapter.Search(
			ctx,
			map[string]string{"title": "meeting"},
			&Query{Page: 2, Limit: 10, Sort: "title"},
		)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Paged)
		assert.Equal(t, int64(25), result.Total)
		require.Len(t, result.Documents, 10)
		assert.Equal(t, "Meeting 11", result.Documents[0]["title"])
		assert.Equal(t, "Meeting 20", result.Documents[9]["title"])
	})

	t.Run("should fall back to the default limit when out of range", func(t *testing.T) {
		result, err := noteAdapter.Search(
			ctx,
			map[string]string{"title": "meeting"},
			&Query{Page: 1, Limit: 100},
		)

		assert.NoError(t, err)
		assert.Len(t, result.Documents, DefaultLimit)
	})

	t.Run("should sort descending on demand", func(t *testing.T) {
		result, err := noteAdapter.Search(
			ctx,
			map[string]string{"title": "meeting"},
			&Query{Sort: "title", Order: "DESC", Limit: 1},
		)

		assert.NoError(t, err)
		require.Len(t, result.Documents, 1)
		assert.Equal(t, "Meeting 25", result.Documents[0]["title"])
	})

	t.Run("when a filter value is numeric should return nothing", func(t *testing.T) {
		result, err := noteAdapter.Search(ctx, map[string]string{"title": "25"}, nil)

		assert.NoError(t, err)
		assert.Empty(t, result.Documents)
	})

	t.Run("should never return soft deleted documents", func(t *testing.T) {
		inserted, err := noteAdapter.Insert(ctx, map[string]interface{}{"title": "ephemeral"})
		require.NoError(t, err)

		_, err = noteAdapter.Remove(ctx, inserted["_id"].(string))
		require.NoError(t, err)

		result, err := noteAdapter.Search(ctx, map[string]string{"title": "ephemeral"}, nil)
		assert.NoError(t, err)
		assert.Empty(t, result.Documents)
	})
}

func TestAdapter_Update(t *testing.T) {
	ctx := context.Background()
	storeFactory, _ := setupTestFactory(t, ctx)

	noteAdapter, err := storeFactory.For("note")
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		inserted, err := noteAdapter.Insert(ctx, map[string]interface{}{"title": "draft"})
		require.NoError(t, err)

		id := inserted["_id"].(string)
		result, err := noteAdapter.Update(ctx, id, map[string]interface{}{"title": "final"})

		assert.NoError(t, err)
		assert.Equal(t, &UpdateResult{Error: false, Updated: 1}, result)

		document, err := noteAdapter.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "final", document["title"])
	})

	t.Run("when id does not match should report zero updates", func(t *testing.T) {
		result, err := noteAdapter.Update(ctx, "missing-id", map[string]interface{}{"title": "x"})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.Updated)
	})
}

func TestAdapter_Remove(t *testing.T) {
	ctx := context.Background()
	storeFactory, mongodbClient := setupTestFactory(t, ctx)

	noteAdapter, err := storeFactory.For("note")
	require.NoError(t, err)

	inserted, err := noteAdapter.Insert(ctx, map[string]interface{}{"title": "short lived"})
	require.NoError(t, err)
	id := inserted["_id"].(string)

	t.Run("happy path", func(t *testing.T) {
		result, err := noteAdapter.Remove(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)

		_, err = noteAdapter.Get(ctx, id)
		assert.Error(t, err)
	})

	t.Run("should keep the underlying record", func(t *testing.T) {
		var raw bson.M
		err := mongodbClient.
			Database(TestMongoDbDatabase).
			Collection("note").
			FindOne(ctx, bson.M{"_id": id}).
			Decode(&raw)

		assert.NoError(t, err)
		assert.Equal(t, true, raw["deleted"])
	})

	t.Run("when already removed should report zero updates", func(t *testing.T) {
		result, err := noteAdapter.Remove(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.Updated)
	})
}

func testUserBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":     "John",
		"lastname": "Doe",
		"email":    email,
		"phone":    "123456789",
		"password": TestUserPassword,
	}
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()

	cerr, ok := err.(interface{ ResponseMessage() interface{} })
	require.True(t, ok)

	messages, ok := cerr.ResponseMessage().([]string)
	require.True(t, ok)

	return messages
}

func setupTestFactory(t *testing.T, ctx context.Context) (Factory, *mongo.Client) {
	t.Helper()

	container := setupMongoDbContainer(t, ctx)
	mongodbUri, err := container.Endpoint(ctx, "mongodb")
	if err != nil {
		t.Fatal(fmt.Errorf("failed to get endpoint: %w", err))
	}

	clientOptions := options.Client().
		ApplyURI(mongodbUri).
		SetAuth(options.Credential{
			Username: TestMongoDbUserName,
			Password: TestMongoDbPassword,
		})
	mongodbClient, err := mongo.Connect(ctx, clientOptions)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = mongodbClient.Disconnect(ctx)
	})

	cfg := &config.Config{
		Mongodb: config.MongodbConfig{
			Database: TestMongoDbDatabase,
		},
	}

	return NewFactory(mongodbClient, cfg, registry.Default(), hasher.NewHasher()), mongodbClient
}

func setupMongoDbContainer(t *testing.T, ctx context.Context) testcontainers.Container {
	req := testcontainers.ContainerRequest{
		Image: "mongo",
		Env: map[string]string{
			"MONGO_INITDB_ROOT_USERNAME": TestMongoDbUserName,
			"MONGO_INITDB_ROOT_PASSWORD": TestMongoDbPassword,
		},
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Waiting for connections"),
			wait.ForListeningPort("27017/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	return container
}
