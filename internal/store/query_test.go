//go:build unit

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildSearchFilter(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		filter, supported := BuildSearchFilter(map[string]string{
			"name": "john",
		})

		require.True(t, supported)
		assert.Equal(t, bson.M{"$ne": true}, filter["deleted"])
		assert.Equal(t, bson.M{"$regex": "john", "$options": "i"}, filter["name"])
	})

	t.Run("should always carry the soft-delete clause", func(t *testing.T) {
		filter, supported := BuildSearchFilter(nil)

		require.True(t, supported)
		assert.Equal(t, bson.M{"deleted": bson.M{"$ne": true}}, filter)
	})

	t.Run("should strip transport keys and password", func(t *testing.T) {
		filter, supported := BuildSearchFilter(map[string]string{
			"token":    "abcd.abcd.abcd",
			"pretty":   "true",
			"password": "12345",
			"name":     "john",
		})

		require.True(t, supported)
		assert.NotContains(t, filter, "token")
		assert.NotContains(t, filter, "pretty")
		assert.NotContains(t, filter, "password")
		assert.Contains(t, filter, "name")
	})

	t.Run("when a value is numeric should abandon the search", func(t *testing.T) {
		for _, value := range []string{"25", ">100", "<3", "=42", ">=7"} {
			filter, supported := BuildSearchFilter(map[string]string{
				"age": value,
			})

			assert.False(t, supported, value)
			assert.Nil(t, filter, value)
		}
	})

	t.Run("should not treat values with trailing text as numeric", func(t *testing.T) {
		filter, supported := BuildSearchFilter(map[string]string{
			"street": "5th avenue",
		})

		require.True(t, supported)
		assert.Contains(t, filter, "street")
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 29, ClampLimit(29))
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-5))
	assert.Equal(t, DefaultLimit, ClampLimit(MaxLimit))
	assert.Equal(t, DefaultLimit, ClampLimit(MaxLimit+10))
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, 1, SortDirection(""))
	assert.Equal(t, 1, SortDirection("ASC"))
	assert.Equal(t, 1, SortDirection("asc"))
	assert.Equal(t, -1, SortDirection("DESC"))
	assert.Equal(t, -1, SortDirection("desc"))
}
