package docstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoMergeUpdate_LegacyRoutine(t *testing.T) {
	// Stored shape was {routine: {products: [{id: p1}]}}; the update must not
	// address routine.products.am, which MongoDB rejects on an array.
	routine := map[string]any{
		"time":     []any{"morning", "evening"},
		"products": map[string]any{"am": []any{map[string]any{"id": "p1"}}, "pm": []any{}},
		"plan":     map[string]any{},
	}
	update := mergeUpdate("u1", Document{"routine": routine})

	set, ok := update["$set"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, bson.M{"routine": routine}, set)
	for path := range set {
		assert.False(t, strings.Contains(path, "."), "dotted path %q", path)
	}
}

func TestMongoMergeUpdate_Empty(t *testing.T) {
	assert.Equal(t, bson.M{"$setOnInsert": bson.M{"_id": "u1"}}, mergeUpdate("u1", Document{}))
}
