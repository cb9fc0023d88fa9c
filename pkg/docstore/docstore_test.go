package docstore_test

import (
	"context"
	"testing"

	"skincare-backend/pkg/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := docstore.NewMemoryStore()
	_, err := s.Get(context.Background(), "users", "nobody")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMemoryStore_ReplaceAndMerge(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()

	require.NoError(t, s.Set(ctx, "users", "u1", docstore.Document{
		"routine": map[string]any{
			"time": []any{"morning"},
			"plan": map[string]any{"morning": []any{"a"}},
		},
		"skinProfile": map[string]any{"age": 30},
	}, docstore.Replace))

	require.NoError(t, s.Set(ctx, "users", "u1", docstore.Document{
		"routine": map[string]any{"plan": map[string]any{"evening": []any{"b"}}},
	}, docstore.Merge))

	got, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"plan": map[string]any{"evening": []any{"b"}}}, got["routine"],
		"merge replaces a top-level field as a whole")
	assert.Equal(t, map[string]any{"age": 30.0}, got["skinProfile"], "numbers come back as float64")

	require.NoError(t, s.Set(ctx, "users", "u1", docstore.Document{"other": true}, docstore.Replace))
	got, err = s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, docstore.Document{"other": true}, got)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "c", "k", docstore.Document{"list": []any{"a"}}, docstore.Replace))

	got, err := s.Get(ctx, "c", "k")
	require.NoError(t, err)
	got["list"] = []any{"mutated"}

	again, err := s.Get(ctx, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, again["list"])
}

func TestMemoryStore_QueryListDelete(t *testing.T) {
	ctx := context.Background()
	s := docstore.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "user_products", "u1_b", docstore.Document{"uid": "u1", "product_id": "b"}, docstore.Replace))
	require.NoError(t, s.Set(ctx, "user_products", "u1_a", docstore.Document{"uid": "u1", "product_id": "a"}, docstore.Replace))
	require.NoError(t, s.Set(ctx, "user_products", "u2_a", docstore.Document{"uid": "u2", "product_id": "a"}, docstore.Replace))

	hits, err := s.Query(ctx, "user_products", "uid", "u1")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "u1_a", hits[0].Key)
	assert.Equal(t, "u1_b", hits[1].Key)

	all, err := s.List(ctx, "user_products")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Delete(ctx, "user_products", "u1_a"))
	require.NoError(t, s.Delete(ctx, "user_products", "missing"))
	hits, err = s.Query(ctx, "user_products", "uid", "u1")
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestMergeFields(t *testing.T) {
	dst := map[string]any{
		"routine": map[string]any{"products": []any{map[string]any{"id": "p1"}}, "extra": true},
		"skinProfile": map[string]any{"age": 30},
	}
	src := map[string]any{
		"routine": map[string]any{"products": map[string]any{"am": []any{}, "pm": []any{}}},
	}
	got := docstore.MergeFields(dst, src)
	assert.Equal(t, map[string]any{
		"routine":     map[string]any{"products": map[string]any{"am": []any{}, "pm": []any{}}},
		"skinProfile": map[string]any{"age": 30},
	}, got)
}
