package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shopgate/internal/models"
	"shopgate/internal/storage"
)

func TestOpen_MissingFileStartsEmptyAndWritesIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	store, err := storage.Open(path)
	assert.NoError(t, err)
	assert.NotNil(t, store.Collection.Products)
	assert.Empty(t, store.Collection.Products)

	// The initial structure is on disk immediately.
	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"products": []}`, string(raw))
}

func TestPersist_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	store, err := storage.Open(path)
	assert.NoError(t, err)

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	store.Collection.Products = append(store.Collection.Products, models.Product{
		ID:        "p1",
		Title:     "Shirt",
		Status:    models.StatusActive,
		Tags:      []string{"clothing"},
		Variants:  []models.Variant{{ID: "v1", Title: "S", Price: 10, CreatedAt: now, UpdatedAt: now}},
		Images:    []models.Image{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	assert.NoError(t, store.Persist())

	reopened, err := storage.Open(path)
	assert.NoError(t, err)
	assert.Equal(t, store.Collection, reopened.Collection)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := storage.Open(path)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestOpen_NormalizesMissingProductList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	assert.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	store, err := storage.Open(path)
	assert.NoError(t, err)
	assert.NotNil(t, store.Collection.Products)
	assert.Empty(t, store.Collection.Products)
}
