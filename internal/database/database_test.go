package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruecksen/publications/internal/entities"
)

// setupTestDB creates a fresh test database seeded with the built-in types
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath, "")
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_SeedsDefaultTypes(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var types []entities.Type
	require.NoError(t, db.DB.Order(`"order" ASC`).Find(&types).Error)
	require.NotEmpty(t, types)

	assert.Equal(t, "Article", types[0].Title)
	assert.Equal(t, "article", types[0].BibtexTypes)

	var misc entities.Type
	require.NoError(t, db.DB.Where("title = ?", "Miscellaneous").First(&misc).Error)
	assert.True(t, misc.Matches("patent"))
}

func TestNewDatabase_SeedIsIdempotent(t *testing.T) {
	dbPath := "./test_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath, "")
	require.NoError(t, err)

	var before int64
	require.NoError(t, db.DB.Model(&entities.Type{}).Count(&before).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath, "")
	require.NoError(t, err)
	defer db.Close()

	var after int64
	require.NoError(t, db.DB.Model(&entities.Type{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestNewDatabase_TypesPathOverride(t *testing.T) {
	dir := t.TempDir()
	typesPath := filepath.Join(dir, "types.yaml")
	yaml := `- title: Article
  bibtex_types: article
- title: Preprint
  bibtex_types: unpublished, preprint
`
	require.NoError(t, os.WriteFile(typesPath, []byte(yaml), 0o644))

	dbPath := filepath.Join(dir, "pubs.db")
	db, err := NewDatabase(dbPath, typesPath)
	require.NoError(t, err)
	defer db.Close()

	var types []entities.Type
	require.NoError(t, db.DB.Order(`"order" ASC`).Find(&types).Error)
	require.Len(t, types, 2)
	assert.Equal(t, "Preprint", types[1].Title)
	assert.True(t, types[1].Matches("preprint"))
}
