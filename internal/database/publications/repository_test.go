package publications

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bruecksen/publications/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_publications_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Type{}, &entities.Publication{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Type{Title: "Article", BibtexTypes: "article"}).Error)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func samplePublication() *entities.Publication {
	return &entities.Publication{
		TypeID:            1,
		Title:             "Disquisitiones Arithmeticae",
		Authors:           "C. F. Gauss",
		Year:              1801,
		FirstAuthorFamily: "gauss",
		SimpleAuthors:     "c. f. gauss",
		Status:            entities.StatusPublished,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	pub := samplePublication()
	err := repo.Create(pub)

	require.NoError(t, err)
	assert.NotZero(t, pub.ID)
}

func TestRepository_FindEquivalent_Exact(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	pub := samplePublication()
	require.NoError(t, repo.Create(pub))

	found, err := repo.FindEquivalent(samplePublication(), false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, pub.ID, found.ID)
}

func TestRepository_FindEquivalent_ByteExactByDefault(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(samplePublication()))

	candidate := samplePublication()
	candidate.Title = "disquisitiones arithmeticae"

	found, err := repo.FindEquivalent(candidate, false)
	require.NoError(t, err)
	assert.Nil(t, found, "case differences must not match without folding")

	found, err = repo.FindEquivalent(candidate, true)
	require.NoError(t, err)
	assert.NotNil(t, found, "folded matching must ignore case")
}

func TestRepository_FindEquivalent_NullFields(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	stored := samplePublication()
	stored.Volume = intPtr(4)
	require.NoError(t, repo.Create(stored))

	// absent volume must not match a stored volume
	found, err := repo.FindEquivalent(samplePublication(), false)
	require.NoError(t, err)
	assert.Nil(t, found)

	candidate := samplePublication()
	candidate.Volume = intPtr(4)
	found, err = repo.FindEquivalent(candidate, false)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestRepository_CitekeyExists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	pub := samplePublication()
	pub.Citekey = strPtr("gauss1801a")
	require.NoError(t, repo.Create(pub))

	exists, err := repo.CitekeyExists("gauss1801a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CitekeyExists("gauss1801b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListByFamilyYear_Ordering(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	march := samplePublication()
	march.Title = "March paper"
	march.Month = intPtr(3)
	require.NoError(t, repo.Create(march))

	unknown := samplePublication()
	unknown.Title = "Undated paper"
	require.NoError(t, repo.Create(unknown))

	january := samplePublication()
	january.Title = "January paper"
	january.Month = intPtr(1)
	require.NoError(t, repo.Create(january))

	pubs, err := repo.ListByFamilyYear("gauss", 1801)
	require.NoError(t, err)
	require.Len(t, pubs, 3)
	assert.Equal(t, "Undated paper", pubs[0].Title)
	assert.Equal(t, "January paper", pubs[1].Title)
	assert.Equal(t, "March paper", pubs[2].Title)
}

func TestRepository_ListMissingCitekeysAndUpdate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	keyed := samplePublication()
	keyed.Citekey = strPtr("gauss1801a")
	require.NoError(t, repo.Create(keyed))

	unkeyed := samplePublication()
	unkeyed.Title = "Second paper"
	require.NoError(t, repo.Create(unkeyed))

	missing, err := repo.ListMissingCitekeys(0)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "Second paper", missing[0].Title)

	require.NoError(t, repo.UpdateCitekey(missing[0].ID, "gauss1801b"))

	missing, err = repo.ListMissingCitekeys(0)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRepository_Search(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(samplePublication()))

	pubs, err := repo.Search("disquisitiones")
	require.NoError(t, err)
	assert.Len(t, pubs, 1)

	pubs, err = repo.Search("nonexistent")
	require.NoError(t, err)
	assert.Empty(t, pubs)
}
