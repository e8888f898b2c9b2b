package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/entities"
)

func setupTestService(t *testing.T, folded bool) (*ImportService, *database.Database, func()) {
	t.Helper()
	dbPath := "./test_import_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath, "")
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return NewImportService(db, folded), db, cleanup
}

func countPublications(t *testing.T, db *database.Database) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(&entities.Publication{}).Count(&count).Error)
	return count
}

const gaussEntry = `@article{k1,
	title = {Disquisitiones Arithmeticae},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	month = {January},
	journal = {Apud Gerh. Fleischer}
}`

func TestImportBibtex_SingleEntry(t *testing.T) {
	service, db, cleanup := setupTestService(t, false)
	defer cleanup()

	result, err := service.ImportBibtex(gaussEntry)

	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Saved, 1)

	pub := result.Saved[0]
	assert.Equal(t, "Disquisitiones Arithmeticae", pub.Title)
	assert.Equal(t, "C. F. Gauss", pub.Authors)
	assert.Equal(t, 1801, pub.Year)
	require.NotNil(t, pub.Month)
	assert.Equal(t, 1, *pub.Month)
	require.NotNil(t, pub.Citekey)
	assert.Equal(t, "gauss1801a", *pub.Citekey)
	assert.Equal(t, entities.StatusPublished, pub.Status)

	assert.Equal(t, int64(1), countPublications(t, db))
}

func TestImportBibtex_Idempotent(t *testing.T) {
	service, db, cleanup := setupTestService(t, false)
	defer cleanup()

	first, err := service.ImportBibtex(gaussEntry)
	require.NoError(t, err)
	require.Len(t, first.Saved, 1)

	second, err := service.ImportBibtex(gaussEntry)
	require.NoError(t, err)
	assert.Empty(t, second.Errors)
	require.Len(t, second.Saved, 1)
	assert.Equal(t, first.Saved[0].ID, second.Saved[0].ID)

	assert.Equal(t, int64(1), countPublications(t, db))
}

func TestImportBibtex_MissingMandatoryKeys(t *testing.T) {
	service, db, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {No Year Given},
	author = {Gauss, Carl Friedrich}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	assert.Empty(t, result.Saved)
	require.Len(t, result.Errors, 1)
	assert.Equal(t,
		`BibTeX entry "k1" is missing following mandatory keys: year`,
		result.Errors[0])
	assert.Equal(t, int64(0), countPublications(t, db))
}

func TestImportBibtex_NonNumericYear(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {Roman Year},
	author = {Gauss, Carl Friedrich},
	year = {MMXI}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t,
		`BibTeX entry "k1" is missing following mandatory keys: year`,
		result.Errors[0])
}

func TestImportBibtex_UnknownType(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@webpage{k1,
	title = {Some Page},
	author = {Gauss, Carl Friedrich},
	year = {2001}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	assert.Empty(t, result.Saved)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `BibTeX entry "k1": type "webpage" unknown`, result.Errors[0])
}

func TestImportBibtex_TypeTagAnyCase(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@ARTICLE{k1,
	title = {Disquisitiones Arithmeticae},
	author = {Gauss, Carl Friedrich},
	year = {1801}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Saved, 1)
	assert.NotZero(t, result.Saved[0].TypeID)
}

func TestImportBibtex_ErrorsDoNotBlockOtherEntries(t *testing.T) {
	service, db, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := gaussEntry + `
@article{k2,
	title = {Missing Author},
	year = {1802}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	assert.Len(t, result.Saved, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t,
		`BibTeX entry "k2" is missing following mandatory keys: author`,
		result.Errors[0])
	assert.Equal(t, int64(1), countPublications(t, db))
}

func TestImportBibtex_ExplicitCitekey(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {Disquisitiones Arithmeticae},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	key = {gauss-dq}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)
	require.NotNil(t, result.Saved[0].Citekey)
	assert.Equal(t, "gauss-dq", *result.Saved[0].Citekey)
}

func TestImportBibtex_MonthOrdersKeyLetters(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {January Paper},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	month = {jan},
	journal = {Journal A}
}
@article{k2,
	title = {March Paper},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	month = {mar},
	journal = {Journal B}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Saved, 2)
	assert.Equal(t, "gauss1801a", *result.Saved[0].Citekey)
	assert.Equal(t, "gauss1801b", *result.Saved[1].Citekey)
}

func TestImportBibtex_VolumeHoldingDOI(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {Misfiled Volume},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	volume = {DOI 10.1007/b1234}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)

	pub := result.Saved[0]
	assert.Nil(t, pub.Volume)
	require.NotNil(t, pub.DOI)
	assert.Equal(t, "DOI 10.1007/b1234", *pub.DOI)
}

func TestImportBibtex_FieldNormalization(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {Normalized Fields},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	volume = {vol. 4},
	number = {-},
	address = {Leipzig},
	country = {Germany},
	keywords = {Number Theory; PRIMES},
	tags = {primes, classic},
	url = {https://example.org/
		gauss.pdf},
	colour = {irrelevant}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)

	pub := result.Saved[0]
	require.NotNil(t, pub.Volume)
	assert.Equal(t, 4, *pub.Volume)
	assert.Nil(t, pub.Number)
	assert.Equal(t, "Leipzig", pub.Location)
	assert.Equal(t, "DE", pub.Country)
	assert.Equal(t, "number theory, primes, classic", pub.Keywords)
	assert.Equal(t, "https://example.org/gauss.pdf", pub.URL)
}

func TestImportBibtex_SpecialCharsAndEquivalentAuthors(t *testing.T) {
	service, _, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{k1,
	title = {On Formally Undecidable Propositions},
	author = {G{\"o}del, Kurt},
	year = {1931}
}`

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)

	pub := result.Saved[0]
	assert.Equal(t, "K. Gödel", pub.Authors)
	assert.Equal(t, "goedel", pub.FirstAuthorFamily)
	assert.Equal(t, "goedel1931a", *pub.Citekey)
}

func TestImportBibtex_FoldedMatching(t *testing.T) {
	service, db, cleanup := setupTestService(t, true)
	defer cleanup()

	first, err := service.ImportBibtex(gaussEntry)
	require.NoError(t, err)
	require.Len(t, first.Saved, 1)

	recased := `@article{k1,
	title = {DISQUISITIONES ARITHMETICAE},
	author = {Gauss, Carl Friedrich},
	year = {1801},
	month = {January},
	journal = {Apud Gerh. Fleischer}
}`

	second, err := service.ImportBibtex(recased)
	require.NoError(t, err)
	require.Len(t, second.Saved, 1)
	assert.Equal(t, first.Saved[0].ID, second.Saved[0].ID)
	assert.Equal(t, int64(1), countPublications(t, db))
}

func TestImportBibtex_ParseErrorsReported(t *testing.T) {
	service, db, cleanup := setupTestService(t, false)
	defer cleanup()

	bibliography := `@article{broken, title={unbalanced
` + gaussEntry

	result, err := service.ImportBibtex(bibliography)

	require.NoError(t, err)
	assert.Len(t, result.Saved, 1)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, int64(1), countPublications(t, db))
}
