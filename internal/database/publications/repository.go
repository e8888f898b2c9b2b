// Package publications provides database operations for publication records.
package publications

import (
	"gorm.io/gorm"

	"github.com/bruecksen/publications/internal/entities"
)

// Repository handles all publication database operations. It wraps whatever
// handle it is given, so an import transaction constructs one around its tx.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new publications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new publication.
func (r *Repository) Create(pub *entities.Publication) error {
	return r.db.Create(pub).Error
}

// GetByID retrieves a publication with its type.
func (r *Repository) GetByID(id uint) (*entities.Publication, error) {
	var pub entities.Publication
	err := r.db.Preload("Type").First(&pub, id).Error
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// GetAll retrieves all publications, newest year first.
func (r *Repository) GetAll() ([]entities.Publication, error) {
	var pubs []entities.Publication
	err := r.db.Preload("Type").Order("year DESC, month DESC, id DESC").Find(&pubs).Error
	return pubs, err
}

// Search retrieves publications whose title, authors or keywords match the
// query (case-insensitive partial match).
func (r *Repository) Search(query string) ([]entities.Publication, error) {
	var pubs []entities.Publication
	pattern := "%" + query + "%"
	err := r.db.Preload("Type").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(authors) LIKE LOWER(?) OR LOWER(keywords) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("year DESC, month DESC, id DESC").
		Find(&pubs).Error
	return pubs, err
}

// FindEquivalent looks for a stored publication carrying the same
// bibliographic content as the candidate. With folded matching the free-text
// venue fields are compared lower-cased and trimmed; otherwise every field
// must match byte for byte. Absent optional values only match NULL.
func (r *Repository) FindEquivalent(pub *entities.Publication, folded bool) (*entities.Publication, error) {
	q := r.db.Model(&entities.Publication{}).
		Where("type_id = ?", pub.TypeID).
		Where("year = ?", pub.Year)

	if folded {
		q = q.Where("LOWER(TRIM(title)) = LOWER(TRIM(?))", pub.Title).
			Where("LOWER(TRIM(authors)) = LOWER(TRIM(?))", pub.Authors).
			Where("LOWER(TRIM(journal)) = LOWER(TRIM(?))", pub.Journal).
			Where("LOWER(TRIM(book_title)) = LOWER(TRIM(?))", pub.BookTitle)
	} else {
		q = q.Where("title = ?", pub.Title).
			Where("authors = ?", pub.Authors).
			Where("journal = ?", pub.Journal).
			Where("book_title = ?", pub.BookTitle)
	}

	q = whereNullable(q, "month", pub.Month)
	q = whereNullable(q, "volume", pub.Volume)
	q = whereNullable(q, "number", pub.Number)
	q = whereNullableStr(q, "doi", pub.DOI)
	q = whereNullableStr(q, "isbn", pub.ISBN)

	q = q.Where("publisher = ?", pub.Publisher).
		Where("editor = ?", pub.Editor).
		Where("edition = ?", pub.Edition).
		Where("institution = ?", pub.Institution).
		Where("school = ?", pub.School).
		Where("organization = ?", pub.Organization).
		Where("location = ?", pub.Location).
		Where("country = ?", pub.Country).
		Where("series = ?", pub.Series).
		Where("chapter = ?", pub.Chapter).
		Where("section = ?", pub.Section).
		Where("pages = ?", pub.Pages).
		Where("note = ?", pub.Note).
		Where("keywords = ?", pub.Keywords).
		Where("url = ?", pub.URL)

	var existing entities.Publication
	err := q.First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func whereNullable(q *gorm.DB, column string, value *int) *gorm.DB {
	if value == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *value)
}

func whereNullableStr(q *gorm.DB, column string, value *string) *gorm.DB {
	if value == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *value)
}

// CitekeyExists reports whether any publication already carries the key.
func (r *Repository) CitekeyExists(citekey string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Publication{}).
		Where("citekey = ?", citekey).
		Count(&count).Error
	return count > 0, err
}

// ListByFamilyYear retrieves all publications sharing a first-author family
// key and a year, ordered chronologically. Records without a month sort
// first.
func (r *Repository) ListByFamilyYear(familyKey string, year int) ([]entities.Publication, error) {
	var pubs []entities.Publication
	err := r.db.
		Where("first_author_family = ? AND year = ?", familyKey, year).
		Order("COALESCE(month, 0) ASC, id ASC").
		Find(&pubs).Error
	return pubs, err
}

// ListMissingCitekeys retrieves publications that never got a citation key.
func (r *Repository) ListMissingCitekeys(limit int) ([]entities.Publication, error) {
	var pubs []entities.Publication
	q := r.db.Where("citekey IS NULL OR citekey = ''").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&pubs).Error
	return pubs, err
}

// UpdateCitekey sets the citation key of a stored publication.
func (r *Repository) UpdateCitekey(id uint, citekey string) error {
	return r.db.Model(&entities.Publication{}).
		Where("id = ?", id).
		Update("citekey", citekey).Error
}

// Count reports how many publications are stored.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Publication{}).Count(&count).Error
	return count, err
}
