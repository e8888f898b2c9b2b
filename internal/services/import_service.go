package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/bruecksen/publications/internal/authors"
	"github.com/bruecksen/publications/internal/bibtex"
	"github.com/bruecksen/publications/internal/countries"
	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/publications"
	"github.com/bruecksen/publications/internal/database/types"
	"github.com/bruecksen/publications/internal/entities"
)

// months maps BibTeX month values, full names and three-letter forms alike,
// to month numbers.
var months = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var whitespace = regexp.MustCompile(`\s`)
var nonDigits = regexp.MustCompile(`[^0-9]`)

// ImportService handles the business logic for importing BibTeX
// bibliographies: parsing, normalization, deduplication, citation key
// assignment and persistence.
type ImportService struct {
	db     *database.Database
	folded bool
}

// NewImportService creates a new ImportService. With folded set, stored
// records match incoming entries case-insensitively on the free-text venue
// fields instead of byte for byte.
func NewImportService(db *database.Database, folded bool) *ImportService {
	return &ImportService{
		db:     db,
		folded: folded,
	}
}

// ImportBibtex imports a BibTeX bibliography. Every entry is handled
// independently: entries that fail to parse or validate contribute an error
// message, entries equivalent to a stored publication contribute the stored
// record, and the rest are inserted with a citation key. The whole batch
// runs in one transaction; the returned error is reserved for storage
// failures that roll the batch back.
func (s *ImportService) ImportBibtex(bibliography string) (ImportResult, error) {
	text := bibtex.NormalizeSpecialChars(bibliography)
	entries, parseErrors := bibtex.NewParser().Parse(text)

	result := ImportResult{}
	for _, pe := range parseErrors {
		result.Errors = append(result.Errors, pe.Error())
	}

	err := s.db.DB.Transaction(func(tx *gorm.DB) error {
		pubRepo := publications.NewRepository(tx)
		typeRepo := types.NewRepository(tx)
		keygen := NewCitekeyGenerator(pubRepo)

		for _, entry := range entries {
			record := bibtex.Customize(entry)

			pub, errMsg, err := s.buildPublication(record, typeRepo)
			if err != nil {
				return err
			}
			if errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
				continue
			}

			existing, err := pubRepo.FindEquivalent(pub, s.folded)
			if err != nil {
				return err
			}
			if existing != nil {
				result.Saved = append(result.Saved, *existing)
				continue
			}

			if pub.Citekey == nil {
				citekey, err := keygen.Generate(pub)
				if err != nil {
					return err
				}
				pub.Citekey = &citekey
			}

			if err := pubRepo.Create(pub); err != nil {
				key := "<unnamed>"
				if pub.Citekey != nil && *pub.Citekey != "" {
					key = *pub.Citekey
				}
				result.Errors = append(result.Errors,
					fmt.Sprintf("An error occurred saving publication \"%s\": %s", key, err))
				continue
			}
			result.Saved = append(result.Saved, *pub)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to import bibliography: %w", err)
	}

	return result, nil
}

// buildPublication maps one customized record onto a publication entity. A
// non-empty second return value is the error message for this entry; a
// non-nil error is a storage failure that aborts the batch.
func (s *ImportService) buildPublication(record bibtex.Record, typeStore TypeStore) (*entities.Publication, string, error) {
	entryName := record.Key
	if entryName == "" {
		entryName = "<unnamed>"
	}

	yearValue, hasYear := record.Pop("year")
	year, yearErr := strconv.Atoi(strings.TrimSpace(yearValue))

	title, hasTitle := record.Pop("title")
	names := authors.ParseList(record.Authors)

	var missing []string
	if !hasTitle || strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if len(names) == 0 {
		missing = append(missing, "author")
	}
	if !hasYear || yearErr != nil {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return nil, fmt.Sprintf("BibTeX entry \"%s\" is missing following mandatory keys: %s",
			entryName, strings.Join(missing, ", ")), nil
	}

	pubType, err := typeStore.ResolveAlias(record.Type)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Sprintf("BibTeX entry \"%s\": type \"%s\" unknown", entryName, record.Type), nil
	}
	if err != nil {
		return nil, "", err
	}

	pub := &entities.Publication{
		TypeID:   pubType.ID,
		Title:    title,
		Authors:  authors.Join(names),
		Year:     year,
		External: false,
		Status:   entities.StatusPublished,
	}

	simplified := make([]string, len(names))
	for i, n := range names {
		simplified[i] = n.Simplified
	}
	pub.SimpleAuthors = strings.Join(simplified, "; ")
	pub.FirstAuthorFamily = names[0].FamilyKey()

	if citekey, ok := record.Pop("key"); ok && strings.TrimSpace(citekey) != "" {
		citekey = strings.TrimSpace(citekey)
		pub.Citekey = &citekey
	}

	if monthValue, ok := record.Pop("month"); ok {
		if m, ok := months[strings.ToLower(strings.TrimSpace(monthValue))]; ok {
			pub.Month = &m
		}
	}

	// a volume that fails to parse may be a misplaced DOI reference
	if volume, ok := record.Pop("volume"); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(volume)); err == nil {
			pub.Volume = &v
		} else if strings.Contains(strings.ToLower(volume), "doi") {
			record.Fields["doi"] = volume
		} else if digits := nonDigits.ReplaceAllString(volume, ""); digits != "" {
			if v, err := strconv.Atoi(digits); err == nil {
				pub.Volume = &v
			}
		}
	}

	// a number field may hold placeholders like {-}
	if number, ok := record.Pop("number"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(number)); err == nil {
			pub.Number = &n
		} else if digits := nonDigits.ReplaceAllString(number, ""); digits != "" {
			if n, err := strconv.Atoi(digits); err == nil {
				pub.Number = &n
			}
		}
	}

	pub.Journal, _ = record.Pop("journal")
	pub.BookTitle, _ = record.Pop("booktitle")
	pub.Publisher, _ = record.Pop("publisher")
	pub.Editor, _ = record.Pop("editor")
	pub.Edition, _ = record.Pop("edition")
	pub.Institution, _ = record.Pop("institution")
	pub.School, _ = record.Pop("school")
	pub.Organization, _ = record.Pop("organization")
	pub.Location, _ = record.Pop("address")
	pub.Series, _ = record.Pop("series")
	pub.Chapter, _ = record.Pop("chapter")
	pub.Section, _ = record.Pop("section")
	pub.Pages, _ = record.Pop("pages")
	pub.Note, _ = record.Pop("note")
	pub.Abstract, _ = record.Pop("abstract")
	pub.Code, _ = record.Pop("code")

	if country, ok := record.Pop("country"); ok {
		if code, ok := countries.Resolve(country); ok {
			pub.Country = code
		}
	}

	// strip whitespace left over from line breaks inside the URL
	if url, ok := record.Pop("url"); ok {
		pub.URL = whitespace.ReplaceAllString(url, "")
	}

	if doi, ok := record.Pop("doi"); ok && strings.TrimSpace(doi) != "" {
		doi = strings.TrimSpace(doi)
		pub.DOI = &doi
	}
	if isbn, ok := record.Pop("isbn"); ok && strings.TrimSpace(isbn) != "" {
		isbn = strings.TrimSpace(isbn)
		pub.ISBN = &isbn
	}

	pub.Keywords = joinKeywords(record.Keywords)

	// whatever is left in the record has no matching field and is dropped

	return pub, "", nil
}

// joinKeywords lower-cases, deduplicates and joins the keyword list,
// preserving first-seen order.
func joinKeywords(keywords []string) string {
	seen := make(map[string]bool, len(keywords))
	var kept []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		kept = append(kept, kw)
	}
	return strings.Join(kept, ", ")
}
