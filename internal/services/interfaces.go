package services

import "github.com/bruecksen/publications/internal/entities"

// PublicationStore is the storage surface the import pipeline and the
// citation key generator work against. The GORM repository in
// internal/database/publications implements it, constructed over the
// import transaction.
type PublicationStore interface {
	Create(pub *entities.Publication) error
	FindEquivalent(pub *entities.Publication, folded bool) (*entities.Publication, error)
	CitekeyExists(citekey string) (bool, error)
	ListByFamilyYear(familyKey string, year int) ([]entities.Publication, error)
}

// TypeStore resolves BibTeX type tags against the type table. The GORM
// repository in internal/database/types implements it.
type TypeStore interface {
	ResolveAlias(tag string) (*entities.Type, error)
}

// ImportResult contains the outcome of a BibTeX import operation.
type ImportResult struct {
	// Saved holds every publication accounted for, stored records that
	// matched an incoming entry included.
	Saved []entities.Publication

	// Errors holds one message per entry that could not be imported.
	Errors []string
}
