package services

import (
	"fmt"

	"github.com/bruecksen/publications/internal/entities"
)

// CitekeyGenerator derives citation keys of the form "gauss1801a": the
// simplified family name of the first author, the year, and a letter that
// orders the author's publications of that year chronologically.
type CitekeyGenerator struct {
	store PublicationStore
}

// NewCitekeyGenerator creates a generator over a publication store,
// typically the repository of the running import transaction.
func NewCitekeyGenerator(store PublicationStore) *CitekeyGenerator {
	return &CitekeyGenerator{store: store}
}

// Generate produces a free citation key for a publication. The letter
// starts after every stored same-family, same-year record published in
// or before the new record's month, then advances until the key is unused.
func (g *CitekeyGenerator) Generate(pub *entities.Publication) (string, error) {
	family := pub.FirstAuthorFamily
	if family == "" {
		family = "anonymous"
	}

	peers, err := g.store.ListByFamilyYear(family, pub.Year)
	if err != nil {
		return "", err
	}

	newMonth := 0
	if pub.Month != nil {
		newMonth = *pub.Month
	}

	preceding := 0
	for _, peer := range peers {
		month := 0
		if peer.Month != nil {
			month = *peer.Month
		}
		if month <= newMonth {
			preceding++
		}
	}

	for i := preceding; ; i++ {
		citekey := fmt.Sprintf("%s%d%s", family, pub.Year, letterSuffix(i))
		exists, err := g.store.CitekeyExists(citekey)
		if err != nil {
			return "", err
		}
		if !exists {
			return citekey, nil
		}
	}
}

// letterSuffix counts a, b, ..., z, aa, ab, ... like spreadsheet columns.
func letterSuffix(i int) string {
	suffix := ""
	for {
		suffix = string(rune('a'+i%26)) + suffix
		i = i/26 - 1
		if i < 0 {
			return suffix
		}
	}
}
