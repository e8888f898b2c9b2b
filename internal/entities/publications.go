package entities

import (
	"strings"
	"time"
)

type PublicationStatus string

const (
	StatusDraft     PublicationStatus = "draft"
	StatusSubmitted PublicationStatus = "submitted"
	StatusAccepted  PublicationStatus = "accepted"
	StatusPublished PublicationStatus = "published"
)

// Publication is one bibliographic record. Citekey, DOI and ISBN are
// pointers so that absent values stay NULL and do not trip their unique
// indexes.
type Publication struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	TypeID  uint    `gorm:"index" json:"type_id"`
	Type    Type    `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Citekey *string `gorm:"uniqueIndex;size:512" json:"citekey,omitempty"`

	Title   string `gorm:"type:text" json:"title"`
	Authors string `gorm:"type:text" json:"authors"` // abbreviated display names, comma-joined
	Year    int    `gorm:"index" json:"year"`
	Month   *int   `json:"month,omitempty"` // 1-12

	Journal      string `gorm:"type:text" json:"journal,omitempty"`
	BookTitle    string `gorm:"type:text" json:"book_title,omitempty"`
	Publisher    string `gorm:"type:text" json:"publisher,omitempty"`
	Editor       string `gorm:"size:256" json:"editor,omitempty"`
	Edition      string `gorm:"size:256" json:"edition,omitempty"`
	Institution  string `gorm:"type:text" json:"institution,omitempty"`
	School       string `gorm:"size:256" json:"school,omitempty"`
	Organization string `gorm:"size:256" json:"organization,omitempty"`
	Location     string `gorm:"size:256" json:"location,omitempty"`
	Country      string `gorm:"size:2" json:"country,omitempty"` // ISO 3166-1 alpha-2
	Series       string `gorm:"size:256" json:"series,omitempty"`

	Volume  *int   `json:"volume,omitempty"`
	Number  *int   `json:"number,omitempty"`
	Chapter string `gorm:"size:128" json:"chapter,omitempty"`
	Section string `gorm:"size:128" json:"section,omitempty"`
	Pages   string `gorm:"size:32" json:"pages,omitempty"`

	Note     string `gorm:"type:text" json:"note,omitempty"`
	Keywords string `gorm:"type:text" json:"keywords,omitempty"` // lower-cased, comma-joined
	Abstract string `gorm:"type:text" json:"abstract,omitempty"`
	URL      string `gorm:"size:2048" json:"url,omitempty"`
	Code     string `gorm:"size:2048" json:"code,omitempty"`

	DOI  *string `gorm:"uniqueIndex;size:256" json:"doi,omitempty"`
	ISBN *string `gorm:"uniqueIndex;size:32" json:"isbn,omitempty"`

	External bool              `gorm:"default:false" json:"external"`
	Status   PublicationStatus `gorm:"size:16;default:'published'" json:"status"`

	// Derived from Authors for matching and citekey queries, never shown.
	SimpleAuthors     string `gorm:"type:text" json:"-"` // simplified names, "; "-joined
	FirstAuthorFamily string `gorm:"index;size:128" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Publication) TableName() string {
	return "publications"
}

// JournalOrBookTitle prefers the journal for citation formatting when both
// venue fields are present.
func (p *Publication) JournalOrBookTitle() string {
	if p.Journal != "" {
		return p.Journal
	}
	return p.BookTitle
}

// Type is one entry of the publication type table. BibtexTypes holds the
// accepted BibTeX type aliases as a comma-separated list.
type Type struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Order       int    `gorm:"index" json:"order"`
	Title       string `gorm:"uniqueIndex;size:128" json:"title"`
	Description string `gorm:"size:128" json:"description,omitempty"`
	BibtexTypes string `gorm:"size:256;default:'article'" json:"bibtex_types"`
	Hidden      bool   `gorm:"index;default:false" json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
}

func (Type) TableName() string {
	return "types"
}

// BibtexTypeList parses the alias list: "@" markers stripped, semicolons
// and the word "and" treated as separators, aliases lower-cased.
func (t *Type) BibtexTypeList() []string {
	raw := strings.ReplaceAll(t.BibtexTypes, "@", "")
	raw = strings.ReplaceAll(raw, ";", ",")
	raw = strings.ReplaceAll(raw, " and ", ",")
	var aliases []string
	for _, alias := range strings.Split(raw, ",") {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias != "" {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// Matches reports whether tag is one of the accepted BibTeX aliases.
func (t *Type) Matches(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, alias := range t.BibtexTypeList() {
		if alias == tag {
			return true
		}
	}
	return false
}

// bibtex2ris maps the primary BibTeX alias to a RIS reference tag.
var bibtex2ris = map[string]string{
	"article":       "JOUR",
	"book":          "BOOK",
	"booklet":       "PAMP",
	"inbook":        "CHAP",
	"conference":    "CHAP",
	"inproceedings": "CHAP",
	"incollection":  "CHAP",
	"manual":        "BOOK",
	"masterthesis":  "THES",
	"phdthesis":     "THES",
	"misc":          "GEN",
	"proceedings":   "CONF",
	"techreport":    "RPRT",
	"unpublished":   "UNPB",
	"patent":        "PAT",
	"abstract":      "ABST",
}

// RISType converts the type's primary BibTeX alias to a RIS tag.
func (t *Type) RISType() string {
	aliases := t.BibtexTypeList()
	if len(aliases) > 0 {
		if ris, ok := bibtex2ris[aliases[0]]; ok {
			return ris
		}
	}
	return "GEN"
}

var type2genre = map[string]string{
	"conference":   "conference publication",
	"book chapter": "bibliography",
	"unpublished":  "article",
}

// MODSGenre guesses an appropriate MODS XML genre for the type.
func (t *Type) MODSGenre() string {
	title := strings.ToLower(t.Title)
	if genre, ok := type2genre[title]; ok {
		return genre
	}
	return title
}
