package bibtex

import (
	"regexp"
	"strings"
)

// Record is an entry after customization: the author and keyword fields are
// split into lists and every remaining field is keyed by its lower-cased
// name. Fields are popped as the import pipeline interprets them; whatever
// is left over at the end is dropped.
type Record struct {
	Type     string
	Key      string
	Authors  []string
	Keywords []string
	Fields   map[string]string
}

// Pop removes and returns the named field.
func (r *Record) Pop(name string) (string, bool) {
	value, ok := r.Fields[name]
	if ok {
		delete(r.Fields, name)
	}
	return value, ok
}

var (
	// author-list delimiter: the word "and" between names, never inside one
	authorSeparator = regexp.MustCompile(`\s+and\s+`)

	keywordSeparator = regexp.MustCompile(`[,;]`)

	// \text{\X} is a content-wrapping macro holding a single unwrapped
	// escape; amsmath wants the escape braced: \text{{\X}}
	textGroup = regexp.MustCompile(`(\\text\{)(\\[^{}]*?)(\})`)
)

// Customize post-processes one parsed entry into a Record.
func Customize(entry Entry) Record {
	rec := Record{
		Type:   entry.Type,
		Key:    entry.Key,
		Fields: make(map[string]string, len(entry.Fields)),
	}

	for _, f := range entry.Fields {
		name := strings.ToLower(strings.TrimSpace(f.Name))
		value := fixTextGrouping(f.Value)

		switch name {
		case "author":
			rec.Authors = append(rec.Authors, splitAuthors(value)...)
		case "keywords", "tags":
			rec.Keywords = append(rec.Keywords, splitKeywords(value)...)
		default:
			rec.Fields[name] = value
		}
	}

	return rec
}

func fixTextGrouping(value string) string {
	return textGroup.ReplaceAllString(value, "${1}{${2}}${3}")
}

// splitAuthors splits an author field on the "and" delimiter and rewrites
// each "Family, Given" name into "Given Family" order.
func splitAuthors(value string) []string {
	var authors []string
	for _, name := range authorSeparator.Split(value, -1) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		authors = append(authors, unseparateName(name))
	}
	return authors
}

func unseparateName(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}
	parts := strings.Split(name, ",")
	var kept []string
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func splitKeywords(value string) []string {
	var keywords []string
	for _, kw := range keywordSeparator.Split(value, -1) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	return keywords
}
