package bibtex

import (
	"fmt"
	"strings"
	"unicode"
)

// Field is one raw name/value pair of an entry, in source order.
type Field struct {
	Name  string
	Value string
}

// Entry is one bibliographic record as it appears in the source text:
// the literal type tag, the citation key, and the raw fields. Values have
// their surrounding braces or quotes stripped but keep any nested structure.
type Entry struct {
	Type   string
	Key    string
	Fields []Field
}

// Get returns the value of the first field with the given name.
func (e Entry) Get(name string) (string, bool) {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// ParseError describes a structurally broken entry. Parsing continues with
// the rest of the text; the broken entry is simply skipped.
type ParseError struct {
	Key  string // citation key if one was read before the failure
	Line int    // 1-based line of the entry's "@"
	Err  error
}

func (e *ParseError) Error() string {
	key := e.Key
	if key == "" {
		key = "<unnamed>"
	}
	return fmt.Sprintf("entry %q (line %d): %v", key, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser tokenizes BibTeX source text into entries.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse scans the whole text and returns the entries in source order plus
// one error per structurally broken entry. Entry types are accepted in any
// case and unknown types are passed through with their literal tag; text
// between entries is ignored. A missing trailing terminator is tolerated.
func (p *Parser) Parse(text string) ([]Entry, []*ParseError) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	var entries []Entry
	var errs []*ParseError

	i := 0
	for {
		at := strings.IndexByte(text[i:], '@')
		if at < 0 {
			break
		}
		start := i + at
		entry, next, err := p.parseEntry(text, start)
		if err != nil {
			err.Line = lineOf(text, start)
			errs = append(errs, err)
			// resync at the next "@" after the failed one
			i = start + 1
			continue
		}
		entries = append(entries, entry)
		i = next
	}

	return entries, errs
}

// parseEntry reads one entry starting at the "@" at position start and
// returns the position just past its closing brace.
func (p *Parser) parseEntry(text string, start int) (Entry, int, *ParseError) {
	i := start + 1

	typeTag, i := readWord(text, i)
	if typeTag == "" {
		return Entry{}, 0, &ParseError{Err: fmt.Errorf("missing entry type")}
	}

	i = skipSpace(text, i)
	if i >= len(text) || text[i] != '{' {
		return Entry{}, 0, &ParseError{Err: fmt.Errorf("expected '{' after @%s", typeTag)}
	}
	i++

	// citation key up to the first comma
	keyEnd := i
	for keyEnd < len(text) && text[keyEnd] != ',' && text[keyEnd] != '}' && text[keyEnd] != '\n' {
		keyEnd++
	}
	if keyEnd >= len(text) || text[keyEnd] == '\n' {
		return Entry{}, 0, &ParseError{Err: fmt.Errorf("unterminated @%s entry", typeTag)}
	}
	key := strings.TrimSpace(text[i:keyEnd])
	if key == "" {
		return Entry{}, 0, &ParseError{Err: fmt.Errorf("@%s entry is missing a citation key", typeTag)}
	}

	entry := Entry{Type: typeTag, Key: key}
	i = keyEnd
	if text[i] == '}' {
		return entry, i + 1, nil
	}
	i++ // consume the comma

	for {
		i = skipSpace(text, i)
		if i >= len(text) {
			return Entry{}, 0, &ParseError{Key: key, Err: fmt.Errorf("unterminated @%s entry", typeTag)}
		}
		if text[i] == ',' {
			i++
			continue
		}
		if text[i] == '}' {
			return entry, i + 1, nil
		}

		name, next := readFieldName(text, i)
		i = skipSpace(text, next)
		if name == "" || i >= len(text) || text[i] != '=' {
			return Entry{}, 0, &ParseError{Key: key, Err: fmt.Errorf("malformed field in @%s entry", typeTag)}
		}
		i = skipSpace(text, i+1)

		value, next, err := readValue(text, i)
		if err != nil {
			return Entry{}, 0, &ParseError{Key: key, Err: err}
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: value})
		i = next
	}
}

// readValue reads a field value starting at i: a braced group (nested braces
// tracked by depth), a quoted string, or a bare token such as a number or
// month macro. The outer delimiters are stripped, inner structure is kept.
func readValue(text string, i int) (string, int, error) {
	if i >= len(text) {
		return "", 0, fmt.Errorf("missing field value")
	}

	switch text[i] {
	case '{':
		depth := 1
		j := i + 1
		for j < len(text) && depth > 0 {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			return "", 0, fmt.Errorf("unbalanced braces in field value")
		}
		return text[i+1 : j-1], j, nil

	case '"':
		depth := 0
		j := i + 1
		for j < len(text) {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					return text[i+1 : j], j + 1, nil
				}
			}
			j++
		}
		return "", 0, fmt.Errorf("unterminated quoted field value")

	default:
		j := i
		for j < len(text) && text[j] != ',' && text[j] != '}' && text[j] != '\n' {
			j++
		}
		if j >= len(text) {
			return "", 0, fmt.Errorf("unterminated field value")
		}
		return strings.TrimSpace(text[i:j]), j, nil
	}
}

func readWord(text string, i int) (string, int) {
	j := i
	for j < len(text) && (isLetter(text[j]) || isDigit(text[j])) {
		j++
	}
	return text[i:j], j
}

func readFieldName(text string, i int) (string, int) {
	j := i
	for j < len(text) && (isLetter(text[j]) || isDigit(text[j]) || text[j] == '_' || text[j] == '-') {
		j++
	}
	return text[i:j], j
}

func skipSpace(text string, i int) int {
	for i < len(text) && unicode.IsSpace(rune(text[i])) {
		i++
	}
	return i
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func lineOf(text string, pos int) int {
	return strings.Count(text[:pos], "\n") + 1
}
