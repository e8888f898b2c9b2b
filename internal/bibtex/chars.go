package bibtex

import "strings"

// Legacy LaTeX accent escapes and the Unicode characters they stand for.
// Several spellings of the same accent appear in bibliographies exported by
// old reference managers, so every variant is listed explicitly. The entries
// are disjoint literal substrings; replacement order does not matter.
var specialChars = [][2]string{
	{`\"{a}`, "ä"},
	{`{\"a}`, "ä"},
	{`\"a`, "ä"},
	{`H{a}`, "ä"},
	{`\"{A}`, "Ä"},
	{`{\"A}`, "Ä"},
	{`\"A`, "Ä"},
	{`H{A}`, "Ä"},
	{`\"{o}`, "ö"},
	{`{\"o}`, "ö"},
	{`\"o`, "ö"},
	{`H{o}`, "ö"},
	{`\"{O}`, "Ö"},
	{`{\"O}`, "Ö"},
	{`\"O`, "Ö"},
	{`H{O}`, "Ö"},
	{`\"{u}`, "ü"},
	{`{\"u}`, "ü"},
	{`\"u`, "ü"},
	{`H{u}`, "ü"},
	{`\"{U}`, "Ü"},
	{`{\"U}`, "Ü"},
	{`\"U`, "Ü"},
	{`H{U}`, "Ü"},
	{`{‘a}`, "à"},
	{`\‘A`, "À"},
	{`{‘e}`, "è"},
	{`\‘E`, "È"},
	{`{‘o}`, "ò"},
	{`\‘O`, "Ò"},
	{`{‘u}`, "ù"},
	{`\‘U`, "Ù"},
	{`{’a}`, "á"},
	{`\’A`, "Á"},
	{`{’e}`, "é"},
	{`\’E`, "É"},
	{`{’o}`, "ó"},
	{`\’O`, "Ó"},
	{`{’u}`, "ú"},
	{`\’U`, "Ú"},
	{"\\`a", "à"},
	{"\\`A", "À"},
	{"\\`e", "è"},
	{"\\`E", "È"},
	{"\\`u", "ù"},
	{"\\`U", "Ù"},
	{"\\`o", "ò"},
	{"\\`O", "Ò"},
	{`\^o`, "ô"},
	{`\^O`, "Ô"},
	{`\ss`, "ß"},
	{`\ae`, "æ"},
	{`\AE`, "Æ"},
}

// NormalizeSpecialChars replaces every known legacy accent escape in text
// with its Unicode equivalent. Unmatched input passes through unchanged.
func NormalizeSpecialChars(text string) string {
	for _, pair := range specialChars {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	return text
}
