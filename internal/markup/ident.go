package markup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerCaser = cases.Lower(language.Und)
	titleCaser = cases.Title(language.Und)
)

// Words splits a layer name into identifier words on punctuation, spaces
// and lower-to-upper case changes.
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				flush()
			}
			cur = append(cur, r)
		default:
			flush()
		}
		prev = r
	}
	flush()
	return words
}

// Camel renders s as a lowerCamel identifier, or "" when s has no words.
func Camel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lowerCaser.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(titleCaser.String(w))
	}
	return guardLeadingDigit(b.String(), "n")
}

// Pascal renders s as an UpperCamel identifier, or "" when s has no words.
func Pascal(s string) string {
	words := Words(s)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}
	return guardLeadingDigit(b.String(), "N")
}

// Slug renders s as a lowercase dash-separated file stem.
func Slug(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = lowerCaser.String(w)
	}
	return strings.Join(words, "-")
}

func guardLeadingDigit(s, prefix string) string {
	if s != "" && unicode.IsDigit([]rune(s)[0]) {
		return prefix + s
	}
	return s
}
