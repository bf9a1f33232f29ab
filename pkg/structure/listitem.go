package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// listBullets are the glyphs stripped from the start of a list item.
const listBullets = "•-–—*►▪▫"

// ParseListItems splits text into list items, one per non-empty line, dropping bullet
// glyphs and a leading "N." ordinal. Order is preserved.
func ParseListItems(text string) []string {
	items := []string{}
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		if item := ParseListItem(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseListItem cleans a single list line. It returns "" when nothing remains.
func ParseListItem(line string) string {
	item := strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(listBullets, r)
	})
	item = strings.TrimSpace(item)

	if hasOrdinal(item) {
		_, rest, _ := strings.Cut(item, ".")
		item = strings.TrimSpace(rest)
	}
	return item
}

// hasOrdinal reports whether s starts with a digit and has a period within its first
// three characters, as in "1. " or "12.".
func hasOrdinal(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsDigit(first) {
		return false
	}

	for i, r := range []rune(s) {
		if i >= 3 {
			break
		}
		if r == '.' {
			return true
		}
	}
	return false
}
