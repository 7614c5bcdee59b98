package article

import (
	"fmt"
	"strings"
)

const (
	// Ext is the filename extension of every article in the archive.
	Ext = ".AMA"
	// RootName is the article the reader opens first.
	RootName = "INDEX" + Ext

	maxStem = 8
)

// NameSet tracks the article names already assigned within one build,
// so document naming and continuation naming never collide.
type NameSet map[string]struct{}

// Add marks a name as taken.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether a name is already taken.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ArticleName derives an unused 8.3 article name from a document
// slug. Letters and digits are uppercased, everything else becomes an
// underscore, a leading digit gets an underscore prefix, and the stem
// is cut to eight characters. Collisions append a two-digit counter
// that eats into the stem. The returned name is not added to taken.
func ArticleName(slug string, taken NameSet) string {
	stem := sanitizeStem(slug)
	name := stem + Ext
	for counter := 1; taken.Has(name); counter++ {
		suffix := fmt.Sprintf("%02d", counter)
		name = trimStem(stem, len(suffix)) + suffix + Ext
	}
	return name
}

// continuationName assigns the article name for a continuation chunk.
// ordinal is the chunk's 1-based position after the first chunk; the
// two-digit ordinal replaces the tail of the stem. If the obvious
// name is taken, a further counter is appended to the suffix.
func continuationName(stem string, ordinal int, taken NameSet) string {
	suffix := fmt.Sprintf("%02d", ordinal)
	name := trimStem(stem, len(suffix)) + suffix + Ext
	for counter := 1; taken.Has(name); counter++ {
		long := fmt.Sprintf("%02d%d", ordinal, counter)
		name = trimStem(stem, len(long)) + long + Ext
	}
	return name
}

// sanitizeStem folds a slug onto the 8.3 character set.
func sanitizeStem(slug string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(slug) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	stem := b.String()
	if stem == "" {
		stem = "ARTICLE"
	}
	if stem[0] >= '0' && stem[0] <= '9' {
		stem = "_" + stem
	}
	if len(stem) > maxStem {
		stem = stem[:maxStem]
	}
	return stem
}

// trimStem shortens a stem so that stem+suffix still fits the 8.3
// stem length, always keeping at least one stem character.
func trimStem(stem string, suffixLen int) string {
	keep := maxStem - suffixLen
	if keep < 1 {
		keep = 1
	}
	if len(stem) > keep {
		return stem[:keep]
	}
	return stem
}
