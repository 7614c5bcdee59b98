// Package document models the rendered text documents handed to the
// archive pipeline and loads them from disk. A document is plain text
// already stripped of markup; the pipeline never sees the source
// format it was rendered from.
package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a document cannot enter the pipeline
// at all: missing identity, no content, or characters the downstream
// reader cannot display.
var ErrMalformed = errors.New("malformed document")

// Document is one rendered logical document: ordered text blocks plus
// identifying metadata. Slug names the document within a build and
// seeds its article name in the archive.
type Document struct {
	Slug   string
	Title  string
	Blocks []string
}

// Text flattens the document's blocks into the canonical text form
// that gets encoded and split: blocks separated by one blank line,
// with exactly one trailing newline.
func (d Document) Text() string {
	text := strings.Join(d.Blocks, "\n\n")
	text = strings.TrimRight(text, "\n")
	return text + "\n"
}

// Validate rejects documents the pipeline cannot process. All
// failures wrap ErrMalformed.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Slug) == "" {
		return fmt.Errorf("%w: empty slug", ErrMalformed)
	}
	if len(d.Blocks) == 0 {
		return fmt.Errorf("%w: document %q has no content blocks", ErrMalformed, d.Slug)
	}

	hasContent := false
	for i, block := range d.Blocks {
		if strings.ContainsRune(block, '\t') {
			return fmt.Errorf("%w: document %q block %d contains a tab character", ErrMalformed, d.Slug, i+1)
		}
		if strings.TrimSpace(block) != "" {
			hasContent = true
		}
	}
	if !hasContent {
		return fmt.Errorf("%w: document %q has no printable content", ErrMalformed, d.Slug)
	}
	return nil
}

// Position converts a rune offset into text to a 1-based line and
// column, for error messages that name where in a document something
// went wrong.
func Position(text string, runeOffset int) (line, col int) {
	line, col = 1, 1
	count := 0
	for _, r := range text {
		if count == runeOffset {
			return line, col
		}
		count++
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
