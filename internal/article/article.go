// Package article cuts encoded documents into reader-sized chunks.
// Every chunk becomes one article in the archive; chunks that are not
// the last carry a navigation marker linking to their continuation.
// Splitting never falls inside a word and never loses text: the Text
// fields of a document's chunks concatenate back to the document.
package article

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/randogoth/mambler/internal/codepage"
	"github.com/randogoth/mambler/internal/document"
)

const (
	continueLabel = "Continue"
	// placeholderTarget is the widest possible 8.3 name. Marker space
	// is reserved against it before the real continuation names exist.
	placeholderTarget = "XXXXXXXX.XXX"
)

// Chunk is one reader-sized slice of a document: the exact text it
// covers, the navigation marker appended when the document continues
// in another article, and the single-byte payload the archive stores.
type Chunk struct {
	Name    string
	Text    string
	Marker  string
	Next    string
	Payload []byte
}

// IsWordRune reports whether r belongs to a word. The splitter and
// the full-text indexer must agree on this alphabet so that no chunk
// boundary lands inside an indexable word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Split encodes a document and cuts it into chunks whose payloads fit
// maxBytes. name becomes the first chunk's article name; continuation
// names are derived from it and reserved in taken. A single
// indivisible word longer than the remaining budget is emitted whole
// rather than truncated, so payloads can exceed maxBytes in that one
// case. The container's own record limit is enforced at pack time.
func Split(name string, doc document.Document, cp *codepage.Codepage, maxBytes int, taken NameSet) ([]Chunk, error) {
	text := doc.Text()
	encoded, err := cp.Encode(text)
	if err != nil {
		return nil, locateEncodeError(doc.Slug, text, err)
	}

	// Most documents fit one article.
	if len(encoded) <= maxBytes {
		return []Chunk{{Name: name, Text: text, Payload: encoded}}, nil
	}

	reserved, err := cp.Encode(continuationMarker(placeholderTarget, false))
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.Slug, err)
	}

	runes := []rune(text)
	bounds := splitBounds(runes, maxBytes, len(reserved))

	names := make([]string, len(bounds))
	names[0] = name
	stem := strings.TrimSuffix(name, Ext)
	for i := 1; i < len(bounds); i++ {
		names[i] = continuationName(stem, i, taken)
		taken.Add(names[i])
	}

	chunks := make([]Chunk, len(bounds))
	for i, b := range bounds {
		chunk := Chunk{
			Name: names[i],
			Text: string(runes[b[0]:b[1]]),
		}
		payload := encoded[b[0]:b[1]:b[1]]
		if i < len(bounds)-1 {
			chunk.Next = names[i+1]
			chunk.Marker = continuationMarker(chunk.Next, strings.HasSuffix(chunk.Text, "\n"))
			markerBytes, err := cp.Encode(chunk.Marker)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", doc.Slug, err)
			}
			payload = append(payload, markerBytes...)
		}
		chunk.Payload = payload
		chunks[i] = chunk
	}
	return chunks, nil
}

// continuationMarker renders the navigation line appended to a chunk
// that continues in next. When the chunk text does not already end
// with a newline, one more is prepended so the link sits on its own
// line after a blank one.
func continuationMarker(next string, endsWithNewline bool) string {
	marker := "\n%l" + next + ":" + continueLabel + "%t\n"
	if !endsWithNewline {
		marker = "\n" + marker
	}
	return marker
}

// splitBounds walks the word and separator spans of the text and
// closes a chunk whenever the next span would overflow the budget.
// Before a chunk closes, trailing spans are handed back to the stream
// until the marker reservation fits. A chunk keeps at least one span,
// which is how an indivisible oversized word gets through.
func splitBounds(runes []rune, maxBytes, reserve int) [][2]int {
	spans := segment(runes)

	var bounds [][2]int
	start, end := 0, 0
	first := 0 // index into spans of the current chunk's first span

	for i := 0; i < len(spans); {
		length := spans[i].end - spans[i].start
		if end == start || end-start+length <= maxBytes {
			end = spans[i].end
			i++
			continue
		}

		for i-1 > first && end-start+reserve > maxBytes {
			i--
			end = spans[i-1].end
		}
		bounds = append(bounds, [2]int{start, end})
		first = i
		start = end
	}
	if end > start {
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}

type span struct {
	start, end int
}

// segment cuts the text into maximal runs of word and non-word
// characters. Chunk boundaries may only fall between spans.
func segment(runes []rune) []span {
	var spans []span
	for i := 0; i < len(runes); {
		j := i + 1
		word := IsWordRune(runes[i])
		for j < len(runes) && IsWordRune(runes[j]) == word {
			j++
		}
		spans = append(spans, span{start: i, end: j})
		i = j
	}
	return spans
}

// locateEncodeError turns a strict-encoding failure into an error that
// names the document and the line and column of the offending
// character.
func locateEncodeError(slug, text string, err error) error {
	var unmappable *codepage.UnmappableError
	if errors.As(err, &unmappable) {
		line, col := document.Position(text, unmappable.Offset)
		return fmt.Errorf("document %q: line %d, column %d: %w", slug, line, col, err)
	}
	return fmt.Errorf("document %q: %w", slug, err)
}
