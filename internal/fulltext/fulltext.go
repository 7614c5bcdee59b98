// Package fulltext builds the archive's optional word index. The
// index is all-or-nothing: either every word of every chunk is in it,
// or the archive ships without one.
package fulltext

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/randogoth/mambler/internal/article"
	"github.com/randogoth/mambler/internal/codepage"
)

const (
	// MinWordLen and MaxWordLen bound the length, in characters, of
	// indexable words. Shorter words are noise, longer ones do not
	// fit the one-byte length field.
	MinWordLen = 2
	MaxWordLen = 17

	// MaxEncodedSize is the ceiling on the serialized index. An index
	// that would exceed it is dropped whole; readers either get the
	// complete index or none.
	MaxEncodedSize = 64 * 1024
)

// Occurrence locates one instance of a word: the chunk's ordinal in
// the archive directory and the byte offset of the word's first
// character within that chunk's payload.
type Occurrence struct {
	Chunk  uint16
	Offset uint16
}

// Index is an in-memory inverted index over every chunk of a build.
type Index struct {
	words map[string][]Occurrence
}

// Build scans the text region of every chunk and records each word of
// acceptable length. Continuation markers are not part of a document
// and are never indexed. Chunks must already satisfy the container's
// record size limit so that offsets fit sixteen bits.
func Build(chunks []article.Chunk, cp *codepage.Codepage) *Index {
	idx := &Index{words: make(map[string][]Occurrence)}
	for ord, ch := range chunks {
		// The marker is ASCII, one payload byte per character, so the
		// text region is the payload minus the marker's length.
		data := ch.Payload[:len(ch.Payload)-len(ch.Marker)]
		scanChunk(idx, uint16(ord), data, cp)
	}
	return idx
}

// scanChunk walks one chunk's text bytes and feeds qualifying words
// into the index, in reading order.
func scanChunk(idx *Index, ord uint16, data []byte, cp *codepage.Codepage) {
	for i := 0; i < len(data); {
		r, _ := cp.DecodeByte(data[i])
		if !article.IsWordRune(r) {
			i++
			continue
		}

		start := i
		word := make([]rune, 0, MaxWordLen)
		for i < len(data) {
			r, _ := cp.DecodeByte(data[i])
			if !article.IsWordRune(r) {
				break
			}
			word = append(word, r)
			i++
		}

		if len(word) < MinWordLen || len(word) > MaxWordLen || start > math.MaxUint16 {
			continue
		}
		key := fold(word, cp)
		idx.words[key] = append(idx.words[key], Occurrence{Chunk: ord, Offset: uint16(start)})
	}
}

// fold lowercases a word character by character. A character keeps
// its original form when the codepage cannot encode the lowercase
// one, which happens in OEM pages that carry only one case of some
// letters.
func fold(word []rune, cp *codepage.Codepage) string {
	out := make([]rune, len(word))
	for i, r := range word {
		lower := unicode.ToLower(r)
		if lower != r {
			if _, ok := cp.EncodeRune(lower); !ok {
				lower = r
			}
		}
		out[i] = lower
	}
	return string(out)
}

// Len returns the number of distinct indexed words.
func (idx *Index) Len() int {
	return len(idx.words)
}

// EncodedSize returns the exact size in bytes that Encode would
// produce: a two-byte entry count, then per word one length byte, the
// word itself, a two-byte occurrence count and four bytes per
// occurrence. Words occupy one byte per character in the target
// encoding.
func (idx *Index) EncodedSize() int {
	size := 2
	for word, occs := range idx.words {
		size += 1 + utf8.RuneCountInString(word) + 2 + 4*len(occs)
	}
	return size
}

// Encode serializes the index. Entries are sorted by their encoded
// word bytes so output is deterministic and readers can binary-search
// it. All integers are little-endian.
func (idx *Index) Encode(cp *codepage.Codepage) ([]byte, error) {
	type entry struct {
		word []byte
		occs []Occurrence
	}

	entries := make([]entry, 0, len(idx.words))
	for word, occs := range idx.words {
		encoded, err := cp.Encode(word)
		if err != nil {
			return nil, fmt.Errorf("failed to encode index word %q: %w", word, err)
		}
		if len(occs) > math.MaxUint16 {
			return nil, fmt.Errorf("index word %q has %d occurrences, more than the format can hold", word, len(occs))
		}
		entries = append(entries, entry{word: encoded, occs: occs})
	}
	if len(entries) > math.MaxUint16 {
		return nil, fmt.Errorf("index has %d words, more than the format can hold", len(entries))
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].word, entries[j].word) < 0
	})

	out := make([]byte, 0, idx.EncodedSize())
	out = binary.LittleEndian.AppendUint16(out, uint16(len(entries)))
	for _, e := range entries {
		out = append(out, byte(len(e.word)))
		out = append(out, e.word...)
		out = binary.LittleEndian.AppendUint16(out, uint16(len(e.occs)))
		for _, occ := range e.occs {
			out = binary.LittleEndian.AppendUint16(out, occ.Chunk)
			out = binary.LittleEndian.AppendUint16(out, occ.Offset)
		}
	}
	return out, nil
}
