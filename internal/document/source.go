package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FileSource loads rendered text files from disk, in the order given.
// The first path becomes the build's root document.
type FileSource []string

// Load reads every file in the source. Documents come back in input
// order; the caller decides which one anchors the archive.
func (s FileSource) Load(ctx context.Context) ([]Document, error) {
	docs := make([]Document, 0, len(s))
	for _, path := range s {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadFile reads one rendered text file into a Document. The filename
// stem becomes the slug and, prettified, the fallback title.
func LoadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return Document{}, fmt.Errorf("%w: file %s is not valid UTF-8", ErrMalformed, path)
	}

	stem := fileStem(path)
	doc := Document{
		Slug:   stem,
		Title:  TitleFromStem(stem),
		Blocks: SplitBlocks(string(raw)),
	}
	return doc, nil
}

// SplitBlocks cuts raw rendered text into paragraph blocks. Line
// endings are normalized and runs of blank lines collapse into block
// boundaries; indentation inside a block is preserved.
func SplitBlocks(raw string) []string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var blocks []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, strings.Join(current, "\n"))
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// TitleFromStem prettifies a filename stem into a display title:
// separators become spaces and each word gets a capital first letter.
func TitleFromStem(stem string) string {
	name := strings.ReplaceAll(stem, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// fileStem returns the base filename without its extension.
func fileStem(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return name
}
