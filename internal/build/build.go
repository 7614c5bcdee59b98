// Package build orchestrates one archive build: load the rendered
// documents, encode and split them into articles, index them, and
// serialize everything into the output archive.
package build

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks github.com/randogoth/mambler/internal/build Source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/randogoth/mambler/internal/amb"
	"github.com/randogoth/mambler/internal/article"
	"github.com/randogoth/mambler/internal/codepage"
	"github.com/randogoth/mambler/internal/contextutil"
	"github.com/randogoth/mambler/internal/document"
	"github.com/randogoth/mambler/internal/fulltext"
)

// Source yields the rendered documents of one build. The rendering
// toolchain that produces them sits behind this seam.
type Source interface {
	// Load returns every document of the build. The first document is
	// the root article the reader opens first.
	Load(ctx context.Context) ([]document.Document, error)
}

// Options control one build.
type Options struct {
	// Output is the archive path. The companion character map, when
	// one is needed, lands next to it.
	Output string
	// Title overrides the root document's title in the archive header.
	Title string
	// Codepage names the target encoding, in any spelling the
	// codepage package accepts.
	Codepage string
	// MaxChunkBytes is the split budget per article payload.
	MaxChunkBytes int
	// Index controls whether the full-text index is built at all.
	Index bool
}

// Result reports what one build produced.
type Result struct {
	ArchivePath  string
	MapPath      string // empty when no companion map was needed
	Title        string
	Codepage     string
	Articles     []string // article names in directory order
	Documents    int
	IndexWords   int
	IndexBytes   int
	IndexDropped bool
	HighBytes    int
	ArchiveBytes int
	Elapsed      time.Duration
}

// Builder assembles archives from the documents of a Source.
type Builder struct {
	source Source
	opts   Options
}

// NewBuilder creates a builder over a document source.
func NewBuilder(source Source, opts Options) *Builder {
	return &Builder{source: source, opts: opts}
}

// Run executes one build. A failed build leaves no partial archive
// behind; the only degraded outcome is an oversized full-text index,
// which is dropped with a warning while the build continues.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	if err := b.opts.validate(); err != nil {
		return nil, err
	}

	cp, err := codepage.Resolve(b.opts.Codepage)
	if err != nil {
		return nil, err
	}

	docs, err := b.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: build has no documents", document.ErrMalformed)
	}
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "starting build",
		"documents", len(docs),
		"codepage", cp.Name(),
		"output", b.opts.Output)

	chunks, err := b.splitAll(docs, cp)
	if err != nil {
		return nil, err
	}

	// The directory length field is sixteen bits. An article that
	// cannot fit must stop the build before anything is written.
	for _, ch := range chunks {
		if len(ch.Payload) > amb.MaxChunkPayload {
			return nil, fmt.Errorf("article %s is %d bytes, over the %d-byte record limit", ch.Name, len(ch.Payload), amb.MaxChunkPayload)
		}
	}

	title := b.opts.Title
	if title == "" {
		title = docs[0].Title
	}

	var indexPayload []byte
	indexWords := 0
	indexDropped := false
	if b.opts.Index {
		idx := fulltext.Build(chunks, cp)
		if size := idx.EncodedSize(); size > fulltext.MaxEncodedSize {
			indexDropped = true
			logger.WarnContext(ctx, "full-text index dropped, archive ships without one",
				"size", size,
				"limit", fulltext.MaxEncodedSize,
				"words", idx.Len())
		} else {
			indexPayload, err = idx.Encode(cp)
			if err != nil {
				return nil, fmt.Errorf("failed to encode full-text index: %w", err)
			}
			indexWords = idx.Len()
		}
	}

	highMap := amb.DeriveHighMap(chunks, indexPayload, cp)

	data, err := amb.Pack(title, chunks, indexPayload, len(highMap) > 0)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ArchivePath:  b.opts.Output,
		Title:        title,
		Codepage:     cp.Name(),
		Documents:    len(docs),
		IndexWords:   indexWords,
		IndexBytes:   len(indexPayload),
		IndexDropped: indexDropped,
		HighBytes:    len(highMap),
		ArchiveBytes: len(data),
	}
	for _, ch := range chunks {
		res.Articles = append(res.Articles, ch.Name)
	}

	// The companion map goes to disk first; the archive rename is the
	// commit point of the build.
	if len(highMap) > 0 {
		res.MapPath = amb.MapPath(b.opts.Output)
		if err := amb.WriteFile(ctx, res.MapPath, highMap.Encode()); err != nil {
			return nil, err
		}
	}
	if err := amb.WriteFile(ctx, b.opts.Output, data); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(started)
	logger.InfoContext(ctx, "build completed",
		"archive", res.ArchivePath,
		"articles", len(res.Articles),
		"bytes", res.ArchiveBytes,
		"index_words", res.IndexWords,
		"high_bytes", res.HighBytes,
		"elapsed", res.Elapsed)
	return res, nil
}

// splitAll names every document and splits each one into chunks. The
// root document leads the directory as INDEX.AMA; the rest follow in
// slug order so the directory is stable regardless of load order.
func (b *Builder) splitAll(docs []document.Document, cp *codepage.Codepage) ([]article.Chunk, error) {
	ordered := make([]document.Document, len(docs))
	copy(ordered, docs)
	rest := ordered[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].Slug < rest[j].Slug })

	// Reserve all base names before splitting so continuation names
	// can never collide with a later document's article.
	taken := article.NameSet{}
	names := make([]string, len(ordered))
	for i, doc := range ordered {
		if i == 0 {
			names[i] = article.RootName
		} else {
			names[i] = article.ArticleName(doc.Slug, taken)
		}
		taken.Add(names[i])
	}

	var chunks []article.Chunk
	for i, doc := range ordered {
		split, err := article.Split(names[i], doc, cp, b.opts.MaxChunkBytes, taken)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, split...)
	}
	return chunks, nil
}

// validate rejects option combinations the build cannot honor.
func (o Options) validate() error {
	if o.Output == "" {
		return errors.New("output path must not be empty")
	}
	if o.Codepage == "" {
		return errors.New("codepage must not be empty")
	}
	if o.MaxChunkBytes < 1 || o.MaxChunkBytes > amb.MaxChunkPayload {
		return fmt.Errorf("chunk budget %d outside the valid range 1..%d", o.MaxChunkBytes, amb.MaxChunkPayload)
	}
	return nil
}
