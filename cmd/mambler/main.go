// Command mambler assembles rendered text documents into an AMB
// archive for 8-bit reader hardware. The first input becomes the root
// article; the rest are packed in slug order, split into record-sized
// chunks, and indexed for full-text search.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/randogoth/mambler/internal/build"
	"github.com/randogoth/mambler/internal/codepage"
	"github.com/randogoth/mambler/internal/config"
	"github.com/randogoth/mambler/internal/contextutil"
	"github.com/randogoth/mambler/internal/document"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format.
	// Logs go to stderr; stdout carries only the archive path.
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	var (
		flagOutput    string
		flagTitle     string
		flagCodepage  string
		flagChunk     int
		flagNoIndex   bool
		flagCodepages bool
	)
	flag.StringVar(&flagOutput, "o", "", "archive output path (default: first input with .amb extension)")
	flag.StringVar(&flagTitle, "title", "", "archive title (default: root document title)")
	flag.StringVar(&flagCodepage, "codepage", "", "target codepage, e.g. 437, cp852, kamenicky")
	flag.IntVar(&flagChunk, "max-chunk-bytes", 0, "split budget per article payload")
	flag.BoolVar(&flagNoIndex, "no-index", false, "skip the full-text search index")
	flag.BoolVar(&flagCodepages, "codepages", false, "list supported codepages and exit")
	flag.Usage = usage
	flag.Parse()

	if flagCodepages {
		for _, name := range codepage.Supported() {
			fmt.Println(name)
		}
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Flags override whatever the environment configured
	if flagCodepage != "" {
		cfg.Codepage = flagCodepage
	}
	if flagTitle != "" {
		cfg.Title = flagTitle
	}
	if flagChunk > 0 {
		cfg.MaxChunkBytes = flagChunk
	}
	if flagNoIndex {
		cfg.Index = false
	}

	output := flagOutput
	if output == "" {
		output = defaultOutput(inputs[0])
	}

	// Every log line of this build carries the same build_id
	ctx := contextutil.WithLogger(context.Background(), logger.With("build_id", uuid.NewString()))

	builder := build.NewBuilder(document.FileSource(inputs), build.Options{
		Output:        output,
		Title:         cfg.Title,
		Codepage:      cfg.Codepage,
		MaxChunkBytes: cfg.MaxChunkBytes,
		Index:         cfg.Index,
	})
	res, err := builder.Run(ctx)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	fmt.Println(res.ArchivePath)
}

// defaultOutput derives the archive path from the first input file.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".amb"
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: mambler [flags] <document> [document ...]\n\n")
	fmt.Fprintf(out, "Assembles rendered text documents into an AMB archive. The first\n")
	fmt.Fprintf(out, "document becomes the root article readers open first.\n\nFlags:\n")
	flag.PrintDefaults()
}
