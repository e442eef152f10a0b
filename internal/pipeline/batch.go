package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"golang.org/x/sync/errgroup"
)

// BatchDocument is one already-parsed document in a batch.
type BatchDocument struct {
	ID        string             `json:"id"`
	Fragments []doctree.Fragment `json:"fragments"`
}

func batchLimit(workers, n int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, n))
}

// RunBatch classifies docs concurrently with at most workers in flight.
// Results are in input order. Only context cancellation fails the batch.
func RunBatch(ctx context.Context, c *classify.Classifier, docs []BatchDocument, workers int) ([]doctree.DocumentOutline, error) {
	out := make([]doctree.DocumentOutline, len(docs))
	if len(docs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit(workers, len(docs)))
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = c.Classify(docs[i].Fragments)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FileResult is the outcome for one file of ClassifyFiles.
type FileResult struct {
	Path    string
	Outline doctree.DocumentOutline
	Err     error
}

// ClassifyFiles parses and classifies files concurrently. A file that fails
// to parse carries its error in the result and does not stop the others.
func ClassifyFiles(ctx context.Context, c *classify.Classifier, paths []string, opts parser.Options, workers int) ([]FileResult, error) {
	out := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit(workers, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frags, err := ParseFile(path, opts)
			if err != nil {
				out[i] = FileResult{Path: path, Err: err}
				return nil
			}
			out[i] = FileResult{Path: path, Outline: c.Classify(frags)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseFile reads one file from disk with the parser for its extension.
func ParseFile(path string, opts parser.Options) ([]doctree.Fragment, error) {
	p, err := parser.ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	frags, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return frags, nil
}
