package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

func newBatchCommand(envFile *string) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Write <name>.json for every supported document in a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.WorkerCount
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return runBatch(cmd.Context(), log, args[0], args[1], classify.New(cfg.ClassifyConfig()),
				parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Documents classified in parallel (default WORKER_COUNT)")
	return cmd
}

func runBatch(ctx context.Context, log *slog.Logger, inDir, outDir string, c *classify.Classifier, opts parser.Options, workers int) error {
	paths, err := supportedFiles(inDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	results, err := pipeline.ClassifyFiles(ctx, c, paths, opts, workers)
	if err != nil {
		return err
	}

	names := outputNames(paths)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Error("document failed", "path", res.Path, "error", res.Err)
			continue
		}
		out := filepath.Join(outDir, names[res.Path])
		if err := writeOutlineFile(out, withFilenameTitle(res.Outline, res.Path)); err != nil {
			failed++
			log.Error("write failed", "path", out, "error", err)
			continue
		}
		log.Info("wrote outline", "input", res.Path, "output", out, "headings", len(res.Outline.Outline))
	}

	log.Info("batch complete", "documents", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// supportedFiles lists the parseable files directly inside dir, sorted.
func supportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && parser.IsSupportedExtension(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// outputNames maps each input to <stem>.json. Inputs sharing a stem
// ("a.pdf", "a.txt") keep their extension instead ("a.pdf.json").
func outputNames(paths []string) map[string]string {
	stem := func(p string) string {
		base := filepath.Base(p)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	count := make(map[string]int, len(paths))
	for _, p := range paths {
		count[stem(p)]++
	}
	names := make(map[string]string, len(paths))
	for _, p := range paths {
		if count[stem(p)] > 1 {
			names[p] = filepath.Base(p) + ".json"
			continue
		}
		names[p] = stem(p) + ".json"
	}
	return names
}

func writeOutlineFile(path string, o doctree.DocumentOutline) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeOutline(f, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
