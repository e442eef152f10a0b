package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

func newExtractCommand(envFile *string) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the outline JSON of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			path := args[0]
			frags, err := pipeline.ParseFile(path, parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}

			c := classify.New(cfg.ClassifyConfig())
			trace := c.Trace(frags)
			if debug {
				writeTrace(cmd.ErrOrStderr(), trace, c.Config())
			}
			return writeOutline(cmd.OutOrStdout(), withFilenameTitle(trace.Outline, path))
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Print per-fragment features, scores and rejections to stderr")
	return cmd
}

func loadConfig(envFile string) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	return config.Load(), nil
}

// withFilenameTitle fills an empty title from the file name.
func withFilenameTitle(o doctree.DocumentOutline, path string) doctree.DocumentOutline {
	if o.Title == "" {
		base := filepath.Base(path)
		o.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return o
}

func writeOutline(w io.Writer, o doctree.DocumentOutline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return nil
}

// writeTrace prints one row per fragment: its features, then either the
// filter rules that rejected it or its score and assigned level.
func writeTrace(w io.Writer, t classify.Trace, cfg classify.Config) {
	scored := make(map[int]classify.Candidate, len(t.Candidates))
	for _, c := range t.Candidates {
		scored[c.Index] = c
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tY\tSIZE\tRANK\tBOLD\tNUM\tCASING\tRESULT\tTEXT")
	for _, r := range t.Document.Records {
		result := ""
		if reasons := classify.Rejected(r, cfg); len(reasons) > 0 {
			result = "rejected:" + strings.Join(reasons, ",")
		} else if c, ok := scored[r.Index]; ok {
			result = fmt.Sprintf("%s score=%.1f", c.Level, c.Score)
		} else {
			c := classify.Candidate{FeatureRecord: r}
			result = fmt.Sprintf("below-threshold score=%.1f", classify.ScoreOf(c, t.Document))
		}
		fmt.Fprintf(tw, "%d\t%.0f\t%.1f\t%d\t%t\t%d\t%s\t%s\t%s\n",
			r.Page, r.Y, r.FontSize, r.RelativeFontRank, r.Bold, r.NumberingDepth, r.Casing, result, truncate(r.Text, 60))
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
