package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const guideMarkdown = "# Guide\n\n## 1. Setup\n\nInstall the tool before running anything else.\n"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_PrintsOutline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.md", guideMarkdown)

	out, _, err := runCLI(t, "extract", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var o doctree.DocumentOutline
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if o.Title != "Guide" {
		t.Errorf("expected title Guide, got %q", o.Title)
	}
	if len(o.Outline) != 2 || o.Outline[1].Text != "1. Setup" || o.Outline[1].Level != doctree.H1 {
		t.Errorf("unexpected outline %+v", o.Outline)
	}
}

func TestExtract_TitleFallsBackToFilename(t *testing.T) {
	prose := "this line is plain running prose that keeps going well past the usual limit for any sensible title line here\n"
	path := writeFile(t, t.TempDir(), "field-notes.txt", prose)

	out, _, err := runCLI(t, "extract", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"title": "field-notes"`) {
		t.Errorf("expected filename title, got %s", out)
	}
	if !strings.Contains(out, `"outline": []`) {
		t.Errorf("expected empty outline array, got %s", out)
	}
}

func TestExtract_DebugTrace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.md", guideMarkdown)

	_, stderr, err := runCLI(t, "extract", "--debug", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"RESULT", "rejected:sentence", "H1 score="} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in trace:\n%s", want, stderr)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	if _, _, err := runCLI(t, "extract", filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeFile(t, t.TempDir(), "sheet.xlsx", "x")
	if _, _, err := runCLI(t, "extract", path); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestBatch_WritesOnePerDocument(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, in, "guide.md", guideMarkdown)
	writeFile(t, in, "notes.txt", "Plain Notes\n")
	writeFile(t, in, "ignored.xlsx", "x")

	if _, _, err := runCLI(t, "batch", "--workers", "2", in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "guide.json,notes.json" {
		t.Fatalf("unexpected outputs %v", names)
	}

	b, err := os.ReadFile(filepath.Join(out, "guide.json"))
	if err != nil {
		t.Fatal(err)
	}
	var o doctree.DocumentOutline
	if err := json.Unmarshal(b, &o); err != nil {
		t.Fatal(err)
	}
	if o.Title != "Guide" {
		t.Errorf("expected title Guide, got %q", o.Title)
	}
}

func TestBatch_SharedStemsKeepExtension(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, in, "report.md", guideMarkdown)
	writeFile(t, in, "report.txt", "Plain Notes\n")
	writeFile(t, in, "summary.txt", "Summary Notes\n")

	if _, _, err := runCLI(t, "batch", in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if got := strings.Join(names, ","); got != "report.md.json,report.txt.json,summary.json" {
		t.Fatalf("unexpected outputs %v", names)
	}
}

func TestBatch_MissingInputDir(t *testing.T) {
	if _, _, err := runCLI(t, "batch", filepath.Join(t.TempDir(), "nope"), t.TempDir()); err == nil {
		t.Error("expected error for missing input dir")
	}
}
