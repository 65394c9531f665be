package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

func TestRun_CopyOperation(t *testing.T) {
	srcRoot := t.TempDir()
	outputRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcRoot, "logo.png"), []byte("pngdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := entities.NewPipeline(entities.MustMatcher("*.png"), []entities.Operation{{Kind: entities.OpCopy}})

	if err := (Runner{}).Run(context.Background(), p, srcRoot, outputRoot, "logo.png"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outputRoot, "logo.png"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "pngdata" {
		t.Errorf("got %q", got)
	}
}

func TestRun_ShellOperationChainsThroughTempFile(t *testing.T) {
	srcRoot := t.TempDir()
	outputRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcRoot, "site.css"), []byte("body{color:red}"), 0o644); err != nil {
		t.Fatal(err)
	}

	op, err := entities.ParseOperation(`shell:cat $INPUT > $OUTPUT`)
	if err != nil {
		t.Fatalf("ParseOperation: %v", err)
	}
	p := entities.NewPipeline(entities.MustMatcher("*.css"), []entities.Operation{{Kind: entities.OpCopy}, op})

	if err := (Runner{}).Run(context.Background(), p, srcRoot, outputRoot, "site.css"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outputRoot, "site.css"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "body{color:red}" {
		t.Errorf("got %q", got)
	}
}

func TestRun_ShellOperationWithoutOutputActsInPlace(t *testing.T) {
	srcRoot := t.TempDir()
	outputRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcRoot, "notes.txt"), []byte("draft"), 0o644); err != nil {
		t.Fatal(err)
	}

	op, err := entities.ParseOperation(`shell:printf release > $INPUT`)
	if err != nil {
		t.Fatalf("ParseOperation: %v", err)
	}
	p := entities.NewPipeline(entities.MustMatcher("*.txt"), []entities.Operation{op})

	if err := (Runner{}).Run(context.Background(), p, srcRoot, outputRoot, "notes.txt"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outputRoot, "notes.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "release" {
		t.Errorf("got %q, want the in-place edit carried to the output path", got)
	}
}

func TestRun_ShellOperationFailureReturnsError(t *testing.T) {
	srcRoot := t.TempDir()
	outputRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcRoot, "broken.css"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	op, err := entities.ParseOperation(`shell:exit 1`)
	if err != nil {
		t.Fatalf("ParseOperation: %v", err)
	}
	p := entities.NewPipeline(entities.MustMatcher("*.css"), []entities.Operation{op})

	if err := (Runner{}).Run(context.Background(), p, srcRoot, outputRoot, "broken.css"); err == nil {
		t.Fatal("expected error from failing shell command")
	}
}
