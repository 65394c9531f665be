// Package pipeline implements usecases.AssetPipelineRunner, chaining a
// Pipeline's operations through a temporary artifact path with os/exec, the
// same shell-and-tempfile pattern the teacher's d2 renderer uses for its
// external CLI calls.
package pipeline

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Runner implements usecases.AssetPipelineRunner.
type Runner struct{}

func New() Runner { return Runner{} }

var _ usecases.AssetPipelineRunner = Runner{}

// Run chains pipeline.Ops through a temporary artifact file: each operation
// reads the prior step's output (or the original source, for the first
// step) and writes the next artifact, failing the whole pipeline on any
// step's error (spec §4.5).
func (Runner) Run(ctx context.Context, p entities.Pipeline, srcRoot, outputRoot, assetRelPath string) error {
	srcPath := filepath.Join(srcRoot, assetRelPath)
	dstPath := filepath.Join(outputRoot, assetRelPath)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return entities.NewError(entities.ErrKindIO, "failed to create asset output directory", err).
			WithContext("asset", assetRelPath)
	}

	current := srcPath
	var tempFiles []string
	defer func() {
		for _, f := range tempFiles {
			_ = os.Remove(f)
		}
	}()

	for i, op := range p.Ops {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		last := i == len(p.Ops)-1

		switch op.Kind {
		case entities.OpCopy:
			next, err := nextArtifact(last, dstPath, &tempFiles)
			if err != nil {
				return entities.NewError(entities.ErrKindIO, "failed to create pipeline temp file", err).
					WithContext("asset", assetRelPath)
			}
			if err := copyFile(current, next); err != nil {
				return entities.NewError(entities.ErrKindPipelineCommand, "copy operation failed", err).
					WithContext("asset", assetRelPath)
			}
			current = next
		case entities.OpShell:
			// A shell step only produces a new artifact when its command
			// references $OUTPUT; otherwise it ran against $INPUT alone (in
			// place, or for a side effect) and the next step still reads
			// the same input the command was handed (spec §4.5 "Shell").
			if strings.Contains(op.Command, "$OUTPUT") {
				next, err := nextArtifact(last, dstPath, &tempFiles)
				if err != nil {
					return entities.NewError(entities.ErrKindIO, "failed to create pipeline temp file", err).
						WithContext("asset", assetRelPath)
				}
				if err := runShell(ctx, op.Command, current, next); err != nil {
					return entities.NewError(entities.ErrKindPipelineCommand, "shell operation failed", err).
						WithContext("asset", assetRelPath).WithContext("command", op.Command)
				}
				current = next
			} else if err := runShell(ctx, op.Command, current, current); err != nil {
				return entities.NewError(entities.ErrKindPipelineCommand, "shell operation failed", err).
					WithContext("asset", assetRelPath).WithContext("command", op.Command)
			}
		}
	}

	if current != dstPath {
		if err := copyFile(current, dstPath); err != nil {
			return entities.NewError(entities.ErrKindIO, "failed to deliver pipeline output", err).
				WithContext("asset", assetRelPath)
		}
	}

	return nil
}

// nextArtifact returns the path the next pipeline step should write to: the
// final destination if this is the last step, or a fresh temp file
// otherwise (tracked in tempFiles for cleanup).
func nextArtifact(last bool, dstPath string, tempFiles *[]string) (string, error) {
	if last {
		return dstPath, nil
	}
	tmp, err := os.CreateTemp("", "pylon-asset-*")
	if err != nil {
		return "", err
	}
	next := tmp.Name()
	_ = tmp.Close()
	*tempFiles = append(*tempFiles, next)
	return next, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// runShell substitutes $INPUT and $OUTPUT placeholders in command and runs
// it through the shell.
func runShell(ctx context.Context, command, input, output string) error {
	substituted := strings.NewReplacer("$INPUT", input, "$OUTPUT", output).Replace(command)

	cmd := exec.CommandContext(ctx, "sh", "-c", substituted)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return entities.NewError(entities.ErrKindPipelineCommand, stderr.String(), err)
		}
		return err
	}
	return nil
}
