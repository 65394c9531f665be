package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutput_Success(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.Success("build complete")

	output := buf.String()
	if !strings.Contains(output, "✓") {
		t.Error("expected success checkmark")
	}
	if !strings.Contains(output, "build complete") {
		t.Error("expected message in output")
	}
}

func TestOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithErrWriter(&buf)

	out.Error("rules script failed")

	output := buf.String()
	if !strings.Contains(output, "✗") {
		t.Error("expected error mark")
	}
	if !strings.Contains(output, "rules script failed") {
		t.Error("expected message in output")
	}
}

func TestOutput_Debug_SilentUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	out.WithVerbose(true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected debug message once verbose")
	}
}

func TestOutput_KeyValue(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput().WithWriter(&buf)

	out.KeyValue("content", "./content")

	if !strings.Contains(buf.String(), "./content") {
		t.Errorf("got %q", buf.String())
	}
}
