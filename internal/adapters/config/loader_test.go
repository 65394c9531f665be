package config

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

func resetViperDefaults() {
	viper.Reset()
	viper.SetDefault("paths.content", "./content")
	viper.SetDefault("paths.templates", "./templates")
	viper.SetDefault("paths.syntax_themes", "./syntax_themes")
	viper.SetDefault("paths.output", "./public")
	viper.SetDefault("rules.script", "./site-rules.star")
	viper.SetDefault("server.bind", "127.0.0.1:8080")
	viper.SetDefault("server.debounce_ms", 150)
	viper.SetDefault("server.render_behavior", "write")
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	resetViperDefaults()
	root := "/tmp/project"

	l := New()
	paths, opts, err := l.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if paths.Content != "/tmp/project/content" {
		t.Errorf("Content = %q", paths.Content)
	}
	if paths.Templates != "/tmp/project/templates" {
		t.Errorf("Templates = %q", paths.Templates)
	}
	if paths.Output != "/tmp/project/public" {
		t.Errorf("Output = %q", paths.Output)
	}
	if paths.RulesScript != "/tmp/project/site-rules.star" {
		t.Errorf("RulesScript = %q", paths.RulesScript)
	}
	if opts.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q", opts.Bind)
	}
	if opts.DebounceMS != 150 {
		t.Errorf("DebounceMS = %d", opts.DebounceMS)
	}
	if opts.RenderBehavior != entities.RenderWrite {
		t.Errorf("RenderBehavior = %v", opts.RenderBehavior)
	}
}

func TestLoad_AbsolutePathsPassThrough(t *testing.T) {
	resetViperDefaults()
	viper.Set("paths.content", "/abs/content")

	l := New()
	paths, _, err := l.Load("/tmp/project")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if paths.Content != "/abs/content" {
		t.Errorf("Content = %q, want passthrough of absolute path", paths.Content)
	}
}

func TestLoad_InvalidRenderBehavior(t *testing.T) {
	resetViperDefaults()
	viper.Set("server.render_behavior", "bogus")

	l := New()
	if _, _, err := l.Load("/tmp/project"); err == nil {
		t.Fatal("expected error for invalid render_behavior, got nil")
	}
}
