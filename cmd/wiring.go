package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/madstone-tech/pylon/internal/adapters/broker"
	"github.com/madstone-tech/pylon/internal/adapters/config"
	"github.com/madstone-tech/pylon/internal/adapters/filesystem"
	"github.com/madstone-tech/pylon/internal/adapters/frontmatter"
	"github.com/madstone-tech/pylon/internal/adapters/highlight"
	"github.com/madstone-tech/pylon/internal/adapters/logging"
	"github.com/madstone-tech/pylon/internal/adapters/markdown"
	"github.com/madstone-tech/pylon/internal/adapters/minify"
	"github.com/madstone-tech/pylon/internal/adapters/pipeline"
	"github.com/madstone-tech/pylon/internal/adapters/scripting"
	"github.com/madstone-tech/pylon/internal/adapters/template"
	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// buildEngine wires every adapter into an Engine for the given project
// root, reading resolved paths and server options from the already-loaded
// Viper config (cmd/root.go's initConfig).
func buildEngine(projectRoot string) (*usecases.Engine, usecases.Logger, entities.EnginePaths, usecases.ServerOptions, error) {
	level := logging.LevelInfo
	if Verbose {
		level = logging.LevelDebug
	}
	log := logging.New(level)

	loader := config.New()
	paths, opts, err := loader.Load(projectRoot)
	if err != nil {
		return nil, nil, entities.EnginePaths{}, usecases.ServerOptions{}, err
	}

	highlighter := highlight.New(viper.GetString("highlight.theme"))
	tmpl, err := template.New(paths.Templates, paths.ProjectRoot)
	if err != nil {
		return nil, nil, entities.EnginePaths{}, usecases.ServerOptions{}, err
	}

	var min usecases.Minifier
	if viper.GetBool("minify.enabled") {
		min = minify.New()
	}

	deps := usecases.EngineDeps{
		Template:       tmpl,
		Markdown:       markdown.New(highlighter),
		Highlighter:    highlighter,
		Scripting:      scripting.New(func(msg string) { log.Info("rules script print", "message", msg) }),
		Frontmatter:    frontmatter.New(),
		Pipeline:       pipeline.New(),
		Discover:       filesystem.New(),
		Minify:         min,
		Log:            log,
		RenderBehavior: opts.RenderBehavior,
	}

	return usecases.New(paths, deps), log, paths, opts, nil
}

// newBroker and newWatcher are split out of buildEngine since build doesn't
// need them, only serve.
func newBroker() usecases.Broker {
	return broker.New()
}

func newWatcher(debounceMS int) usecases.Watcher {
	return filesystem.NewWatcher(time.Duration(debounceMS) * time.Millisecond)
}
