// Package config resolves EnginePaths and ServerOptions from Viper, which
// cmd/root.go has already populated from defaults, the global XDG config,
// the project-local pylon.toml, and environment variables (spec §10.3). No
// CLI flag is bound into Viper; serve's --bind is applied by cmd afterwards.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Loader implements usecases.ConfigLoader by reading the package-level
// Viper instance cmd/root.go's initConfig populates.
type Loader struct{}

func New() Loader { return Loader{} }

var _ usecases.ConfigLoader = Loader{}

func (Loader) Load(projectRoot string) (entities.EnginePaths, usecases.ServerOptions, error) {
	resolve := func(key string) string {
		v := viper.GetString(key)
		if filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(projectRoot, v)
	}

	paths := entities.EnginePaths{
		ProjectRoot:  projectRoot,
		Content:      resolve("paths.content"),
		Templates:    resolve("paths.templates"),
		SyntaxThemes: resolve("paths.syntax_themes"),
		Output:       resolve("paths.output"),
		RulesScript:  resolve("rules.script"),
	}

	renderBehavior, err := entities.ParseRenderBehavior(viper.GetString("server.render_behavior"))
	if err != nil {
		return entities.EnginePaths{}, usecases.ServerOptions{}, err
	}

	opts := usecases.ServerOptions{
		Bind:           viper.GetString("server.bind"),
		DebounceMS:     viper.GetInt("server.debounce_ms"),
		RenderBehavior: renderBehavior,
	}

	return paths, opts, nil
}
