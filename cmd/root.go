// Package cmd implements the pylon CLI commands using Cobra.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madstone-tech/pylon/internal/adapters/config"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile     string
	ProjectRoot string
	Verbose     bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pylon",
	Short: "A static-site generator with a scripted rules layer",
	Long: `pylon builds a Markdown content collection into a static site.

Pages are parsed with TOML frontmatter, rendered through a templating layer
with embedded syntax highlighting and shortcodes, and a user-supplied rules
script attaches context generators, lint rules, frontmatter hooks, and asset
pipelines to globs of pages. In serve mode, pylon watches the project and
pushes live-reload notifications to connected browsers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Root())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&ProjectRoot, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "building", Title: "Building"},
		&cobra.Group{ID: "serving", Title: "Serving"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("pylon %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

// initConfig sets up Viper configuration with the hierarchy:
// PYLON_* env vars > project pylon.toml > global XDG config.toml (or --config) > defaults.
// No CLI flag is bound into Viper.
func initConfig(root *cobra.Command) error {
	viper.SetConfigType("toml")

	viper.SetDefault("paths.content", "./content")
	viper.SetDefault("paths.templates", "./templates")
	viper.SetDefault("paths.syntax_themes", "./syntax_themes")
	viper.SetDefault("paths.output", "./public")
	viper.SetDefault("rules.script", "./site-rules.star")
	viper.SetDefault("server.bind", "127.0.0.1:8080")
	viper.SetDefault("server.debounce_ms", 150)
	viper.SetDefault("server.render_behavior", "write")
	viper.SetDefault("highlight.theme", "github")
	viper.SetDefault("minify.enabled", false)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		paths := config.NewXDGPathResolver()
		viper.SetConfigFile(paths.ConfigFile())
		_ = viper.ReadInConfig() // silent fail if not found
	}

	viper.SetConfigFile("pylon.toml")
	_ = viper.MergeInConfig() // silent fail if not found

	viper.SetEnvPrefix("PYLON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}
