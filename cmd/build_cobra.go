package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/pylon/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the site once",
	Long:    "Parse the content collection, evaluate the rules script, render every page, and run asset pipelines.",
	GroupID: "building",
	Example: `  pylon build
  pylon build --project ./mysite
  pylon build -v`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput().WithVerbose(Verbose)

	engine, log, paths, _, err := buildEngine(ProjectRoot)
	if err != nil {
		out.Error(err.Error())
		return err
	}

	out.Title("pylon build")
	out.KeyValue("content", paths.Content)
	out.KeyValue("output", paths.Output)

	report, err := engine.BuildSite(cmd.Context())
	if err != nil {
		if report != nil && report.HasErrors() {
			out.ErrorWithDetails("build failed", report.Error())
			return report
		}
		out.Error(err.Error())
		return err
	}

	library := engine.Library()
	out.Success(fmt.Sprintf("built %d pages", len(library.Iter())))
	log.Info("build finished", "pages", len(library.Iter()))

	if flusher, ok := log.(interface{ Sync() error }); ok {
		_ = flusher.Sync()
	}

	return nil
}
