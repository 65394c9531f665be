package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/pylon/internal/adapters/devserver"
	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
	"github.com/madstone-tech/pylon/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Build once, then watch and serve with live reload",
	Long: `Build the site, then watch the content, templates, syntax theme, and
rules-script roots for changes. Every change triggers an incremental
rebuild and pushes a reload notification to any browser connected to the
dev server's WebSocket endpoint.`,
	GroupID: "serving",
	Example: `  pylon serve
  pylon serve --bind 0.0.0.0:3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", "", "address to listen on (overrides config server.bind)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput().WithVerbose(Verbose)

	engine, log, paths, opts, err := buildEngine(ProjectRoot)
	if err != nil {
		out.Error(err.Error())
		return err
	}

	bind, _ := cmd.Flags().GetString("bind")
	if bind == "" {
		bind = opts.Bind
	}

	out.Title("pylon serve")
	out.KeyValue("bind", bind)
	out.KeyValue("content", paths.Content)

	ctx := cmd.Context()

	if _, err := engine.BuildSite(ctx); err != nil {
		out.Error(err.Error())
		return err
	}
	out.Success("initial build complete")

	b := newBroker()
	watcher := newWatcher(opts.DebounceMS)

	roots := []string{paths.Content, paths.Templates, paths.SyntaxThemes, paths.RulesScript}
	go func() {
		if err := watcher.Watch(ctx, roots, b); err != nil && ctx.Err() == nil {
			log.Error("watcher stopped", "error", err.Error())
		}
	}()
	go runRebuildLoop(ctx, engine, b, log, out)

	srv := devserver.New(engine, b, paths.Output, log)
	out.Info("serving with live reload, press Ctrl+C to stop")
	return srv.Run(ctx, bind)
}

// runRebuildLoop drains EngineMsgFilesystemUpdate events posted by the
// watcher and feeds each one to Engine.Rebuild, which itself notifies the
// dev server over broker once the incremental rebuild succeeds.
func runRebuildLoop(ctx context.Context, engine *usecases.Engine, b usecases.Broker, log usecases.Logger, out *ui.Output) {
	for {
		msg, err := b.RecvEngineMsg(ctx)
		if err != nil {
			return
		}
		if msg.Kind != entities.EngineMsgFilesystemUpdate {
			continue
		}
		report, err := engine.Rebuild(ctx, msg.Update, b)
		if err != nil {
			out.Warning("rebuild failed: " + err.Error())
			log.Error("rebuild failed", "error", err.Error())
			continue
		}
		if report.HasErrors() {
			out.Warning("rebuild completed with errors: " + report.Error())
			continue
		}
		log.Info("rebuilt", "created", len(msg.Update.Created), "changed", len(msg.Update.Changed), "deleted", len(msg.Update.Deleted))
	}
}
