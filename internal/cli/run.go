package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glthr/covrun/internal/config"
	"github.com/glthr/covrun/internal/dlvhost"
	"github.com/glthr/covrun/internal/logging"
	"github.com/glthr/covrun/internal/model"
	"github.com/glthr/covrun/internal/report"
	"github.com/glthr/covrun/internal/runner"
	"github.com/glthr/covrun/internal/target"
)

// NewRunCommand builds the "covrun run" subcommand: load a config file,
// launch the target under a headless Delve session, collect coverage,
// and render a report.
func NewRunCommand() *cobra.Command {
	var (
		configPath string
		exec       bool
		logPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a target under coverage and write a report.",
		Long: `run reads target launch parameters, module/source filters, and report
settings from a config file (see internal/config), drives the target to
completion under a headless Delve session, and renders the collected
coverage with the configured report format.

Command-line flags override nothing in the config file except the
session's launch mode (--exec selects "dlv exec" for an already-built
binary instead of the default "dlv debug").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTarget(cmd.Context(), configPath, exec, logPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "covrun.yaml", "path to the run's config file")
	cmd.Flags().BoolVar(&exec, "exec", false, "debug an already-built binary instead of building from source")
	cmd.Flags().StringVar(&logPath, "log", "", "write structured logs to this file instead of stderr")

	return cmd
}

func runTarget(ctx context.Context, configPath string, execMode bool, logPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := openLog(logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	start, err := buildStartInfo(cfg)
	if err != nil {
		return fmt.Errorf("build start info: %w", err)
	}

	mode := dlvhost.ModeDebug
	if execMode {
		mode = dlvhost.ModeExec
	}

	session, err := dlvhost.Start(ctx, mode, start.Path, start.Args, start.WorkingDir, start.Env)
	if err != nil {
		return fmt.Errorf("start debug session: %w", err)
	}
	defer session.Stop()

	client := dlvhost.NewClient(session.Addr, log)
	defer client.Disconnect(false)

	r := runner.New(client, log, nil)
	run, runErr := r.RunCoverage(ctx, start, runner.Settings{Modules: cfg.Modules, Sources: cfg.Sources})

	if err := renderReport(run, cfg.Report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("coverage run: %w", runErr)
	}
	return nil
}

func buildStartInfo(cfg *config.Config) (*target.StartInfo, error) {
	opts := []target.Option{target.WithArgs(cfg.Target.Args...), target.WithEnv(cfg.Target.Env)}
	if cfg.Target.WorkingDir != "" {
		opts = append(opts, target.WithWorkingDir(cfg.Target.WorkingDir))
	}
	return target.New(cfg.Target.Path, opts...)
}

func renderReport(run *model.Run, rpt config.ReportConfig) error {
	renderer, err := report.New(report.Format(rpt.Format))
	if err != nil {
		return err
	}

	if rpt.OutputPath != "" {
		f, err := os.Create(rpt.OutputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderer.Render(f, run)
	}
	return renderer.Render(os.Stdout, run)
}

func openLog(path string) (logging.Sink, func() error, error) {
	if path == "" {
		return logging.New(os.Stderr), func() error { return nil }, nil
	}
	return logging.NewFile(path)
}
