package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/wmconf/internal/app"
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/host/memhost"
	"github.com/dshills/wmconf/internal/launch"
	"github.com/dshills/wmconf/internal/logging"
	"github.com/dshills/wmconf/internal/preview"
)

type previewFlags struct {
	exec       bool
	logFile    string
	leftWidth  int
	rightWidth int
}

func newPreviewCmd(g *globalFlags) *cobra.Command {
	f := &previewFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Try the bindings in the terminal",
		Long: `preview runs the configuration against an in-memory compositor.
Key presses go to the seat; the screen shows the active layer, the bound
chords, the status line and every command the configuration issued.

Commands are only printed unless --exec is given. Ctrl+C leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.Context(), g, f)
		},
	}
	cmd.Flags().BoolVar(&f.exec, "exec", false, "really start launched programs")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().IntVar(&f.leftWidth, "left-width", 1920, "width of the simulated left output")
	cmd.Flags().IntVar(&f.rightWidth, "right-width", 2560, "width of the simulated right output")
	return cmd
}

func runPreview(ctx context.Context, g *globalFlags, f *previewFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}

	log := logging.Null
	if f.logFile != "" {
		w, err := openLog(f.logFile)
		if err != nil {
			return err
		}
		defer w.Close()
		if log, err = logger(cfg, w); err != nil {
			return err
		}
	}

	var (
		launcher host.Launcher
		commands func() []host.Command
	)
	if f.exec {
		launcher = launch.NewExec(launch.WithLogger(log))
	} else {
		dry := launch.NewDryRun(log)
		launcher, commands = dry, dry.Commands
	}

	h := memhost.New(memhost.WithLauncher(launcher))
	if cfg.Seat.Name != memhost.DefaultSeat {
		h.AddSeat(cfg.Seat.Name)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	p := preview.New(screen, h, preview.WithLogger(log), preview.WithCommands(commands))

	var fatal error
	s, err := app.Configure(h, cfg,
		app.WithLogger(log),
		app.WithExecutor(p.Post),
		app.WithFatalHandler(func(err error) {
			log.Error("fatal: %v", err)
			fatal = err
			h.Quit()
		}),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	h.Connect(cfg.Outputs.Left, f.leftWidth)
	h.Connect(cfg.Outputs.Right, f.rightWidth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := p.Run(ctx, s); err != nil {
		return err
	}
	return fatal
}

