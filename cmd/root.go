package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aschey/stopwatch/internal"
	"github.com/aschey/stopwatch/internal/config"
	"github.com/aschey/stopwatch/internal/driver"
	"github.com/aschey/stopwatch/internal/stopwatch"
	"github.com/aschey/stopwatch/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var title1 = "█▀ ▀█▀ █▀█ █▀█ █░█░█ ▄▀█ ▀█▀ █▀▀ █░█"
var title2 = "▄█ ░█░ █▄█ █▀▀ ▀▄▀▄▀ █▀█ ░█░ █▄▄ █▀█"

var title = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	PaddingLeft(1).
	PaddingRight(1).
	Render(title1 + "\n" + title2)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "stopwatch",
	Short:         "Terminal stopwatch with lap tracking",
	Long:          title,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := config.NewLoader(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		return runApp(cmd.Context(), appOptions(loader, cfg)...)
	},
}

func appOptions(loader *config.Loader, cfg config.Config) []fx.Option {
	return []fx.Option{
		fx.Supply(loader, cfg),
		fx.Provide(NewLogger),
		fx.Provide(stopwatch.NewSystemClock),
		fx.Provide(stopwatch.New),
		fx.Provide(newDriver),
		fx.Invoke(register),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	}
}

func runApp(ctx context.Context, opts ...fx.Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	sig := <-app.Wait()

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("stopwatch exited with code %d", sig.ExitCode)
	}
	return nil
}

func newDriver(sw *stopwatch.Stopwatch, clock stopwatch.Clock, logger *zap.Logger, cfg config.Config) *driver.Driver {
	return driver.New(sw, clock, logger, driver.WithInterval(cfg.Interval))
}

func register(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, logger *zap.Logger,
	cfg config.Config, loader *config.Loader, d *driver.Driver) {
	ctx, cancel := context.WithCancel(context.Background())
	lifecycle.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				go d.Run(ctx)

				loader.Watch(func(newCfg config.Config, err error) {
					if err != nil {
						logger.Warn("Ignoring invalid config change", zap.Error(err))
						return
					}
					if err := d.SetInterval(ctx, newCfg.Interval); err != nil {
						logger.Warn("Failed to apply interval", zap.Error(err))
					}
				})

				go func() {
					exitCode := 0
					if err := ui.Run(ctx, d, d.Snapshots(), cfg.AltScreen); err != nil {
						logger.Error("UI exited", zap.Error(err))
						exitCode = 1
					}
					if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
						logger.Error("Shutdown failed", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				<-d.Done()
				_ = logger.Sync()
				return nil
			},
		},
	)
}

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	fullpath := cfg.Log.File
	if fullpath == "" {
		dir, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("find executable: %w", err)
		}
		fullpath = filepath.Join(filepath.Dir(dir), "stopwatch.log")
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{fullpath}
	zapCfg.ErrorOutputPaths = []string{fullpath}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	usageFunc := rootCmd.UsageFunc()
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return internal.FormatUsage(c, usageFunc, c.OutOrStdout())
	})

	rootCmd.SetHelpFunc(func(c *cobra.Command, a []string) {
		internal.FormatHelp(c)
	})

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(formatCmd)
}
