// Package main is the goblocks entry point: a status-line generator for the
// i3bar/swaybar JSON protocol.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"goblocks/blocks"
	"goblocks/config"
	"goblocks/core"
	"goblocks/theme"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:          "goblocks",
		Short:        "status-line generator for i3bar/swaybar",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return root
}

func run(configPath string, debug bool) error {
	log := newLogger(debug)
	defer log.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		// Defaults still apply; a missing config file is not fatal.
		log.Warn("config", zap.Error(err))
	}
	theme.Apply(cfg.Theme.Warn, cfg.Theme.Danger)

	interval := time.Second / time.Duration(cfg.TickHz)
	runner := core.New(os.Stdout, os.Stdin, interval, log)

	regs := blocks.Build(cfg)
	if len(regs) == 0 {
		return fmt.Errorf("no blocks enabled")
	}
	for _, reg := range regs {
		runner.Register(reg.Block, reg.Signals...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.Run(ctx)
}

// newLogger builds the stderr logger; stdout belongs to the bar protocol.
func newLogger(debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	))
}
