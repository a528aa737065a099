package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/esgboard/internal/daemon"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Override the listen address from the configuration"`
}

// Run starts the dashboard service and blocks until SIGINT/SIGTERM.
func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Starting esgboard", logfields.Addr(cfg.Server.Addr), logfields.Path(cfg.Content.Dir))
	return d.Run(ctx)
}
