package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/esgboard/internal/gitsync"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct{}

// Run clones or updates the configured content repository once.
func (s *SyncCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Content.Repository == nil {
		return fmt.Errorf("no content.repository configured")
	}

	syncer := gitsync.New(cfg.Content.Dir, *cfg.Content.Repository)
	changed, err := syncer.Sync(context.Background())
	if err != nil {
		return err
	}

	if changed {
		slog.Info("Content updated", logfields.Path(cfg.Content.Dir))
	} else {
		slog.Info("Content already up to date", logfields.Path(cfg.Content.Dir))
	}
	return nil
}
