package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

// Run writes a starter configuration file.
func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	slog.Info("Configuration written", logfields.Path(root.Config))
	return nil
}
