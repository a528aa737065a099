package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/esgboard/internal/check"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Path string `arg:"" optional:"" help:"Content directory to check (defaults to content.dir from the configuration)"`
}

// Run lints the content directory and exits non-zero on errors.
func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	path := c.Path
	if path == "" {
		cfg, err := loadConfig(root)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		path = cfg.Content.Dir
	}

	result, err := check.Run(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, check.Format(result))
	if result.HasErrors() {
		return fmt.Errorf("content check found errors")
	}
	return nil
}
