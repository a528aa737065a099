package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/esgboard/internal/frontmatter"
	"git.home.luguber.info/inful/esgboard/internal/render"
)

// RenderCmd implements the 'render' command. It runs a single markdown file
// (or stdin) through the full parse and sanitize pipeline and prints the HTML.
type RenderCmd struct {
	File string `arg:"" optional:"" help:"Markdown file to render (defaults to stdin)"`
	Raw  bool   `help:"Treat input as markdown only, do not strip frontmatter"`
}

// Run renders the input and writes HTML to stdout.
func (r *RenderCmd) Run(_ *Global, _ *CLI) error {
	var (
		content []byte
		err     error
	)
	if r.File == "" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(r.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	body := content
	if !r.Raw {
		_, body, _, err = frontmatter.Split(content)
		if err != nil {
			return fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	fmt.Println(render.Markdown(string(body)))
	return nil
}
