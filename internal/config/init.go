package config

import (
	"fmt"
	"os"
)

const starterConfig = `# esgboard configuration
server:
  addr: ":8080"

dashboard:
  title: "ESG Monitoring Dashboard"
  seed: 42

content:
  dir: "./content"
  watch: true
  # repository:
  #   url: https://git.example.com/org/esg-content.git
  #   branch: main
  #   auth:
  #     type: token
  #     token: ${ESGBOARD_CONTENT_TOKEN}

database:
  path: "./esgboard.db"

refresh:
  interval: 15m

events:
  enabled: false
  nats_url: nats://127.0.0.1:4222
  subject: esgboard.content
`

// Init writes a starter configuration file. It refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
