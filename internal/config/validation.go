package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration for problems a typo would cause. It
// returns the first error found.
func (c *Config) Validate() error {
	if !strings.Contains(c.Server.Addr, ":") {
		return fmt.Errorf("server.addr %q is not a host:port address", c.Server.Addr)
	}

	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir must not be empty")
	}

	if d, err := time.ParseDuration(c.Refresh.Interval); err != nil {
		return fmt.Errorf("refresh.interval %q: %w", c.Refresh.Interval, err)
	} else if d < time.Minute {
		return fmt.Errorf("refresh.interval %q is below the 1m minimum", c.Refresh.Interval)
	}

	if repo := c.Content.Repository; repo != nil {
		if repo.URL == "" {
			return fmt.Errorf("content.repository.url must not be empty when a repository is configured")
		}
		if auth := repo.Auth; auth != nil {
			switch auth.Type {
			case AuthTypeNone:
			case AuthTypeToken:
				if auth.Token == "" {
					return fmt.Errorf("content.repository.auth: token auth requires a token")
				}
			case AuthTypeBasic:
				if auth.Username == "" || auth.Password == "" {
					return fmt.Errorf("content.repository.auth: basic auth requires username and password")
				}
			default:
				return fmt.Errorf("content.repository.auth.type %q is not supported (none, token, basic)", auth.Type)
			}
		}
	}

	if c.Events.Enabled && c.Events.NATSURL == "" {
		return fmt.Errorf("events.nats_url must be set when events are enabled")
	}

	return nil
}
