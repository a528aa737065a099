// Package insight loads the dashboard's markdown insight documents: AI-style
// narrative summaries that sit next to the metric widgets. Each file carries
// YAML frontmatter and a markdown body that is rendered through the safe
// pipeline at load time.
package insight

import (
	"time"
)

// Insight is one rendered insight document.
type Insight struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Severity   string    `json:"severity"`
	Tags       []string  `json:"tags,omitempty"`
	Published  bool      `json:"published"`
	SourcePath string    `json:"source_path"`
	HTML       string    `json:"html"`
	Excerpt    string    `json:"excerpt"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Severity values. Anything else in a file is kept verbatim; these are just
// the ones the dashboard styles.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// meta is the frontmatter schema of an insight file.
type meta struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Category  string   `yaml:"category"`
	Severity  string   `yaml:"severity"`
	Tags      []string `yaml:"tags"`
	Published *bool    `yaml:"published"`
}
