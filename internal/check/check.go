// Package check lints insight content before it reaches the renderer. It
// flags unsafe link destinations, missing metadata and unparseable files so
// authors can fix them instead of silently losing content at load time.
package check

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/esgboard/internal/frontmatter"
	"git.home.luguber.info/inful/esgboard/internal/markdown"
)

// Severity indicates the importance level of a content issue.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in a content file.
type Issue struct {
	Path     string
	Severity Severity
	Rule     string
	Message  string
}

// Result contains all issues found during a content check.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors reports whether any error-level issue exists.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Rule identifiers reported in issues.
const (
	RuleFrontmatterParse = "frontmatter-parse"
	RuleMissingTitle     = "frontmatter-title"
	RuleUnsafeLink       = "unsafe-link-destination"
	RuleEmptyLinkText    = "empty-link-text"
)

// Run checks every markdown file under dir and returns the aggregate result.
func Run(ctx context.Context, dir string) (*Result, error) {
	result := &Result{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		result.FilesTotal++
		issues, err := checkFile(path)
		if err != nil {
			return err
		}
		result.Issues = append(result.Issues, issues...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content check failed: %w", err)
	}

	sort.Slice(result.Issues, func(i, j int) bool {
		if result.Issues[i].Path != result.Issues[j].Path {
			return result.Issues[i].Path < result.Issues[j].Path
		}
		return result.Issues[i].Rule < result.Issues[j].Rule
	})
	return result, nil
}

func checkFile(path string) ([]Issue, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var issues []Issue

	fm, body, hadFrontmatter, err := frontmatter.Split(content)
	if err != nil {
		issues = append(issues, Issue{
			Path:     path,
			Severity: SeverityError,
			Rule:     RuleFrontmatterParse,
			Message:  err.Error(),
		})
		return issues, nil
	}

	if hadFrontmatter {
		fields, err := frontmatter.Fields(fm)
		if err != nil {
			issues = append(issues, Issue{
				Path:     path,
				Severity: SeverityError,
				Rule:     RuleFrontmatterParse,
				Message:  err.Error(),
			})
			return issues, nil
		}
		if title, ok := fields["title"].(string); !ok || strings.TrimSpace(title) == "" {
			issues = append(issues, Issue{
				Path:     path,
				Severity: SeverityWarning,
				Rule:     RuleMissingTitle,
				Message:  "frontmatter has no title; one will be derived from the filename",
			})
		}
	} else {
		issues = append(issues, Issue{
			Path:     path,
			Severity: SeverityWarning,
			Rule:     RuleMissingTitle,
			Message:  "file has no frontmatter; title will be derived from the filename",
		})
	}

	issues = append(issues, checkLinks(path, body)...)
	return issues, nil
}

// checkLinks flags link destinations the sanitizer would neutralize. Authors
// see a lint error instead of a silently rewritten href.
func checkLinks(path string, body []byte) []Issue {
	links, err := markdown.ExtractLinks(body)
	if err != nil {
		return []Issue{{
			Path:     path,
			Severity: SeverityError,
			Rule:     RuleUnsafeLink,
			Message:  fmt.Sprintf("failed to parse links: %v", err),
		}}
	}

	var issues []Issue
	for _, link := range links {
		dest := strings.ToLower(strings.TrimSpace(link.Destination))
		if strings.HasPrefix(dest, "javascript:") || strings.HasPrefix(dest, "data:") {
			issues = append(issues, Issue{
				Path:     path,
				Severity: SeverityError,
				Rule:     RuleUnsafeLink,
				Message:  fmt.Sprintf("link destination %q uses a blocked scheme", link.Destination),
			})
		}
		if link.Kind == markdown.LinkKindInline && strings.TrimSpace(link.Text) == "" {
			issues = append(issues, Issue{
				Path:     path,
				Severity: SeverityWarning,
				Rule:     RuleEmptyLinkText,
				Message:  fmt.Sprintf("link to %q has no visible text", link.Destination),
			})
		}
	}
	return issues
}

// Format renders the result for terminal output.
func Format(r *Result) string {
	var b strings.Builder
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "%s: %s: %s: %s\n", issue.Severity, issue.Path, issue.Rule, issue.Message)
	}
	errors := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			errors++
		}
	}
	fmt.Fprintf(&b, "%d files checked, %d issues (%d errors)\n", r.FilesTotal, len(r.Issues), errors)
	return b.String()
}
