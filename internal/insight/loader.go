package insight

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/esgboard/internal/frontmatter"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
	"git.home.luguber.info/inful/esgboard/internal/render"
	"git.home.luguber.info/inful/esgboard/internal/sanitize"
)

const excerptRunes = 200

// Loader reads insight files from a content directory.
type Loader struct {
	dir      string
	renderer *render.Renderer
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string, r *render.Renderer) *Loader {
	if r == nil {
		r = render.New(nil)
	}
	return &Loader{dir: dir, renderer: r}
}

// Load walks the content directory and returns every parseable insight,
// sorted by source path. Files that cannot be read or whose frontmatter is
// broken are skipped with a warning; a missing content directory yields an
// empty slice, not an error.
func (l *Loader) Load(ctx context.Context) ([]Insight, error) {
	var insights []Insight

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == l.dir {
				return filepath.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		ins, err := l.loadFile(path)
		if err != nil {
			slog.Warn("Skipping unparseable insight file", logfields.File(path), logfields.Error(err))
			return nil
		}
		insights = append(insights, ins)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content directory %s: %w", l.dir, err)
	}

	sort.Slice(insights, func(i, j int) bool { return insights[i].SourcePath < insights[j].SourcePath })
	return insights, nil
}

func (l *Loader) loadFile(path string) (Insight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Insight{}, fmt.Errorf("read: %w", err)
	}

	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		return Insight{}, fmt.Errorf("frontmatter: %w", err)
	}

	var m meta
	if err := frontmatter.Decode(fm, &m); err != nil {
		return Insight{}, fmt.Errorf("frontmatter: %w", err)
	}

	rel, err := filepath.Rel(l.dir, path)
	if err != nil {
		rel = path
	}

	html := l.renderer.Render(string(body))

	ins := Insight{
		ID:         m.ID,
		Title:      m.Title,
		Category:   m.Category,
		Severity:   m.Severity,
		Tags:       m.Tags,
		Published:  m.Published == nil || *m.Published,
		SourcePath: rel,
		HTML:       html,
		Excerpt:    excerpt(sanitize.StripTags(html)),
	}

	if ins.ID == "" {
		// Stable across reloads so store upserts hit the same row.
		ins.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("esgboard:"+rel)).String()
	}
	if ins.Title == "" {
		ins.Title = titleFromPath(rel)
	}
	if ins.Severity == "" {
		ins.Severity = SeverityInfo
	}
	if info, err := os.Stat(path); err == nil {
		ins.UpdatedAt = info.ModTime().UTC()
	}

	return ins, nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return strings.TrimRight(string(runes[:excerptRunes]), " ") + "…"
}

func titleFromPath(rel string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	if base == "" {
		return rel
	}
	r, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToUpper(r)) + base[size:]
}
