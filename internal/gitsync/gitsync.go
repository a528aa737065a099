// Package gitsync keeps the content directory in sync with a remote git
// repository holding the markdown sources.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
	"git.home.luguber.info/inful/esgboard/internal/retry"
)

// Syncer clones or updates the configured content repository.
type Syncer struct {
	dir    string
	repo   config.RepositoryConfig
	policy retry.Policy
}

// New creates a syncer that materializes repo into dir.
func New(dir string, repo config.RepositoryConfig) *Syncer {
	return &Syncer{dir: dir, repo: repo, policy: retry.DefaultPolicy()}
}

// Sync clones the repository if dir is not yet a checkout, otherwise pulls.
// It returns true when the checkout changed. Transient network failures are
// retried with backoff.
func (s *Syncer) Sync(ctx context.Context) (bool, error) {
	var changed bool
	err := retry.Do(ctx, s.policy, isTransient, func() error {
		var err error
		changed, err = s.syncOnce(ctx)
		return err
	})
	return changed, err
}

func (s *Syncer) syncOnce(ctx context.Context) (bool, error) {
	if _, err := os.Stat(filepath.Join(s.dir, ".git")); err != nil {
		if err := s.clone(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.pull(ctx)
}

// isTransient reports whether the sync failure is worth retrying. Auth and
// missing-repository failures are permanent.
func isTransient(err error) bool {
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "timeout") ||
		strings.Contains(l, "connection refused") ||
		strings.Contains(l, "temporary")
}

func (s *Syncer) clone(ctx context.Context) error {
	slog.Debug("Cloning content repository",
		slog.String("url", s.repo.URL),
		slog.String("branch", s.repo.Branch),
		logfields.Path(s.dir))

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{URL: s.repo.URL}
	if s.repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(s.repo.Auth)
	if err != nil {
		return fmt.Errorf("failed to setup authentication: %w", err)
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, s.dir, false, opts)
	if err != nil {
		return classifySyncError("clone", s.repo.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Content repository cloned",
			logfields.Repository(s.repo.URL),
			slog.String("commit", shortHash(ref)),
			logfields.Path(s.dir))
	} else {
		slog.Info("Content repository cloned", logfields.Repository(s.repo.URL), logfields.Path(s.dir))
	}
	return nil
}

func (s *Syncer) pull(ctx context.Context) (bool, error) {
	repository, err := git.PlainOpen(s.dir)
	if err != nil {
		return false, fmt.Errorf("failed to open content checkout: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if s.repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(s.repo.Auth)
	if err != nil {
		return false, fmt.Errorf("failed to setup authentication: %w", err)
	}
	opts.Auth = auth

	err = wt.PullContext(ctx, opts)
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Debug("Content repository already up to date", logfields.Repository(s.repo.URL))
		return false, nil
	case err != nil:
		return false, classifySyncError("pull", s.repo.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Content repository updated",
			logfields.Repository(s.repo.URL),
			slog.String("commit", shortHash(ref)))
	}
	return true, nil
}

// authMethod maps the configured auth block onto a go-git transport method.
// Token auth rides over HTTP basic auth with the token as password, which is
// what Gitea, GitLab and GitHub all accept.
func authMethod(a *config.AuthConfig) (transport.AuthMethod, error) {
	if a == nil || a.Type == "" || a.Type == config.AuthTypeNone {
		return nil, nil
	}
	switch a.Type {
	case config.AuthTypeToken:
		if a.Token == "" {
			return nil, fmt.Errorf("token auth requires a token")
		}
		username := a.Username
		if username == "" {
			username = "git"
		}
		return &http.BasicAuth{Username: username, Password: a.Token}, nil
	case config.AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("basic auth requires username and password")
		}
		return &http.BasicAuth{Username: a.Username, Password: a.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", a.Type)
	}
}

// classifySyncError turns common go-git failure strings into stable errors.
func classifySyncError(op, url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "invalid username or password"):
		return fmt.Errorf("%s of %s failed: authentication rejected: %w", op, url, err)
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return fmt.Errorf("%s of %s failed: repository not found: %w", op, url, err)
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		return fmt.Errorf("%s of %s failed: network timeout: %w", op, url, err)
	}
	return fmt.Errorf("failed to %s repository %s: %w", op, url, err)
}

func shortHash(ref *plumbing.Reference) string {
	h := ref.Hash().String()
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
