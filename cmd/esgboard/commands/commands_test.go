package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esgboard/internal/config"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestCLIDefaults(t *testing.T) {
	cli, ctx := parseCLI(t, "serve")
	assert.Equal(t, "esgboard.yaml", cli.Config)
	assert.False(t, cli.Verbose)
	assert.Equal(t, "serve", ctx.Command())
}

func TestCLICommandSelection(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"serve"}, "serve"},
		{[]string{"render", "a.md"}, "render <file>"},
		{[]string{"render"}, "render"},
		{[]string{"check", "./content"}, "check <path>"},
		{[]string{"sync"}, "sync"},
		{[]string{"init", "--force"}, "init"},
	}

	for _, tt := range tests {
		_, ctx := parseCLI(t, tt.args...)
		assert.Equal(t, tt.want, ctx.Command())
	}
}

func TestInitThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esgboard.yaml")

	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: path}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Server.Addr)

	// Without --force a second init must refuse to overwrite.
	require.Error(t, cmd.Run(&Global{}, &CLI{Config: path}))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, &CLI{Config: path}))
}

func TestCheckCmdReportsUnsafeContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte(`---
title: Bad
---
[x](javascript:alert(1))
`), 0o644))

	cmd := &CheckCmd{Path: dir}
	err := cmd.Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errors")
}

func TestCheckCmdPassesCleanContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.md"), []byte(`---
title: Fine
---
All good here.
`), 0o644))

	cmd := &CheckCmd{Path: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))
}
