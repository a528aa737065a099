package daemon

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "carbon.md"), []byte(`---
title: Carbon Trajectory
category: carbon
---
# Carbon

Emissions are **trending down**.
`), 0o644))

	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Content.Dir = dir
	cfg.Content.Watch = false
	cfg.Database.Path = ":memory:"
	return cfg
}

func TestRefreshLoadsInsightsAndDataset(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)
	defer d.close()

	require.NoError(t, d.refresh(context.Background(), "test"))

	insights, err := d.store.ListInsights(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "Carbon Trajectory", insights[0].Title)
	assert.Contains(t, insights[0].HTML, "<strong>trending down</strong>")

	ds := d.Dataset()
	require.NotNil(t, ds)
	assert.Len(t, ds.Carbon, 12)

	snap, err := d.store.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Carbon, snap.Carbon)
}

// capturePublisher records every published event for assertions.
type capturePublisher struct {
	events []events.ContentEvent
}

func (c *capturePublisher) Publish(ctx context.Context, event events.ContentEvent) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) Close() {}

func TestRefreshPublishesReloadAndSnapshotEvents(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)
	defer d.close()

	pub := &capturePublisher{}
	d.publisher = pub

	require.NoError(t, d.refresh(context.Background(), "test"))

	types := make([]string, 0, len(pub.events))
	for _, e := range pub.events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, events.TypeSnapshotSaved)
	assert.Contains(t, types, events.TypeContentReloaded)
	for _, e := range pub.events {
		assert.Equal(t, 1, e.Insights)
		assert.Equal(t, "test", e.Source)
	}
}

func TestRefreshPrunesRemovedFiles(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)
	defer d.close()

	extra := filepath.Join(cfg.Content.Dir, "extra.md")
	require.NoError(t, os.WriteFile(extra, []byte("temporary note\n"), 0o644))
	require.NoError(t, d.refresh(context.Background(), "test"))

	insights, err := d.store.ListInsights(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, insights, 2)

	require.NoError(t, os.Remove(extra))
	require.NoError(t, d.refresh(context.Background(), "test"))

	insights, err = d.store.ListInsights(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, insights, 1)
}

func TestRunServesUntilCanceled(t *testing.T) {
	cfg := testConfig(t)

	// Pick a free port up front so the test does not race the listener.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.Server.Addr = ln.Addr().String()
	require.NoError(t, ln.Close())

	d, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down after cancel")
	}
}
