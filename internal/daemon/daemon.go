// Package daemon wires the dashboard service together: content loading,
// persistence, the HTTP API, scheduled refreshes and optional git sync,
// filesystem watching and event publishing.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/esg"
	"git.home.luguber.info/inful/esgboard/internal/events"
	"git.home.luguber.info/inful/esgboard/internal/gitsync"
	"git.home.luguber.info/inful/esgboard/internal/insight"
	"git.home.luguber.info/inful/esgboard/internal/logfields"
	"git.home.luguber.info/inful/esgboard/internal/metrics"
	"git.home.luguber.info/inful/esgboard/internal/render"
	"git.home.luguber.info/inful/esgboard/internal/server"
	"git.home.luguber.info/inful/esgboard/internal/store"
	"git.home.luguber.info/inful/esgboard/internal/watcher"
)

// Daemon runs the dashboard service until its context is canceled.
type Daemon struct {
	cfg       *config.Config
	registry  *prom.Registry
	recorder  metrics.Recorder
	renderer  *render.Renderer
	store     *store.Store
	loader    *insight.Loader
	syncer    *gitsync.Syncer
	watcher   *watcher.Watcher
	publisher events.Publisher
	scheduler gocron.Scheduler
	server    *server.Server

	mu      sync.RWMutex
	dataset *esg.Dataset
}

// New assembles the daemon from configuration. Nothing is started yet; call
// Run.
func New(cfg *config.Config) (*Daemon, error) {
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	renderer := render.New(recorder)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Daemon{
		cfg:       cfg,
		registry:  registry,
		recorder:  recorder,
		renderer:  renderer,
		store:     st,
		loader:    insight.NewLoader(cfg.Content.Dir, renderer),
		publisher: events.NoopPublisher{},
		dataset:   esg.Mock(cfg.Dashboard.Seed, time.Now()),
	}

	if repo := cfg.Content.Repository; repo != nil {
		d.syncer = gitsync.New(cfg.Content.Dir, *repo)
	}

	if cfg.Events.Enabled {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to set up event publisher: %w", err)
		}
		d.publisher = pub
	}

	d.server = server.New(cfg, server.Options{
		Renderer: renderer,
		Insights: st,
		Dataset:  d.Dataset,
		Registry: registry,
	})

	return d, nil
}

// Dataset returns the current dashboard dataset.
func (d *Daemon) Dataset() *esg.Dataset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dataset
}

// Run starts all components and blocks until ctx is canceled or the HTTP
// server fails.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.close()

	if d.syncer != nil {
		if _, err := d.syncer.Sync(ctx); err != nil {
			// A dead remote must not keep the dashboard down; serve
			// whatever content is already on disk.
			slog.Error("Initial content sync failed", logfields.Error(err))
		}
	}

	if err := d.refresh(ctx, "startup"); err != nil {
		return fmt.Errorf("initial content load failed: %w", err)
	}

	if d.cfg.Content.Watch {
		w, err := watcher.New(d.cfg.Content.Dir, func(ctx context.Context) error {
			return d.refresh(ctx, "watcher")
		})
		if err != nil {
			return fmt.Errorf("failed to create content watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start content watcher: %w", err)
		}
		d.watcher = w
	}

	if err := d.startScheduler(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", logfields.Addr(d.cfg.Server.Addr))
		if err := d.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", logfields.Error(err))
	}
	return nil
}

func (d *Daemon) startScheduler(ctx context.Context) error {
	interval, err := d.cfg.Refresh.IntervalDuration()
	if err != nil {
		return fmt.Errorf("invalid refresh interval: %w", err)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if d.syncer != nil {
				if _, err := d.syncer.Sync(ctx); err != nil {
					slog.Error("Scheduled content sync failed", logfields.Error(err))
				}
			}
			if err := d.refresh(ctx, "scheduler"); err != nil {
				slog.Error("Scheduled refresh failed", logfields.Error(err))
			}
		}),
		gocron.WithName("content-refresh"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule content refresh: %w", err)
	}

	slog.Info("Starting scheduler", slog.Duration("interval", interval))
	s.Start()
	d.scheduler = s
	return nil
}

// refresh reloads insights from disk into the store, regenerates the
// dashboard dataset, snapshots it and publishes a reload event.
func (d *Daemon) refresh(ctx context.Context, source string) error {
	start := time.Now()

	insights, err := d.loader.Load(ctx)
	if err != nil {
		d.recorder.IncContentReload(metrics.ReloadFailed)
		return fmt.Errorf("failed to load insights: %w", err)
	}

	keep := make([]string, 0, len(insights))
	for _, ins := range insights {
		if err := d.store.UpsertInsight(ctx, ins); err != nil {
			d.recorder.IncContentReload(metrics.ReloadFailed)
			return fmt.Errorf("failed to store insight %s: %w", ins.ID, err)
		}
		keep = append(keep, ins.ID)
	}
	pruned, err := d.store.PruneInsights(ctx, keep)
	if err != nil {
		d.recorder.IncContentReload(metrics.ReloadFailed)
		return fmt.Errorf("failed to prune stale insights: %w", err)
	}

	ds := esg.Mock(d.cfg.Dashboard.Seed, time.Now())
	d.mu.Lock()
	d.dataset = ds
	d.mu.Unlock()

	if err := d.store.SaveSnapshot(ctx, ds); err != nil {
		slog.Warn("Failed to save dataset snapshot", logfields.Error(err))
	} else if err := d.publisher.Publish(ctx, events.ContentEvent{
		Type:     events.TypeSnapshotSaved,
		Insights: len(insights),
		Source:   source,
	}); err != nil {
		slog.Warn("Failed to publish snapshot event", logfields.Error(err))
	}

	d.recorder.IncContentReload(metrics.ReloadOK)
	d.recorder.SetInsightCount(len(insights))

	if err := d.publisher.Publish(ctx, events.ContentEvent{
		Type:     events.TypeContentReloaded,
		Insights: len(insights),
		Source:   source,
	}); err != nil {
		slog.Warn("Failed to publish reload event", logfields.Error(err))
	}

	slog.Info("Content refreshed",
		logfields.Count(len(insights)),
		slog.Int("pruned", pruned),
		slog.String("source", source),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func (d *Daemon) close() {
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			slog.Error("Failed to stop content watcher", logfields.Error(err))
		}
	}
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil {
			slog.Error("Failed to stop scheduler", logfields.Error(err))
		}
	}
	d.publisher.Close()
	if err := d.store.Close(); err != nil {
		slog.Error("Failed to close database", logfields.Error(err))
	}
}
