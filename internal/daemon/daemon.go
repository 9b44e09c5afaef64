package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"streamsched/internal/api"
	"streamsched/internal/config"
	"streamsched/internal/configsvc"
	"streamsched/internal/kvstore"
	"streamsched/internal/logging"
	"streamsched/internal/preflight"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

// Daemon owns the slot store and serves it over HTTP.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	kv     *kvstore.Store
	store  *schedule.Store
	board  *view.Board
	docs   *configsvc.Service
	hub    *api.Hub
	server *api.Server
	http   *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information. SlotsSavedAt is nil until
// the snapshot has been written once.
type Status struct {
	Running        bool       `json:"running"`
	PID            int        `json:"pid"`
	DatabasePath   string     `json:"databasePath"`
	LockFilePath   string     `json:"lockFilePath"`
	ConfigDocument string     `json:"configDocument"`
	APIAddress     string     `json:"apiAddress,omitempty"`
	OverlayClients int        `json:"overlayClients"`
	Mounted        []string   `json:"mounted"`
	LoadWarning    string     `json:"loadWarning,omitempty"`
	SlotsSavedAt   *time.Time `json:"slotsSavedAt,omitempty"`
}

// New constructs a daemon over an open snapshot database and loads the slot
// state from it.
func New(ctx context.Context, cfg *config.Config, kv *kvstore.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || kv == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	store := schedule.NewStore(kv, schedule.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	board := view.NewBoard(view.ContainersForScope("full")...)
	board.RenderAll(store.Snapshot())

	hub := api.NewHub(logger)
	store.Observe(&view.BoardObserver{Source: store, Board: board, OnPanel: hub.PublishPanel})

	docs := configsvc.New(cfg.Paths.ConfigFile, logger)
	server, err := api.NewServer(api.Options{
		Store:       store,
		Board:       board,
		Config:      docs,
		Hub:         hub,
		Logger:      logger,
		Token:       cfg.Paths.APIToken,
		RateLimit:   cfg.Overlay.RateLimit,
		ExportScope: cfg.Overlay.ExportScope,
		Announce:    cfg.Announce,
	})
	if err != nil {
		return nil, fmt.Errorf("build api server: %w", err)
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		kv:       kv,
		store:    store,
		board:    board,
		docs:     docs,
		hub:      hub,
		server:   server,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start runs preflight checks, acquires the daemon lock, and starts the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if failed := preflight.Failed(preflight.RunAll(ctx, d.cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, r := range failed {
			details = append(details, r.Name+": "+r.Detail)
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another streamsched daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.server.SyncScope(d.ctx)

	d.http = newAPIServer(d.cfg.Paths.APIBind, d.server.Handler(), d.logger)
	if err := d.http.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		d.http = nil
		return fmt.Errorf("start api: %w", err)
	}

	d.running.Store(true)
	if warn := d.store.LoadWarning(); warn != nil {
		d.logger.Warn("slot snapshot ignored; defaults in use", logging.Error(warn))
	}
	d.logger.Info("streamsched daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.http.addr()),
		logging.Bool("token_required", d.cfg.Paths.APIToken != ""),
		logging.Bool("rate_limited", d.cfg.Overlay.RateLimit > 0),
	)
	return nil
}

// Stop shuts the API down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.http.stop()
	d.hub.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("streamsched daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.kv != nil {
		return d.kv.Close()
	}
	return nil
}

// Store exposes the slot store.
func (d *Daemon) Store() *schedule.Store { return d.store }

// Addr returns the API listen address once started.
func (d *Daemon) Addr() string {
	if d.http == nil {
		return ""
	}
	return d.http.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	mounted := make([]string, 0, 4)
	for _, key := range schedule.Keys() {
		if d.board.Mounted(key) {
			mounted = append(mounted, view.ContainerID(key))
		}
	}
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		DatabasePath:   d.kv.Path(),
		LockFilePath:   d.lockPath,
		ConfigDocument: d.docs.Path(),
		APIAddress:     d.Addr(),
		OverlayClients: d.hub.Clients(),
		Mounted:        mounted,
	}
	if warn := d.store.LoadWarning(); warn != nil {
		status.LoadWarning = warn.Error()
	}
	if saved, ok, err := d.kv.UpdatedAt(ctx, schedule.StorageKey); err != nil {
		d.logger.Warn("snapshot timestamp unavailable", logging.Error(err))
	} else if ok {
		status.SlotsSavedAt = &saved
	}
	return status
}
