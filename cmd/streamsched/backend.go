package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"streamsched/internal/announce"
	"streamsched/internal/api"
	"streamsched/internal/config"
	"streamsched/internal/configsvc"
	"streamsched/internal/ipc"
	"streamsched/internal/kvstore"
	"streamsched/internal/schedule"
	"streamsched/internal/tui"
)

// backend is where slot commands read and write. Both implementations keep
// the tui.Backend contract so the editor runs against either.
type backend interface {
	tui.Backend
	Snapshot() schedule.Snapshot
	Document(ctx context.Context) (json.RawMessage, error)
	Announce(ctx context.Context, template int, timestamps *bool) (announce.Message, error)
	Source() string
	// LoadWarning is non-nil when the stored snapshot was unreadable and
	// defaults are being shown instead.
	LoadWarning() error
	Close() error
}

// localBackend edits the snapshot database directly. It is used when no
// daemon answers.
type localBackend struct {
	*schedule.Store
	kv       *kvstore.Store
	docs     *configsvc.Service
	settings config.Announce
}

func openLocalBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*localBackend, error) {
	kv, err := kvstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	store := schedule.NewStore(kv, schedule.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("load slots: %w", err)
	}
	return &localBackend{
		Store:    store,
		kv:       kv,
		docs:     configsvc.New(cfg.Paths.ConfigFile, logger),
		settings: cfg.Announce,
	}, nil
}

func (b *localBackend) Source() string { return b.kv.Path() }

func (b *localBackend) Close() error { return b.kv.Close() }

func (b *localBackend) Document(ctx context.Context) (json.RawMessage, error) {
	return b.docs.LoadRaw(ctx)
}

func (b *localBackend) Announce(ctx context.Context, template int, timestamps *bool) (announce.Message, error) {
	doc, err := b.docs.Load(ctx)
	if err != nil {
		return announce.Message{}, fmt.Errorf("load config document: %w", err)
	}
	if template >= 0 {
		if template >= len(doc.Discord.Templates) {
			return announce.Message{}, fmt.Errorf("template %d out of range (have %d)", template, len(doc.Discord.Templates))
		}
		doc.Discord.CurrentTemplate = template
	}
	tpl, ok := doc.ActiveTemplate()
	if !ok {
		return announce.Message{}, fmt.Errorf("no discord templates configured")
	}
	opts, err := announce.OptionsFor(b.settings)
	if err != nil {
		return announce.Message{}, fmt.Errorf("announce timezone: %w", err)
	}
	if timestamps != nil {
		opts.UseTimestamps = timestamps
	}
	return announce.Render(doc, tpl, b.Snapshot(), opts), nil
}

// remoteBackend forwards to the daemon and keeps a cached copy of the
// collections for reads.
type remoteBackend struct {
	client *ipc.Client

	mu      sync.Mutex
	cache   schedule.Snapshot
	warning string
}

func newRemoteBackend(ctx context.Context, client *ipc.Client) (*remoteBackend, error) {
	b := &remoteBackend{client: client}
	if err := b.refresh(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *remoteBackend) refresh(ctx context.Context) error {
	resp, err := b.client.Slots(ctx)
	if err != nil {
		return fmt.Errorf("fetch slots: %w", err)
	}
	snap := make(schedule.Snapshot, len(resp.Collections))
	for name, slots := range resp.Collections {
		key, err := schedule.ParseKey(name)
		if err != nil {
			continue
		}
		snap[key] = toSchedule(slots)
	}
	b.mu.Lock()
	b.cache = snap
	b.warning = resp.LoadWarning
	b.mu.Unlock()
	return nil
}

// remoteSource is what remoteBackend.Source reports.
const remoteSource = "daemon"

func (b *remoteBackend) Source() string { return remoteSource }

func (b *remoteBackend) Close() error { return nil }

func (b *remoteBackend) LoadWarning() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.warning == "" {
		return nil
	}
	return errors.New(b.warning)
}

func (b *remoteBackend) Slots(key schedule.Key) []schedule.Slot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]schedule.Slot(nil), b.cache[key]...)
}

func (b *remoteBackend) Snapshot() schedule.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(schedule.Snapshot, len(b.cache))
	for key, slots := range b.cache {
		out[key] = append([]schedule.Slot(nil), slots...)
	}
	return out
}

func (b *remoteBackend) AddSlot(ctx context.Context, key schedule.Key) (schedule.Slot, error) {
	resp, err := b.client.AddSlot(ctx, key)
	if err != nil {
		return schedule.Slot{}, err
	}
	if err := b.refresh(ctx); err != nil {
		return schedule.Slot{}, err
	}
	return toScheduleSlot(resp.Slot), nil
}

func (b *remoteBackend) DeleteSlotByID(ctx context.Context, key schedule.Key, id string, confirm schedule.Confirmer) error {
	if len(b.Slots(key)) <= 1 {
		return schedule.ErrLastSlot
	}
	if confirm != nil && !confirm.Confirm(schedule.DeletePrompt) {
		return schedule.ErrDeleteDeclined
	}
	if err := b.client.DeleteSlot(ctx, key, id); err != nil {
		return err
	}
	return b.refresh(ctx)
}

func (b *remoteBackend) UpdateFieldByID(ctx context.Context, key schedule.Key, id string, field schedule.Field, value string) error {
	resp, err := b.client.UpdateField(ctx, key, id, field, value)
	if err != nil {
		return err
	}
	updated := toScheduleSlot(resp.Slot)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, slot := range b.cache[key] {
		if slot.ID == id {
			b.cache[key][i] = updated
		}
	}
	return nil
}

func (b *remoteBackend) Document(ctx context.Context) (json.RawMessage, error) {
	raw, err := b.client.Config(ctx)
	if err != nil {
		return configsvc.DefaultRaw(), err
	}
	return raw, nil
}

func (b *remoteBackend) Announce(ctx context.Context, template int, timestamps *bool) (announce.Message, error) {
	msg, err := b.client.Announce(ctx, template, timestamps)
	if err != nil {
		return announce.Message{}, err
	}
	return *msg, nil
}

func toSchedule(slots []api.Slot) []schedule.Slot {
	out := make([]schedule.Slot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toScheduleSlot(slot))
	}
	return out
}

func toScheduleSlot(slot api.Slot) schedule.Slot {
	return schedule.Slot{ID: slot.ID, Time: slot.Time, Title: slot.Title, Desc: slot.Desc}
}
