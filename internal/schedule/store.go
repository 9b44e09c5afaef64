package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"streamsched/internal/logging"
)

// Persister stores opaque blobs under string keys.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Confirmer asks the user to approve a destructive change.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves every prompt. Non-interactive callers that already
// collected consent use it.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// DeletePrompt is shown to the Confirmer before a slot is removed.
const DeletePrompt = "Are you sure you want to delete this stream slot?"

// Observer is told which views must be re-rendered after a change.
// Calls happen after the store lock is released, so observers may read the
// store.
type Observer interface {
	DisplayChanged(key Key)
	EditorChanged(key Key)
}

// Store owns the four slot collections.
type Store struct {
	mu          sync.Mutex
	persister   Persister
	logger      *slog.Logger
	newID       func() string
	collections map[Key][]Slot
	observers   []Observer
	loadWarning error
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator used for slot IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// NewStore builds a store seeded with the default collections. Call Load to
// replace them with the persisted snapshot.
func NewStore(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "slot-store")
	s.collections = s.withIDs(DefaultCollections())
	return s
}

// Observe registers an observer.
func (s *Store) Observe(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Load replaces the state with the persisted snapshot when one exists and
// parses. A snapshot that cannot be parsed is logged, recorded as the load
// warning, and otherwise ignored. Only storage read failures are returned.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	data, ok, err := s.persister.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		s.logger.Debug("no persisted snapshot; keeping defaults")
		return nil
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Error("persisted snapshot unreadable; keeping defaults", logging.Error(err))
		s.mu.Lock()
		s.loadWarning = err
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.collections = s.withIDs(snap)
	s.loadWarning = nil
	s.mu.Unlock()
	s.logger.Info("snapshot loaded", logging.Int("bytes", len(data)))
	return nil
}

// LoadWarning returns the reason the last Load fell back to defaults, or nil.
func (s *Store) LoadWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadWarning
}

// Save writes the full snapshot and refreshes every display.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify(nil)
	return err
}

// Slots returns a copy of the collection for key.
func (s *Store) Slots(key Key) []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlots(s.collections[key])
}

// Snapshot returns a deep copy of all four collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(Snapshot, len(s.collections))
	for key, slots := range s.collections {
		snap[key] = cloneSlots(slots)
	}
	return snap
}

// IndexOf resolves a stable slot ID to its current position.
func (s *Store) IndexOf(key Key, id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.collections[key], id)
}

// AddSlot appends a slot whose time follows the last slot of the collection.
func (s *Store) AddSlot(ctx context.Context, key Key) (Slot, error) {
	if !key.Valid() {
		return Slot{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	s.mu.Lock()
	slots := s.collections[key]
	slot := Slot{
		ID:    s.newID(),
		Time:  NextSlotTime(slots),
		Title: NewSlotTitle,
		Desc:  NewSlotDesc,
	}
	s.collections[key] = append(slots, slot)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("slot added",
		logging.String(logging.FieldCollection, string(key)),
		logging.String(logging.FieldSlotID, slot.ID),
		logging.String("time", slot.Time),
	)
	s.notify(&key)
	return slot, err
}

// DeleteSlot removes the slot at index after confirmation. The last slot of
// a collection is never removed.
func (s *Store) DeleteSlot(ctx context.Context, key Key, index int, confirm Confirmer) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	s.mu.Lock()
	count := len(s.collections[key])
	s.mu.Unlock()

	if count <= 1 {
		return ErrLastSlot
	}
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %s[%d]", ErrSlotNotFound, key, index)
	}
	if confirm != nil && !confirm.Confirm(DeletePrompt) {
		return ErrDeleteDeclined
	}

	s.mu.Lock()
	slots := s.collections[key]
	// Re-check: the collection may have changed while the confirmer ran.
	if len(slots) <= 1 {
		s.mu.Unlock()
		return ErrLastSlot
	}
	if index >= len(slots) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s[%d]", ErrSlotNotFound, key, index)
	}
	removed := slots[index]
	next := make([]Slot, 0, len(slots)-1)
	next = append(next, slots[:index]...)
	next = append(next, slots[index+1:]...)
	s.collections[key] = next
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("slot deleted",
		logging.String(logging.FieldCollection, string(key)),
		logging.String(logging.FieldSlotID, removed.ID),
	)
	s.notify(&key)
	return err
}

// DeleteSlotByID resolves id and deletes that slot.
func (s *Store) DeleteSlotByID(ctx context.Context, key Key, id string, confirm Confirmer) error {
	index, ok := s.IndexOf(key, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrSlotNotFound, key, id)
	}
	return s.DeleteSlot(ctx, key, index, confirm)
}

// UpdateField sets one field of the slot at index. Only displays are
// refreshed; editors keep their inputs.
func (s *Store) UpdateField(ctx context.Context, key Key, index int, field Field, value string) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	s.mu.Lock()
	slots := s.collections[key]
	if index < 0 || index >= len(slots) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s[%d]", ErrSlotNotFound, key, index)
	}
	if err := slots[index].set(field, value); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Debug("slot field updated",
		logging.String(logging.FieldCollection, string(key)),
		logging.Int("index", index),
		logging.String("field", string(field)),
	)
	s.notify(nil)
	return err
}

// UpdateFieldByID resolves id and updates that slot.
func (s *Store) UpdateFieldByID(ctx context.Context, key Key, id string, field Field, value string) error {
	index, ok := s.IndexOf(key, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrSlotNotFound, key, id)
	}
	return s.UpdateField(ctx, key, index, field, value)
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	data, err := EncodeSnapshot(Snapshot(s.collections))
	if err != nil {
		return err
	}
	if err := s.persister.Put(ctx, StorageKey, data); err != nil {
		s.logger.Error("snapshot write failed", logging.Error(err))
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// notify refreshes every display, plus the editor for editorKey when set.
func (s *Store) notify(editorKey *Key) {
	s.mu.Lock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		if editorKey != nil {
			o.EditorChanged(*editorKey)
		}
		for _, key := range Keys() {
			o.DisplayChanged(key)
		}
	}
}

func (s *Store) withIDs(collections map[Key][]Slot) map[Key][]Slot {
	out := make(map[Key][]Slot, len(collections))
	for key, slots := range collections {
		copied := cloneSlots(slots)
		for i := range copied {
			copied[i].ID = s.newID()
		}
		out[key] = copied
	}
	return out
}

func indexOf(slots []Slot, id string) (int, bool) {
	for i, slot := range slots {
		if slot.ID == id {
			return i, true
		}
	}
	return -1, false
}

func cloneSlots(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
