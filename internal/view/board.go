package view

import (
	"sync"

	"streamsched/internal/schedule"
)

// Board holds the display containers a surface has mounted. Rendering into a
// container that is not mounted is skipped.
type Board struct {
	mu     sync.RWMutex
	panels map[string]*Panel
}

// NewBoard returns a board with containerIDs mounted and empty.
func NewBoard(containerIDs ...string) *Board {
	b := &Board{panels: make(map[string]*Panel)}
	b.Mount(containerIDs...)
	return b
}

// Mount registers containers. Mounting an existing container keeps its content.
func (b *Board) Mount(containerIDs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range containerIDs {
		if _, ok := b.panels[id]; !ok {
			b.panels[id] = nil
		}
	}
}

// Unmount removes containers.
func (b *Board) Unmount(containerIDs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range containerIDs {
		delete(b.panels, id)
	}
}

// Mounted reports whether the container for key is mounted.
func (b *Board) Mounted(key schedule.Key) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.panels[ContainerID(key)]
	return ok
}

// Render clears and rebuilds the container for key. It returns the new panel
// and whether the visible output changed. Unmounted containers are skipped
// and report no change.
func (b *Board) Render(key schedule.Key, slots []schedule.Slot) (Panel, bool) {
	panel := Display(key, slots)

	b.mu.Lock()
	defer b.mu.Unlock()
	current, ok := b.panels[panel.ContainerID]
	if !ok {
		return Panel{}, false
	}
	changed := current == nil || !current.Equal(panel)
	b.panels[panel.ContainerID] = &panel
	return panel, changed
}

// Panel returns the last rendered panel for key.
func (b *Board) Panel(key schedule.Key) (Panel, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	panel := b.panels[ContainerID(key)]
	if panel == nil {
		return Panel{}, false
	}
	return *panel, true
}

// Panels returns the rendered panels in collection order.
func (b *Board) Panels() []Panel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Panel, 0, len(b.panels))
	for _, key := range schedule.Keys() {
		if panel := b.panels[ContainerID(key)]; panel != nil {
			out = append(out, *panel)
		}
	}
	return out
}

// RenderAll renders every collection of snap.
func (b *Board) RenderAll(snap schedule.Snapshot) {
	for _, key := range schedule.Keys() {
		b.Render(key, snap[key])
	}
}
