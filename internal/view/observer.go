package view

import "streamsched/internal/schedule"

// SlotSource is the read side of schedule.Store.
type SlotSource interface {
	Slots(key schedule.Key) []schedule.Slot
}

// BoardObserver re-renders a Board when the store reports a change and
// forwards panels whose output changed.
type BoardObserver struct {
	Source  SlotSource
	Board   *Board
	OnPanel func(Panel)
	// OnEditor is called when a collection's row set changed.
	OnEditor func(schedule.Key)
}

var _ schedule.Observer = (*BoardObserver)(nil)

func (o *BoardObserver) DisplayChanged(key schedule.Key) {
	if o.Board == nil || !o.Board.Mounted(key) {
		return
	}
	panel, changed := o.Board.Render(key, o.Source.Slots(key))
	if changed && o.OnPanel != nil {
		o.OnPanel(panel)
	}
}

func (o *BoardObserver) EditorChanged(key schedule.Key) {
	if o.OnEditor != nil {
		o.OnEditor(key)
	}
}
