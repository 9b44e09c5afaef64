package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"streamsched/internal/logging"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

func (s *Server) handleListSlots(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	resp := SlotsResponse{Collections: make(map[string][]Slot, len(snap))}
	for _, key := range schedule.Keys() {
		resp.Collections[string(key)] = FromSlots(snap[key])
	}
	if warn := s.store.LoadWarning(); warn != nil {
		resp.LoadWarning = warn.Error()
	}
	writeJSON(s.logger, w, http.StatusOK, resp)
}

func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	key, ok := s.keyParam(w, r)
	if !ok {
		return
	}
	writeJSON(s.logger, w, http.StatusOK, CollectionResponse{Key: string(key), Slots: FromSlots(s.store.Slots(key))})
}

func (s *Server) handleAddSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := s.keyParam(w, r)
	if !ok {
		return
	}
	slot, err := s.store.AddSlot(r.Context(), key)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(s.logger, w, http.StatusCreated, SlotResponse{Key: string(key), Slot: FromSlot(slot)})
}

func (s *Server) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := s.keyParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req FieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "field is required")
		return
	}
	field, err := schedule.ParseField(req.Field)
	if err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateFieldByID(r.Context(), key, id, field, req.Value); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	for _, slot := range s.store.Slots(key) {
		if slot.ID == id {
			writeJSON(s.logger, w, http.StatusOK, SlotResponse{Key: string(key), Slot: FromSlot(slot)})
			return
		}
	}
	writeError(s.logger, w, http.StatusNotFound, schedule.ErrSlotNotFound.Error())
}

func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := s.keyParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	confirm := schedule.ConfirmFunc(func(string) bool { return confirmed })

	if err := s.store.DeleteSlotByID(r.Context(), key, id, confirm); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDisplay(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, s.board.Panels())
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	key, ok := s.keyParam(w, r)
	if !ok {
		return
	}
	panel, mounted := s.board.Panel(key)
	if !mounted {
		// Unmounted containers still have a view model; it is just not shown.
		panel = view.Display(key, s.store.Slots(key))
	}
	writeJSON(s.logger, w, http.StatusOK, DisplayResponse{Mounted: s.board.Mounted(key), Panel: panel})
}

func (s *Server) keyParam(w http.ResponseWriter, r *http.Request) (schedule.Key, bool) {
	key, err := schedule.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(s.logger, w, http.StatusNotFound, err.Error())
		return "", false
	}
	return key, true
}

// writeStoreError maps store failures to HTTP statuses. Persistence failures
// leave the in-memory change applied.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, schedule.ErrLastSlot):
		status = http.StatusConflict
	case errors.Is(err, schedule.ErrDeleteDeclined):
		status = http.StatusPreconditionRequired
	case errors.Is(err, schedule.ErrUnknownKey), errors.Is(err, schedule.ErrSlotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, schedule.ErrUnknownField):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context(), s.logger).Error("slot operation failed", logging.Error(err))
	}
	message := err.Error()
	if status == http.StatusPreconditionRequired {
		message = "delete requires confirmation: " + schedule.DeletePrompt + " Repeat with ?confirm=true"
	}
	writeError(s.logger, w, status, message)
}
