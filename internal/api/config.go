package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"

	"streamsched/internal/announce"
	"streamsched/internal/configsvc"
	"streamsched/internal/logging"
	"streamsched/internal/view"
)

// maxConfigBody caps POST /api/config bodies.
const maxConfigBody = 1 << 20

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := s.config.LoadRaw(r.Context())
	if err != nil {
		// Serve defaults; the document on disk is unreadable.
		logging.WithContext(r.Context(), s.logger).Warn("serving default config document", logging.Error(err))
	}
	writeRawJSON(s.logger, w, http.StatusOK, raw)
}

func (s *Server) handlePostConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBody))
	if err != nil {
		writeJSON(s.logger, w, http.StatusBadRequest, configsvc.Result{Success: false, Message: "invalid JSON body: " + err.Error()})
		return
	}
	result, err := s.config.Save(r.Context(), raw)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, configsvc.ErrInvalid) {
			status = http.StatusBadRequest
		}
		writeJSON(s.logger, w, status, result)
		return
	}
	doc, err := configsvc.Decode(raw)
	if err != nil {
		// Save already decoded raw successfully.
		logging.WithContext(r.Context(), s.logger).Warn("config document decode after save", logging.Error(err))
	}
	s.applyScope(doc)
	s.hub.Broadcast(PushMessage{Type: PushConfig, Data: json.RawMessage(raw)})
	writeJSON(s.logger, w, http.StatusOK, result)
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, configsvc.Themes())
}

// handleAnnounce renders the current template, or ?template=<index>, with
// ?timestamps=false forcing plain lines.
func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	doc, err := s.config.Load(r.Context())
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("announce using default config document", logging.Error(err))
	}
	query := r.URL.Query()
	if value := query.Get("template"); value != "" {
		idx, convErr := strconv.Atoi(value)
		if convErr != nil || idx < 0 || idx >= len(doc.Discord.Templates) {
			writeError(s.logger, w, http.StatusBadRequest, "invalid template index")
			return
		}
		doc.Discord.CurrentTemplate = idx
	}
	tpl, ok := doc.ActiveTemplate()
	if !ok {
		writeError(s.logger, w, http.StatusNotFound, "no discord templates configured")
		return
	}

	opts, err := announce.OptionsFor(s.announce)
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("announce timezone unavailable", logging.Error(err))
	}
	if value := query.Get("timestamps"); value != "" {
		if enabled, convErr := strconv.ParseBool(value); convErr == nil {
			opts.UseTimestamps = &enabled
		}
	}
	opts.Now = s.now()
	writeJSON(s.logger, w, http.StatusOK, announce.Render(doc, tpl, s.store.Snapshot(), opts))
}

// Scope returns the export scope in effect for doc.
func (s *Server) Scope(doc configsvc.Document) string {
	if s.exportScope != "" {
		return s.exportScope
	}
	return doc.ExportScopeOrDefault()
}

// SyncScope mounts the containers the stored document's scope selects.
func (s *Server) SyncScope(ctx context.Context) {
	doc, err := s.config.Load(ctx)
	if err != nil {
		s.logger.Warn("config document unreadable; using default scope", logging.Error(err))
	}
	s.applyScope(doc)
}

// applyScope remounts the board for doc's export scope and renders newly
// mounted containers.
func (s *Server) applyScope(doc configsvc.Document) {
	want := view.ContainersForScope(s.Scope(doc))
	var drop []string
	for _, id := range view.ContainersForScope("full") {
		if !slices.Contains(want, id) {
			drop = append(drop, id)
		}
	}
	s.board.Unmount(drop...)
	s.board.Mount(want...)
	s.board.RenderAll(s.store.Snapshot())
}
