package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"streamsched/internal/announce"
	"streamsched/internal/configsvc"
	"streamsched/internal/logging"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

//go:embed templates/overlay.html
var templateFS embed.FS

var overlayTemplate = template.Must(template.ParseFS(templateFS, "templates/overlay.html"))

type overlayPanel struct {
	view.Panel
	Heading string
}

type overlayPage struct {
	Channel configsvc.Channel
	Theme   configsvc.Theme
	Panels  []overlayPanel
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	doc, err := s.config.Load(r.Context())
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("overlay using default config document", logging.Error(err))
	}
	theme, _ := configsvc.ThemeByName(doc.Theme)

	page := overlayPage{Channel: doc.Channel, Theme: theme}
	for _, panel := range s.board.Panels() {
		page.Panels = append(page.Panels, overlayPanel{Panel: panel, Heading: panelHeading(doc, panel)})
	}

	var buf bytes.Buffer
	if err := overlayTemplate.Execute(&buf, page); err != nil {
		logging.WithContext(r.Context(), s.logger).Error("overlay render failed", logging.Error(err))
		writeError(s.logger, w, http.StatusInternalServerError, "overlay render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// panelHeading uses the document's day title for the selected schedule type
// and a generic label otherwise.
func panelHeading(doc configsvc.Document, panel view.Panel) string {
	day := doc.Schedule.Today
	if panel.Day == schedule.Tomorrow {
		day = doc.Schedule.Tomorrow
	}
	if day.Title != "" && schedule.Type(day.Type) == panel.Type {
		return day.Title
	}
	return announce.Heading(panel.Day, string(panel.Type))
}
