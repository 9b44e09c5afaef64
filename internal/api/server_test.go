package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"streamsched/internal/api"
	"streamsched/internal/configsvc"
	"streamsched/internal/logging"
	"streamsched/internal/schedule"
	"streamsched/internal/testsupport"
	"streamsched/internal/view"
)

type fixture struct {
	server *api.Server
	store  *schedule.Store
	board  *view.Board
	docs   *configsvc.Service
}

func newFixture(t *testing.T, mutate func(*api.Options)) *fixture {
	t.Helper()
	store, _ := testsupport.NewSlotStore(t)
	board := view.NewBoard(view.ContainersForScope("full")...)
	board.RenderAll(store.Snapshot())
	docs := configsvc.New(filepath.Join(t.TempDir(), "config.json"), logging.NewNop())
	hub := api.NewHub(logging.NewNop())
	store.Observe(&view.BoardObserver{Source: store, Board: board, OnPanel: hub.PublishPanel})

	opts := api.Options{
		Store:   store,
		Board:   board,
		Config:  docs,
		Hub:     hub,
		Logger:  logging.NewNop(),
		Started: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Now:     func() time.Time { return time.Date(2025, 1, 1, 12, 1, 30, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := api.NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &fixture{server: srv, store: store, board: board, docs: docs}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[api.HealthResponse](t, w)
	if resp.Status != "ok" || resp.UptimeSeconds != 90 || resp.Uptime != "1m30s" {
		t.Fatalf("unexpected health: %+v", resp)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestConfigDefaultsAndOverwrite(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/config", nil)
	doc := decode[configsvc.Document](t, w)
	if doc.Channel.Name != "Audacious Gabe" || doc.Theme != "twilight" {
		t.Fatalf("unexpected default document: %+v", doc)
	}

	doc.Theme = "oceanic"
	doc.ExportScope = "today"
	w = f.do(t, http.MethodPost, "/api/config", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d body=%s", w.Code, w.Body.String())
	}
	result := decode[configsvc.Result](t, w)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if f.board.Mounted(schedule.TomorrowNormal) {
		t.Fatal("today scope should unmount tomorrow containers")
	}
	if !f.board.Mounted(schedule.TodayWork) {
		t.Fatal("today containers must stay mounted")
	}

	w = f.do(t, http.MethodGet, "/api/config", nil)
	if got := decode[configsvc.Document](t, w); got.Theme != "oceanic" {
		t.Fatalf("theme after save = %q", got.Theme)
	}
}

func TestConfigKeepsUnknownKeys(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"theme":"midnight","customFlag":{"nested":[1,2]},"schedule":{"today":{"type":"normal","normal":["8pm"]}}}`

	req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("post status = %d body=%s", rec.Code, rec.Body.String())
	}

	w := f.do(t, http.MethodGet, "/api/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if got := w.Body.String(); got != body {
		t.Fatalf("GET /api/config = %s, want %s", got, body)
	}
	if strings.Contains(w.Body.String(), `"templates":null`) {
		t.Fatal("save must not add keys")
	}
}

func TestConfigRejectsInvalid(t *testing.T) {
	f := newFixture(t, nil)
	doc := configsvc.Default()
	doc.ExportScope = "week"
	w := f.do(t, http.MethodPost, "/api/config", doc)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if result := decode[configsvc.Result](t, w); result.Success || !strings.Contains(result.Message, "exportScope") {
		t.Fatalf("unexpected result: %+v", result)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestSlotLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/slots/today-work", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}
	added := decode[api.SlotResponse](t, w)
	if added.Slot.Time != "4:00 PM - 7:00 PM" || added.Key != "todayWork" {
		t.Fatalf("unexpected added slot: %+v", added)
	}

	w = f.do(t, http.MethodPatch, "/api/slots/todayWork/"+added.Slot.ID, api.FieldUpdateRequest{Field: "title", Value: "Overtime"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d body=%s", w.Code, w.Body.String())
	}
	if got := decode[api.SlotResponse](t, w); got.Slot.Title != "Overtime" {
		t.Fatalf("patched slot = %+v", got.Slot)
	}

	panel, _ := f.board.Panel(schedule.TodayWork)
	if last := panel.Blocks[len(panel.Blocks)-1]; last.Title != "Overtime" {
		t.Fatalf("display not re-rendered: %+v", last)
	}

	w = f.do(t, http.MethodDelete, "/api/slots/todayWork/"+added.Slot.ID, nil)
	if w.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete status = %d", w.Code)
	}
	w = f.do(t, http.MethodDelete, "/api/slots/todayWork/"+added.Slot.ID+"?confirm=true", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete status = %d", w.Code)
	}
	if got := len(f.store.Slots(schedule.TodayWork)); got != 2 {
		t.Fatalf("slots after delete = %d", got)
	}
}

func TestDeleteLastSlotConflict(t *testing.T) {
	f := newFixture(t, nil)
	slots := f.store.Slots(schedule.TomorrowWork)
	w := f.do(t, http.MethodDelete, "/api/slots/tomorrowWork/"+slots[0].ID+"?confirm=true", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("first delete status = %d", w.Code)
	}
	w = f.do(t, http.MethodDelete, "/api/slots/tomorrowWork/"+slots[1].ID+"?confirm=true", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("last slot delete status = %d", w.Code)
	}
}

func TestSlotErrors(t *testing.T) {
	f := newFixture(t, nil)
	if w := f.do(t, http.MethodGet, "/api/slots/yesterday", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown key status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPatch, "/api/slots/todayNormal/missing", api.FieldUpdateRequest{Field: "title", Value: "x"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d", w.Code)
	}
	id := f.store.Slots(schedule.TodayNormal)[0].ID
	if w := f.do(t, http.MethodPatch, "/api/slots/todayNormal/"+id, api.FieldUpdateRequest{Field: "color", Value: "x"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", w.Code)
	}
}

func TestListSlotsAndDisplay(t *testing.T) {
	f := newFixture(t, nil)
	resp := decode[api.SlotsResponse](t, f.do(t, http.MethodGet, "/api/slots", nil))
	if len(resp.Collections) != 4 || len(resp.Collections["todayNormal"]) != 4 {
		t.Fatalf("unexpected collections: %+v", resp.Collections)
	}
	display := decode[api.DisplayResponse](t, f.do(t, http.MethodGet, "/api/display/tomorrowNormal", nil))
	if !display.Mounted || display.Panel.ContainerID != "tomorrow-normal-display" || display.Panel.Accent != view.AccentTomorrow {
		t.Fatalf("unexpected display: %+v", display)
	}
}

func TestAuthToken(t *testing.T) {
	f := newFixture(t, func(o *api.Options) { o.Token = "secret" })

	if w := f.do(t, http.MethodGet, "/api/slots", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health must stay open, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, func(o *api.Options) { o.RateLimit = 2 })
	for i := 0; i < 2; i++ {
		if w := f.do(t, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	if w := f.do(t, http.MethodGet, "/api/health", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", w.Code)
	}
}

func TestAnnounce(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/api/announce?template=2&timestamps=false", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Schedule Update") || strings.Contains(body, "<t:") {
		t.Fatalf("unexpected announcement: %s", body)
	}
	if w := f.do(t, http.MethodGet, "/api/announce?template=9", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad template status = %d", w.Code)
	}
}

func TestOverlayPage(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/overlay", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Audacious Gabe", "#9146FF", `id="today-normal-display"`, "Morning Warmup", "Today&#39;s Stream"} {
		if !strings.Contains(body, want) {
			t.Fatalf("overlay missing %q", want)
		}
	}
}

func TestWebsocketPushesChangedPanel(t *testing.T) {
	f := newFixture(t, nil)
	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// Initial frames: one per mounted container.
	for i := 0; i < 4; i++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("initial frame %d: %v", i, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.server.Hub().Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	id := f.store.Slots(schedule.TodayNormal)[0].ID
	if w := f.do(t, http.MethodPatch, "/api/slots/todayNormal/"+id, api.FieldUpdateRequest{Field: "desc", Value: "pushed"}); w.Code != http.StatusOK {
		t.Fatalf("patch status = %d", w.Code)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read push: %v", err)
	}
	var msg struct {
		Type string     `json:"type"`
		Data view.Panel `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != api.PushDisplay || msg.Data.Key != schedule.TodayNormal || msg.Data.Blocks[0].Desc != "pushed" {
		t.Fatalf("unexpected push: %+v", msg)
	}
}

func TestWebsocketInitialPanelsPrecedeBroadcasts(t *testing.T) {
	hub := api.NewHub(logging.NewNop())
	snapshotClients := make(chan int, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, func() []view.Panel {
			snapshotClients <- hub.Clients()
			// A change lands while the initial frames are being prepared.
			go hub.PublishPanel(view.Panel{Key: schedule.TodayNormal, Blocks: []view.Block{{Desc: "fresh"}}})
			return []view.Panel{{Key: schedule.TodayNormal, Blocks: []view.Block{{Desc: "stale"}}}}
		})
	}))
	defer ts.Close()
	defer hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if got := <-snapshotClients; got != 1 {
		t.Fatalf("clients when initial panels were taken = %d, want 1", got)
	}
	var descs []string
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		var msg struct {
			Data view.Panel `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		descs = append(descs, msg.Data.Blocks[0].Desc)
	}
	if descs[0] != "stale" || descs[1] != "fresh" {
		t.Fatalf("frame order = %v, want the broadcast last", descs)
	}
}
