package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"sidescroller/internal/broadcast"
	"sidescroller/internal/intake"
	"sidescroller/internal/sim"
	"sidescroller/internal/world"
)

type spyLogger struct {
	infoCalls int
}

func (s *spyLogger) Debugw(string, ...any) {}
func (s *spyLogger) Infow(string, ...any)  { s.infoCalls++ }
func (s *spyLogger) Warnw(string, ...any)  {}
func (s *spyLogger) Errorw(string, ...any) {}

func newTestServer() (*Server, *world.World, *intake.Queue) {
	w := world.New(world.DefaultConfig())
	q := intake.NewQueue(8, nil)
	stateBus := broadcast.New[sim.StateEvent](4, nil)
	chatBus := broadcast.New[world.ChatMessage](4, nil)
	return NewServer(w, q, stateBus, chatBus, nil), w, q
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthNeverTouchesWorld(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", payload)
	}
}

func TestConfigServesFrozenGeometry(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	var payload configResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Platforms) == 0 {
		t.Fatalf("expected at least one platform in config response")
	}
	if payload.Physics.GroundColor == "" {
		t.Fatalf("expected ground_color to be populated")
	}
}

func TestPlayerInitEnqueuesJoin(t *testing.T) {
	s, _, q := newTestServer()
	id := uuid.New()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/player/init", map[string]string{"player_id": id.String()})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	events := q.Drain()
	if len(events) != 1 || events[0].Type != intake.EventJoin || events[0].PlayerID != id {
		t.Fatalf("expected one Join event for %s, got %+v", id, events)
	}
}

func TestPlayerInitRejectsBadUUID(t *testing.T) {
	s, _, _ := newTestServer()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/player/init", map[string]string{"player_id": "not-a-uuid"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlayerCommandRejectsUnknownType(t *testing.T) {
	s, _, _ := newTestServer()
	id := uuid.New()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/player/command", map[string]any{
		"player_id": id.String(),
		"command":   map[string]string{"type": "Teleport"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlayerCommandEnqueuesMoveIntent(t *testing.T) {
	s, _, q := newTestServer()
	id := uuid.New()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/player/command", map[string]any{
		"player_id": id.String(),
		"command":   map[string]string{"type": "Jump"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	events := q.Drain()
	if len(events) != 1 || events[0].Intent != world.IntentJump {
		t.Fatalf("expected one Jump intent, got %+v", events)
	}
}

func TestChatRejectsEmptyText(t *testing.T) {
	s, _, _ := newTestServer()
	id := uuid.New()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/chat", map[string]string{
		"player_id": id.String(),
		"text":      "   ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatRejectsOversizeText(t *testing.T) {
	s, _, _ := newTestServer()
	id := uuid.New()
	text := make([]byte, world.ChatTextMaxBytes+1)
	for i := range text {
		text[i] = 'a'
	}
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/chat", map[string]string{
		"player_id": id.String(),
		"text":      string(text),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatEnqueuesEvenForUnknownPlayer(t *testing.T) {
	// The intake queue accepts the event unconditionally; it is the
	// simulation task that silently drops chat for an unknown player.
	s, _, q := newTestServer()
	id := uuid.New()
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/chat", map[string]string{
		"player_id": id.String(),
		"text":      "hello",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	events := q.Drain()
	if len(events) != 1 || events[0].Type != intake.EventChat {
		t.Fatalf("expected one Chat event, got %+v", events)
	}
}

func TestQueueFullReturnsServiceUnavailable(t *testing.T) {
	w := world.New(world.DefaultConfig())
	q := intake.NewQueue(1, nil)
	stateBus := broadcast.New[sim.StateEvent](4, nil)
	chatBus := broadcast.New[world.ChatMessage](4, nil)
	s := NewServer(w, q, stateBus, chatBus, nil)

	id := uuid.New()
	if !q.Push(intake.Event{Type: intake.EventJoin, PlayerID: id}) {
		t.Fatalf("expected first push to succeed")
	}
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/player/init", map[string]string{"player_id": id.String()})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on full queue, got %d", rec.Code)
	}
}

func TestMalformedBodyReturns400(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/player/init", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMalformedBodyIsLogged(t *testing.T) {
	w := world.New(world.DefaultConfig())
	q := intake.NewQueue(8, nil)
	stateBus := broadcast.New[sim.StateEvent](4, nil)
	chatBus := broadcast.New[world.ChatMessage](4, nil)
	logger := &spyLogger{}
	s := NewServer(w, q, stateBus, chatBus, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/player/init", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if logger.infoCalls != 1 {
		t.Fatalf("expected one Infow call logging the malformed body, got %d", logger.infoCalls)
	}
}
