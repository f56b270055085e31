package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"sidescroller/internal/broadcast"
	"sidescroller/internal/intake"
	"sidescroller/internal/sim"
	"sidescroller/internal/telemetry"
	"sidescroller/internal/world"
)

const maxBodyBytes = 16 * 1024

// Server wires the World, intake Queue and both broadcast buses into a
// set of HTTP handlers. It never acquires the World's write guard;
// mutation only ever happens inside the simulation task that drains the
// Queue it holds a handle to.
type Server struct {
	world    *world.World
	queue    *intake.Queue
	stateBus *broadcast.Bus[sim.StateEvent]
	chatBus  *broadcast.Bus[world.ChatMessage]
	logger   telemetry.Logger
}

// NewServer constructs the HTTP edge.
func NewServer(w *world.World, q *intake.Queue, stateBus *broadcast.Bus[sim.StateEvent], chatBus *broadcast.Bus[world.ChatMessage], logger telemetry.Logger) *Server {
	if logger == nil {
		logger = telemetry.NopLogger{}
	}
	return &Server{world: w, queue: q, stateBus: stateBus, chatBus: chatBus, logger: logger}
}

// Routes builds the complete handler for the process's HTTP server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/player/init", s.handlePlayerInit)
	mux.HandleFunc("POST /api/player/command", s.handlePlayerCommand)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /events", s.handleEvents)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newConfigResponse(s.world.Config))
}

func (s *Server) handlePlayerInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id, err := uuid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}
	if !s.queue.Push(intake.Event{Type: intake.EventJoin, PlayerID: id, Name: req.Name}) {
		writeError(w, http.StatusServiceUnavailable, "server busy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlayerCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id, err := uuid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}
	intent, ok := world.ValidIntent(req.Command.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown command type")
		return
	}
	if !s.queue.Push(intake.Event{Type: intake.EventMove, PlayerID: id, Intent: intent}) {
		writeError(w, http.StatusServiceUnavailable, "server busy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id, err := uuid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player_id")
		return
	}
	text := trimToValidChat(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "chat text must be non-empty after trimming")
		return
	}
	if len(text) > world.ChatTextMaxBytes {
		writeError(w, http.StatusBadRequest, "chat text too long")
		return
	}
	if !s.queue.Push(intake.Event{Type: intake.EventChat, PlayerID: id, Text: text}) {
		writeError(w, http.StatusServiceUnavailable, "server busy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.logger.Infow("malformed request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorResponse{Error: reason})
}
