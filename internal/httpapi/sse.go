package httpapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"sidescroller/internal/sim"
	"sidescroller/internal/world"
)

const heartbeatInterval = 30 * time.Second

// handleEvents is the long-lived event stream. It takes the World's read
// guard only long enough to form the initial snapshot and chat replay,
// then streams from the two broadcast buses until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	snapshot := s.world.Snapshot()
	chatHistory := s.world.ChatSnapshot()

	stateSub := s.stateBus.Subscribe()
	defer s.stateBus.Unsubscribe(stateSub)
	chatSub := s.chatBus.Subscribe()
	defer s.chatBus.Unsubscribe(chatSub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.writeStateFrame(w, snapshot)
	for _, msg := range chatHistory {
		writeChatFrame(w, msg)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case evt, ok := <-stateSub.C():
			if !ok {
				return
			}
			if stateSub.Lagged() {
				s.writeStateFrame(w, s.world.Snapshot())
			} else {
				s.writeStateEvent(w, evt)
			}
			flusher.Flush()
		case msg, ok := <-chatSub.C():
			if !ok {
				return
			}
			if chatSub.Lagged() {
				for _, m := range s.world.ChatSnapshot() {
					writeChatFrame(w, m)
				}
			} else {
				writeChatFrame(w, msg)
			}
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writeStateEvent(w http.ResponseWriter, evt sim.StateEvent) {
	switch evt.Kind {
	case sim.StateEventSnapshot:
		s.writeStateFrame(w, evt.Snapshot)
	case sim.StateEventPlayerLeft:
		data, err := json.Marshal(evt.PlayerLeft)
		if err != nil {
			s.logger.Errorw("marshal player-left event", "error", err)
			return
		}
		fmt.Fprintf(w, "event: datastar-patch-signals\ndata: signals {\"playerLeft\": %s}\n\n", data)
	}
}

func (s *Server) writeStateFrame(w http.ResponseWriter, snapshot world.Snapshot) {
	data, err := json.Marshal(snapshot.Players)
	if err != nil {
		s.logger.Errorw("marshal state snapshot", "error", err)
		return
	}
	fmt.Fprintf(w, "event: datastar-patch-signals\ndata: signals {\"gameState\": %s}\n\n", data)
}

func writeChatFrame(w http.ResponseWriter, msg world.ChatMessage) {
	fragment := fmt.Sprintf(
		`<div><span style="color:%s;">%s:</span> %s</div>`,
		html.EscapeString(msg.PlayerColor),
		html.EscapeString(msg.PlayerName),
		html.EscapeString(msg.Text),
	)
	fmt.Fprintf(w, "event: datastar-patch-elements\ndata: elements #chat-messages append %s\n\n", fragment)
}
