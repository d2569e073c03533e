package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait is the timeout for writing a frame to a client.
	writeWait = 10 * time.Second

	// maxRequestSize bounds the analyze request frame.
	maxRequestSize = 8 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local tool, any origin is fine.
		return true
	},
}

// StageEvent is one progress frame sent over the analyze stream.
type StageEvent struct {
	Stage  string           `json:"stage"`
	Result *AnalyzeResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// handleAnalyzeStream upgrades the connection, reads one AnalyzeRequest
// frame, streams stage events while the pipeline runs, and finishes with a
// "done" frame carrying the result. One analysis per connection.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxRequestSize)

	var req AnalyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		writeStage(conn, StageEvent{Stage: "error", Error: "invalid analyze request"})
		return
	}

	notify := func(stage string) {
		writeStage(conn, StageEvent{Stage: stage})
	}

	resp, err := s.analyze(r.Context(), &req, notify)
	if err != nil {
		writeStage(conn, StageEvent{Stage: "error", Error: err.Error()})
		return
	}

	writeStage(conn, StageEvent{Stage: "done", Result: resp})
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func writeStage(conn *websocket.Conn, ev StageEvent) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		log.Debug().Err(err).Msg("websocket write failed")
	}
}
