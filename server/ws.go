package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/pipeline"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsPongTimeout    = 60 * time.Second
	wsPingInterval   = 30 * time.Second
	wsMaxMessageSize = 4 << 20 // Shader sources are small; 4MB is generous
)

// wsCompileRequest is one live-compile message from an editor session.
// ID is echoed back so the client can match responses to keystrokes.
type wsCompileRequest struct {
	ID      string           `json:"id,omitempty"`
	Request pipeline.Request `json:"request"`
}

type wsCompileResponse struct {
	ID     string           `json:"id,omitempty"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// checkOrigin validates websocket and CORS origins against the
// configured allow list.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients (CLI, tests) send no Origin header
		return true
	}
	return originAllowed(origin, s.allowedOrigins)
}

// HandleCompileWS upgrades to a websocket and compiles each incoming
// request in order, streaming results back on the same connection.
// Requests on one connection are sequential; an editor wants the result
// for its latest keystroke, not a race between stale ones.
func (s *Server) HandleCompileWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	s.logger.Infow("Live-compile session opened", "remote", r.RemoteAddr)

	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		var req wsCompileRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnw("Live-compile session read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

		resp := s.compileForWS(r, req)

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warnw("Live-compile session write error", "error", err)
			return
		}
	}
}

func (s *Server) compileForWS(r *http.Request, req wsCompileRequest) wsCompileResponse {
	if s.limiter != nil && !s.limiter.Allow() {
		return wsCompileResponse{ID: req.ID, Error: "compile rate limit exceeded"}
	}

	result, err := s.compiler.Compile(r.Context(), req.Request)
	if err != nil {
		msg := "internal compilation error"
		if errors.IsToolUnavailable(err) {
			msg = "a required compiler tool is not available on this host"
		}
		s.logger.Errorw("Live compile failed", "error", err)
		return wsCompileResponse{ID: req.ID, Error: msg}
	}
	return wsCompileResponse{ID: req.ID, Result: &result}
}

// pingLoop keeps the connection alive until the read loop exits.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
