// Package server provides the HTTP API for the warden agent over a unix
// socket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/internal/agent"
	"github.com/wardentools/core/watch"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server manages the agent's HTTP server over a unix socket. The socket is
// created mode 0600, so the filesystem is the access control.
type Server struct {
	logger *logrus.Entry
	server *http.Server
	agent  *agent.Agent
}

// New creates a server for the given agent.
func New(a *agent.Agent, logger *logrus.Entry) *Server {
	return &Server{
		agent:  a,
		logger: logger,
	}
}

// ListenAndServe starts the agent API on the given unix socket path. It
// blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return errors.SocketFailed(socketPath, fmt.Errorf("removing stale socket: %w", err))
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return errors.SocketFailed(socketPath, fmt.Errorf("creating socket directory: %w", err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return errors.SocketFailed(socketPath, err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return errors.SocketFailed(socketPath, fmt.Errorf("setting socket permissions: %w", err))
	}

	s.server = &http.Server{
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}

	s.logger.WithField("socket", socketPath).Info("Agent API listening")
	return s.server.Serve(listener)
}

// Handler returns the API routes. Split out so tests can exercise them
// without a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/api/monitored", s.handleMonitored)
	mux.HandleFunc("/api/check", s.handleCheck)
	mux.HandleFunc("/ws/monitored", s.handleMonitoredStream)

	return mux
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down agent API...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// handleStatus returns the agent's self-description.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.agent.Status())
}

// handleRules returns the active policies in parse order.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	policies := s.agent.Store().Policies()
	s.writeJSON(w, map[string]interface{}{
		"count": len(policies),
		"rules": policies,
	})
}

// handleMonitored returns the published monitored-path set, excludes
// already applied.
func (s *Server) handleMonitored(w http.ResponseWriter, r *http.Request) {
	paths := s.agent.MonitoredPaths()
	s.writeJSON(w, map[string]interface{}{
		"count": len(paths),
		"paths": paths,
	})
}

// CheckResult is the response of a lookup probe.
type CheckResult struct {
	Path    string        `json:"path"`
	Matched bool          `json:"matched"`
	Policy  *watch.Policy `json:"policy,omitempty"`
}

// handleCheck runs a lookup probe against the active index.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	result := CheckResult{Path: path}
	if policy, ok := s.agent.Store().FindPolicyForPath(path); ok {
		result.Matched = true
		result.Policy = policy
	}
	s.writeJSON(w, result)
}

// monitoredUpdate is one frame on the /ws/monitored stream.
type monitoredUpdate struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths"`
	Timestamp time.Time `json:"timestamp"`
}

// handleMonitoredStream upgrades to a websocket and pushes the monitored
// set: the current set on connect, then one frame per change.
func (s *Server) handleMonitoredStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// The listener is a 0600 unix socket; any connected peer is
		// already trusted.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	store := s.agent.Store()
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	s.logger.Debug("Monitored-set subscriber connected")

	write := func(update monitoredUpdate) error {
		if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			return err
		}
		return conn.WriteJSON(update)
	}

	if err := write(monitoredUpdate{
		Type:      "initial",
		Paths:     s.agent.MonitoredPaths(),
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case paths, ok := <-ch:
				if !ok {
					return
				}
				if err := write(monitoredUpdate{
					Type:      "update",
					Paths:     s.agent.FilterMonitored(paths),
					Timestamp: time.Now().UTC(),
				}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Block on reads to notice the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Debug("Monitored-set subscriber disconnected")
			return
		}
	}
}
