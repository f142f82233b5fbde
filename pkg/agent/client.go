// Package agent provides a client for the warden agent's unix-socket API.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/watch"
)

// baseURL is the dummy host used for unix socket HTTP requests. The actual
// connection goes through the socket, not this URL.
const baseURL = "http://unix"

// Status mirrors the agent's /api/status response.
type Status struct {
	PID            int       `json:"pid"`
	StartedAt      time.Time `json:"started_at"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	ConfigFile     string    `json:"config_file,omitempty"`
	RulesSource    string    `json:"rules_source"`
	ReloadInterval string    `json:"reload_interval"`
	WatchEnabled   bool      `json:"watch_enabled"`
	RuleCount      int       `json:"rule_count"`
	MonitoredCount int       `json:"monitored_count"`
	Rebuilds       uint64    `json:"rebuilds"`
	LastReload     time.Time `json:"last_reload,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// CheckResult mirrors the agent's /api/check response.
type CheckResult struct {
	Path    string        `json:"path"`
	Matched bool          `json:"matched"`
	Policy  *watch.Policy `json:"policy,omitempty"`
}

// Client talks to a running agent over its unix socket.
type Client struct {
	httpClient *http.Client
	socketPath string
}

// New creates a client for the agent socket at socketPath. No connection is
// made until the first call.
func New(socketPath string) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		DisableKeepAlives: false,
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		socketPath: socketPath,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		werr := errors.AgentNotRunning(c.socketPath)
		werr.Cause = err
		return werr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode agent response: %w", err)
	}
	return nil
}

// Status fetches the agent's self-description.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.get(ctx, "/api/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Rules fetches the active policies in parse order.
func (c *Client) Rules(ctx context.Context) ([]*watch.Policy, error) {
	var body struct {
		Rules []*watch.Policy `json:"rules"`
	}
	if err := c.get(ctx, "/api/rules", &body); err != nil {
		return nil, err
	}
	return body.Rules, nil
}

// Monitored fetches the published monitored-path set.
func (c *Client) Monitored(ctx context.Context) ([]string, error) {
	var body struct {
		Paths []string `json:"paths"`
	}
	if err := c.get(ctx, "/api/monitored", &body); err != nil {
		return nil, err
	}
	return body.Paths, nil
}

// Check runs a lookup probe on the agent's active index.
func (c *Client) Check(ctx context.Context, path string) (*CheckResult, error) {
	var result CheckResult
	if err := c.get(ctx, "/api/check?path="+url.QueryEscape(path), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// IsRunning reports whether the agent responds on its socket.
func (c *Client) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StreamMonitored subscribes to monitored-set updates over the agent's
// websocket. The returned channel carries the current set first, then one
// entry per change, and closes when ctx is cancelled or the agent goes
// away.
func (c *Client) StreamMonitored(ctx context.Context) (<-chan []string, error) {
	dialer := websocket.Dialer{
		NetDialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
		HandshakeTimeout: 5 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, "ws://unix/ws/monitored", nil)
	if err != nil {
		werr := errors.AgentNotRunning(c.socketPath)
		werr.Cause = err
		return nil, werr
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	ch := make(chan []string, 10)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			var frame struct {
				Paths []string `json:"paths"`
			}
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			select {
			case ch <- frame.Paths:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close cleans up idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
