// Package player drives external media players. MPV is controlled through
// its JSON IPC socket; Clock stands in for a player in simulated runs.
package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// ErrPropertyUnavailable is returned while mpv has no file loaded
var ErrPropertyUnavailable = errors.New("mpv property unavailable")

const (
	defaultRequestTimeout = 2 * time.Second
	dialRetryInterval     = 100 * time.Millisecond
)

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type ipcResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
}

// MPV is a JSON IPC client for a running mpv instance
type MPV struct {
	socket  string
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex // Serializes request/response pairs on the connection
	conn   net.Conn
	reader *bufio.Reader
	nextID int64
}

// DialMPV connects to the mpv IPC socket, retrying until ctx is done since
// mpv creates the socket shortly after it starts.
func DialMPV(ctx context.Context, socket string, logger *slog.Logger) (*MPV, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dialer net.Dialer
	for {
		conn, err := dialer.DialContext(ctx, "unix", socket)
		if err == nil {
			logger.Info("connected to mpv", "socket", socket)
			return &MPV{
				socket:  socket,
				timeout: defaultRequestTimeout,
				logger:  logger,
				conn:    conn,
				reader:  bufio.NewReader(conn),
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrPlayerUnavailable, socket, err)
		case <-time.After(dialRetryInterval):
		}
	}
}

// Command sends one IPC command and waits for its reply, skipping any
// events mpv interleaves on the socket.
func (m *MPV) Command(args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil, fmt.Errorf("%w: %s: connection closed", domain.ErrPlayerUnavailable, m.socket)
	}

	m.nextID++
	id := m.nextID

	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}

	if err := m.conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return nil, err
	}
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("mpv write: %w", err)
	}

	for {
		line, err := m.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			m.logger.Debug("skipping malformed mpv message", "error", err)
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		switch resp.Error {
		case "success":
			return resp.Data, nil
		case "property unavailable":
			return nil, ErrPropertyUnavailable
		default:
			return nil, fmt.Errorf("mpv %v: %s", args[0], resp.Error)
		}
	}
}

func (m *MPV) getFloat(property string) (float64, error) {
	data, err := m.Command("get_property", property)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("mpv %s: %w", property, err)
	}
	return v, nil
}

// Position returns mpv's time-pos in seconds
func (m *MPV) Position() (float64, error) {
	return m.getFloat("time-pos")
}

// Duration returns the length of the loaded file in seconds
func (m *MPV) Duration() (float64, error) {
	return m.getFloat("duration")
}

// Paused reports mpv's pause property
func (m *MPV) Paused() (bool, error) {
	data, err := m.Command("get_property", "pause")
	if err != nil {
		return false, err
	}
	var v bool
	err = json.Unmarshal(data, &v)
	return v, err
}

// Seek jumps to an absolute position
func (m *MPV) Seek(seconds float64) error {
	_, err := m.Command("seek", seconds, "absolute")
	return err
}

// Resume clears the pause flag
func (m *MPV) Resume() error {
	_, err := m.Command("set_property", "pause", false)
	return err
}

// TogglePause flips the pause flag
func (m *MPV) TogglePause() error {
	_, err := m.Command("cycle", "pause")
	return err
}

func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

var _ domain.Player = (*MPV)(nil)
