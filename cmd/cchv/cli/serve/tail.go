package serve

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/logging"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/transcript"
)

type tailConfig struct {
	pollInterval time.Duration
	pingInterval time.Duration
}

func defaultTailConfig() tailConfig {
	return tailConfig{
		pollInterval: time.Second,
		pingInterval: 30 * time.Second,
	}
}

// The server binds to localhost for a local frontend; cross-origin
// browser pages talk to it intentionally.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// tailEvent is one WebSocket frame: the new entries appended to the
// session file since the last poll.
type tailEvent struct {
	SessionPath string            `json:"sessionPath"`
	Entries     []json.RawMessage `json:"entries"`
}

// handleTail upgrades to WebSocket and streams entries appended to the
// session file, detected by polling its size.
func (s *Server) handleTail(w http.ResponseWriter, r *http.Request) {
	sessionPath := r.URL.Query().Get("session")
	if sessionPath == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing session parameter"))
		return
	}
	info, err := os.Stat(sessionPath)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already wrote the error response.
	}
	defer conn.Close()

	ctx := logging.WithComponent(r.Context(), "tail")
	logging.Info(ctx, "tailing session", slog.String("path", sessionPath))

	// Start at the current end: the frontend already has the existing
	// messages from /api/messages.
	offset := info.Size()

	// Reads from the client only service close/ping frames.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(s.tail.pollInterval)
	defer poll.Stop()
	ping := time.NewTicker(s.tail.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-poll.C:
			entries, next, err := readAppended(sessionPath, offset)
			if err != nil {
				logging.Warn(ctx, "tail read failed", slog.String("error", err.Error()))
				return
			}
			offset = next
			if len(entries) == 0 {
				continue
			}
			event := tailEvent{SessionPath: sessionPath, Entries: entries}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// readAppended returns the complete JSONL entries written between offset
// and the current end of file, plus the offset to resume from. A file that
// shrank (rotated or rewritten) restarts from the beginning. A trailing
// partial line stays unread until its newline arrives.
func readAppended(path string, offset int64) ([]json.RawMessage, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, offset, err
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return nil, offset, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, err
	}

	var entries []json.RawMessage
	next := offset
	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// Partial tail line: re-read it on the next poll.
			break
		}
		next += int64(len(line))
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		var entry transcript.Entry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			continue
		}
		entries = append(entries, json.RawMessage(bytes.Clone(trimmed)))
	}
	return entries, next, nil
}
