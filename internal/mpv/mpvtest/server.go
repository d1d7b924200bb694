// Package mpvtest provides a fake mpv IPC server for tests.
package mpvtest

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Server answers mpv JSON IPC requests on a unix socket from an in-memory
// property table.
type Server struct {
	Path string

	ln net.Listener

	mu       sync.Mutex
	props    map[string]any
	commands [][]any
	events   bool
	hang     bool
	raw      string
	wg       sync.WaitGroup
}

// New starts a server on a fresh socket and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	// unix socket paths are length limited, so avoid t.TempDir().
	dir, err := os.MkdirTemp("", "tw")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	path := filepath.Join(dir, "mpv.sock")

	ln, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("listen: %v", err)
	}

	s := &Server{
		Path: path,
		ln:   ln,
		props: map[string]any{
			"idle-active": true,
			"pause":       false,
		},
	}
	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(dir)
	})
	return s
}

// Close stops accepting connections.
func (s *Server) Close() {
	s.ln.Close()
	s.wg.Wait()
}

// Set stores a property value. A nil value makes mpv answer null.
func (s *Server) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[name] = value
}

// Unset removes a property so reads fail with "property unavailable".
func (s *Server) Unset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.props, name)
}

// Get returns a property value.
func (s *Server) Get(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props[name]
}

// EmitEvents makes the server send an async event line before each reply.
func (s *Server) EmitEvents(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = on
}

// Hang makes the server read requests but never answer.
func (s *Server) Hang(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hang = on
}

// ReplyRaw makes the server answer every request with line verbatim.
func (s *Server) ReplyRaw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = line
}

// Commands returns every command received, oldest first.
func (s *Server) Commands() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.commands))
	copy(out, s.commands)
	return out
}

// Loads returns the URLs of every loadfile command received.
func (s *Server) Loads() []string {
	var urls []string
	for _, c := range s.Commands() {
		if len(c) >= 2 && c[0] == "loadfile" {
			if u, ok := c[1].(string); ok {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type reply struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || len(req.Command) == 0 {
			writeLine(conn, reply{Error: "invalid parameter"})
			continue
		}

		s.mu.Lock()
		s.commands = append(s.commands, req.Command)
		hang, raw, events := s.hang, s.raw, s.events
		s.mu.Unlock()

		if hang {
			// Hold the connection open until the client gives up.
			_, _ = conn.Read(make([]byte, 1))
			return
		}
		if raw != "" {
			_, _ = conn.Write([]byte(raw + "\n"))
			continue
		}
		if events {
			writeLine(conn, map[string]any{"event": "property-change", "name": "time-pos"})
			// A reply to somebody else's request must be ignored too.
			writeLine(conn, reply{Error: "success", RequestID: req.RequestID + 1000})
		}

		resp := s.apply(req.Command)
		resp.RequestID = req.RequestID
		writeLine(conn, resp)
	}
}

func (s *Server) apply(cmd []any) reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, _ := cmd[0].(string)
	switch name {
	case "get_property":
		if len(cmd) < 2 {
			return reply{Error: "invalid parameter"}
		}
		prop, _ := cmd[1].(string)
		v, ok := s.props[prop]
		if !ok {
			return reply{Error: "property unavailable"}
		}
		return reply{Data: v, Error: "success"}
	case "set_property":
		if len(cmd) < 3 {
			return reply{Error: "invalid parameter"}
		}
		prop, _ := cmd[1].(string)
		s.props[prop] = cmd[2]
		return reply{Error: "success"}
	case "cycle":
		if len(cmd) < 2 {
			return reply{Error: "invalid parameter"}
		}
		prop, _ := cmd[1].(string)
		b, _ := s.props[prop].(bool)
		s.props[prop] = !b
		return reply{Error: "success"}
	case "loadfile":
		s.props["idle-active"] = false
		s.props["time-pos"] = 0.0
		return reply{Error: "success"}
	default:
		return reply{Error: "invalid parameter"}
	}
}

func writeLine(conn net.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = conn.Write(append(data, '\n'))
}
