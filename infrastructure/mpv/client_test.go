package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeMPV is a minimal IPC server that records commands and answers them
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	commands [][]any
	reply    func(cmd []any) (any, string)
}

func newFakeMPV(t *testing.T) (*fakeMPV, string) {
	t.Helper()

	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket := filepath.Join(dir, "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	f := &fakeMPV{
		listener: ln,
		reply:    func([]any) (any, string) { return nil, "success" },
	}
	go f.serve()
	return f, socket
}

func (f *fakeMPV) serve() {
	conn, err := f.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req ipcRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		reply := f.reply
		f.mu.Unlock()

		// an unrelated event first, clients must skip it
		_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))

		data, status := reply(req.Command)
		out, _ := json.Marshal(ipcResponse{Data: data, RequestID: req.RequestID, Error: status})
		_, _ = conn.Write(append(out, '\n'))
	}
}

func (f *fakeMPV) recorded() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

func connectedClient(t *testing.T, f *fakeMPV, socket string) *Client {
	t.Helper()
	c := NewClient(socket)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	if err := c.SetPause(true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SetPause() error = %v, want ErrNotConnected", err)
	}
	if err := c.Connect(); !errors.Is(err, ErrSocketNotFound) {
		t.Errorf("Connect() error = %v, want ErrSocketNotFound", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after failed connect")
	}
}

func TestClient_TimePos(t *testing.T) {
	f, socket := newFakeMPV(t)
	f.reply = func(cmd []any) (any, string) {
		if cmd[0] == "get_property" && cmd[1] == "time-pos" {
			return 12.5, "success"
		}
		return nil, "success"
	}
	c := connectedClient(t, f, socket)

	got, err := c.TimePos()
	if err != nil {
		t.Fatalf("TimePos() error = %v", err)
	}
	if got != 12.5 {
		t.Errorf("TimePos() = %v, want 12.5", got)
	}
}

func TestClient_Commands(t *testing.T) {
	f, socket := newFakeMPV(t)
	c := connectedClient(t, f, socket)

	if err := c.SetLoop(10, 19.88); err != nil {
		t.Fatalf("SetLoop() error = %v", err)
	}
	if err := c.Seek(10); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if err := c.SetPause(false); err != nil {
		t.Fatalf("SetPause() error = %v", err)
	}

	want := []string{
		`["set_property","ab-loop-a",10]`,
		`["set_property","ab-loop-b",19.88]`,
		`["seek",10,"absolute+exact"]`,
		`["set_property","pause",false]`,
	}

	got := f.recorded()
	if len(got) != len(want) {
		t.Fatalf("recorded %d commands, want %d: %v", len(got), len(want), got)
	}
	for i, cmd := range got {
		b, _ := json.Marshal(cmd)
		if string(b) != want[i] {
			t.Errorf("command[%d] = %s, want %s", i, b, want[i])
		}
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	f, socket := newFakeMPV(t)
	f.reply = func([]any) (any, string) { return nil, "property unavailable" }
	c := connectedClient(t, f, socket)

	_, err := c.TimePos()
	if err == nil || !strings.Contains(err.Error(), "property unavailable") {
		t.Errorf("TimePos() error = %v, want property unavailable", err)
	}
}

func TestLaunchArgs(t *testing.T) {
	got := LaunchArgs("/tmp/s.sock", "movie.mp4", Window{Start: 1.5, End: 9.88})

	want := []string{
		"--input-ipc-server=/tmp/s.sock",
		"--force-window=yes",
		"--keep-open=yes",
		"--really-quiet",
		"--start=1.500",
		"--ab-loop-a=1.500",
		"--ab-loop-b=9.880",
		"movie.mp4",
	}

	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("LaunchArgs() = %v, want %v", got, want)
	}
}

func TestToFloat64(t *testing.T) {
	if _, err := toFloat64("x"); err == nil {
		t.Error("toFloat64(string) expected error")
	}
	if v, err := toFloat64(3); err != nil || v != 3 {
		t.Errorf("toFloat64(3) = %v, %v", v, err)
	}
}
