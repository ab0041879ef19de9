package mpv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Window is the looped preview range in seconds
type Window struct {
	Start float64
	End   float64
}

// Player is a running mpv process controlled over IPC
type Player struct {
	cmd    *exec.Cmd
	client *Client
	socket string
}

// SocketPath returns a per-process IPC socket path
func SocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("video-cutter-mpv-%d.sock", os.Getpid()))
}

// LaunchArgs returns the mpv arguments for previewing videoPath over w
func LaunchArgs(socketPath, videoPath string, w Window) []string {
	return []string{
		"--input-ipc-server=" + socketPath,
		"--force-window=yes",
		"--keep-open=yes",
		"--really-quiet",
		"--start=" + formatSeconds(w.Start),
		"--ab-loop-a=" + formatSeconds(w.Start),
		"--ab-loop-b=" + formatSeconds(w.End),
		videoPath,
	}
}

// Launch starts mpv (non-blocking) and connects to its IPC socket
func Launch(ctx context.Context, mpvPath, videoPath string, w Window) (*Player, error) {
	socket := SocketPath()
	_ = os.Remove(socket)

	cmd := exec.Command(mpvPath, LaunchArgs(socket, videoPath, w)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting mpv: %w", err)
	}

	client := NewClient(socket)
	if err := connectWithRetry(ctx, client); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	return &Player{cmd: cmd, client: client, socket: socket}, nil
}

// connectWithRetry waits for mpv to create its socket
func connectWithRetry(ctx context.Context, client *Client) error {
	deadline := time.Now().Add(3 * time.Second)
	for {
		err := client.Connect()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Show loads videoPath and loops w, starting playback at w.Start
func (p *Player) Show(videoPath string, w Window) error {
	if err := p.client.LoadFile(videoPath); err != nil {
		return err
	}
	return p.Restart(w, true)
}

// Restart applies a new loop window and jumps to its start
func (p *Player) Restart(w Window, play bool) error {
	if err := p.client.SetLoop(w.Start, w.End); err != nil {
		return err
	}
	if err := p.client.Seek(w.Start); err != nil {
		return err
	}
	return p.client.SetPause(!play)
}

// Close quits mpv and releases the socket
func (p *Player) Close() error {
	if p.client.IsConnected() {
		_ = p.client.Quit()
		_ = p.client.Close()
	}

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = p.cmd.Process.Kill()
		<-done
	}

	_ = os.Remove(p.socket)
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// TimePos returns the playhead position in seconds
func (p *Player) TimePos() (float64, error) {
	return p.client.TimePos()
}

// Seek moves the playhead to seconds
func (p *Player) Seek(seconds float64) error {
	return p.client.Seek(seconds)
}

// SetPause pauses or resumes playback
func (p *Player) SetPause(paused bool) error {
	return p.client.SetPause(paused)
}
