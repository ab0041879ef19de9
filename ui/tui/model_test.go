package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appvideo "video-cutter/application/video"
	"video-cutter/domain/session"
	"video-cutter/infrastructure/mpv"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Fakes ---

type fakePlayer struct {
	pos      float64
	paused   []bool
	seeks    []float64
	restarts []mpv.Window
	shown    []string
	closed   bool
}

func (p *fakePlayer) Show(path string, w mpv.Window) error {
	p.shown = append(p.shown, path)
	return nil
}

func (p *fakePlayer) Restart(w mpv.Window, play bool) error {
	p.restarts = append(p.restarts, w)
	return nil
}

func (p *fakePlayer) TimePos() (float64, error) { return p.pos, nil }

func (p *fakePlayer) Seek(seconds float64) error {
	p.seeks = append(p.seeks, seconds)
	p.pos = seconds
	return nil
}

func (p *fakePlayer) SetPause(paused bool) error {
	p.paused = append(p.paused, paused)
	return nil
}

func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

type fakeDurations struct {
	values      map[string]float64
	invalidated []string
}

func (d *fakeDurations) Duration(ctx context.Context, path string) (float64, bool) {
	v, ok := d.values[path]
	return v, ok
}

func (d *fakeDurations) Invalidate(path string) {
	d.invalidated = append(d.invalidated, path)
}

type memStore struct {
	state session.State
	saves int
}

func (s *memStore) Load() session.State { return s.state }

func (s *memStore) Save(st session.State) error {
	s.state = st
	s.saves++
	return nil
}

type fakeFiles map[string]bool

func (f fakeFiles) IsRegularFile(path string) bool { return f[path] }

type fakeCutter struct {
	err error
}

func (c *fakeCutter) Cut(ctx context.Context, in appvideo.CutInput) (*appvideo.CutResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &appvideo.CutResult{OutputPath: in.OutputPath}, nil
}

var movie = filepath.Join("videos", "movie.mp4")

func testConfig(store *memStore) Config {
	return Config{
		Runner:     appvideo.NewRunner(&fakeCutter{}),
		Durations:  &fakeDurations{values: map[string]float64{movie: 60}},
		Session:    store,
		Files:      fakeFiles{movie: true},
		LoopMargin: 120 * time.Millisecond,
		SeekStep:   time.Second,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func withPlayer(m *Model) *fakePlayer {
	p := &fakePlayer{}
	m.Update(playerReadyMsg{player: p, path: m.file})
	return p
}

func TestNewModel_RestoresSession(t *testing.T) {
	store := &memStore{state: session.State{File: movie, Start: "abc", End: "0:20", LastDir: "elsewhere"}}

	m := NewModel(context.Background(), testConfig(store))

	if m.file != movie {
		t.Errorf("file = %q, want %q", m.file, movie)
	}
	if m.lastDir != "videos" {
		t.Errorf("lastDir = %q, want videos", m.lastDir)
	}
	if got := m.startInput.Value(); got != "00:00:00.000" {
		t.Errorf("start = %q, want 00:00:00.000", got)
	}
	if got := m.endInput.Value(); got != "00:00:20.000" {
		t.Errorf("end = %q, want 00:00:20.000", got)
	}
	if !m.durationKnown || m.duration != 60 {
		t.Errorf("duration = %v, %v", m.duration, m.durationKnown)
	}
}

func TestNewModel_SkipsMissingSessionFile(t *testing.T) {
	gone := filepath.Join("old", "gone.mp4")
	store := &memStore{state: session.State{File: gone, Start: "1", End: "2"}}

	m := NewModel(context.Background(), testConfig(store))

	if m.file != "" {
		t.Errorf("file = %q, want none", m.file)
	}
	if m.lastDir != "old" {
		t.Errorf("lastDir = %q, want old", m.lastDir)
	}
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should not start playback without a file")
	}
}

func TestNewModel_PreselectedFileUsesDefaults(t *testing.T) {
	store := &memStore{state: session.State{File: movie, Start: "5", End: "6"}}
	cfg := testConfig(store)
	cfg.File = movie

	m := NewModel(context.Background(), cfg)

	if got := m.endInput.Value(); got != "00:01:00.000" {
		t.Errorf("end = %q, want probed duration 00:01:00.000", got)
	}
	if store.state.Start != "00:00:00.000" {
		t.Errorf("session start = %q, want it saved after selection", store.state.Start)
	}
}

func TestModel_EditStartClampsToDuration(t *testing.T) {
	store := &memStore{}
	cfg := testConfig(store)
	cfg.File = movie
	m := NewModel(context.Background(), cfg)
	p := withPlayer(m)

	m.Update(key("s"))
	if m.focus != focusStart {
		t.Fatalf("focus = %v, want start", m.focus)
	}

	m.startInput.SetValue("90")
	m.Update(key("enter"))

	if m.focus != focusNone {
		t.Errorf("focus = %v, want none after enter", m.focus)
	}
	if m.rng != (Range{StartMs: 59_000, EndMs: 60_000}) {
		t.Errorf("range = %+v", m.rng)
	}
	if got := m.startInput.Value(); got != "00:00:59.000" {
		t.Errorf("start = %q", got)
	}
	if len(p.restarts) != 1 {
		t.Fatalf("restarts = %d, want 1", len(p.restarts))
	}
	if w := p.restarts[0]; w.Start != 59 || w.End != 59.88 {
		t.Errorf("loop window = %+v, want {59 59.88}", w)
	}
	if store.state.Start != "00:00:59.000" || store.state.End != "00:01:00.000" {
		t.Errorf("session = %+v", store.state)
	}
}

func TestModel_EditEndBeforeStartMovesStart(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)

	m.startInput.SetValue("30")
	m.Update(key("s"))
	m.Update(key("tab")) // commits start, moves to end
	if m.focus != focusEnd {
		t.Fatalf("focus = %v, want end", m.focus)
	}

	m.endInput.SetValue("10")
	m.Update(key("esc"))

	if m.rng != (Range{StartMs: 9_999, EndMs: 10_000}) {
		t.Errorf("range = %+v", m.rng)
	}
}

func TestModel_SeekIsClampedToLoop(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)
	m.startInput.SetValue("10")
	m.endInput.SetValue("20")
	m.commit(FieldStart)

	p := withPlayer(m)
	p.pos = 19.5

	m.Update(key("right"))
	if got := p.seeks[len(p.seeks)-1]; got != 19.88 {
		t.Errorf("seek = %v, want 19.88", got)
	}

	p.pos = 10.2
	m.Update(key("left"))
	if got := p.seeks[len(p.seeks)-1]; got != 10 {
		t.Errorf("seek = %v, want 10", got)
	}
}

func TestModel_TogglePause(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)
	p := withPlayer(m)

	m.Update(key("p"))
	m.Update(key("p"))

	if len(p.paused) != 2 || !p.paused[0] || p.paused[1] {
		t.Errorf("pause calls = %v, want [true false]", p.paused)
	}
}

func TestModel_PlayerUnavailable(t *testing.T) {
	m := NewModel(context.Background(), testConfig(&memStore{}))

	m.Update(playerReadyMsg{err: errors.New("mpv was not found.")})

	if !strings.Contains(m.status, "Playback unavailable") {
		t.Errorf("status = %q", m.status)
	}
	if m.player != nil {
		t.Error("player should stay nil")
	}
}

func TestModel_CutWithoutFile(t *testing.T) {
	m := NewModel(context.Background(), testConfig(&memStore{}))

	m.Update(key("c"))

	if m.notice == nil || !m.notice.failed {
		t.Fatalf("notice = %+v, want failure notice", m.notice)
	}
	if m.form != nil {
		t.Error("save form should not open without a file")
	}

	m.Update(key("x"))
	if m.notice != nil {
		t.Error("any key should dismiss the notice")
	}
}

func TestModel_CutOpensSaveForm(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)

	m.Update(key("c"))

	if m.mode != modeSave || m.form == nil {
		t.Fatalf("mode = %v, want save form", m.mode)
	}
	if want := filepath.Join("videos", "movie_recorte.mp4"); m.savePath != want {
		t.Errorf("savePath = %q, want %q", m.savePath, want)
	}

	m.Update(key("esc"))
	if m.form != nil || m.mode != modeMain {
		t.Error("esc should close the form")
	}
}

func TestModel_CutOutcome(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)

	if cmd := m.startCut("clip.mp4"); cmd == nil {
		t.Fatal("startCut() returned no command")
	}

	m.Update(cutDoneMsg{Result: &appvideo.CutResult{OutputPath: "clip.mp4"}})
	if m.notice == nil || m.notice.failed || !strings.Contains(m.notice.body, "clip.mp4") {
		t.Errorf("notice = %+v, want success with path", m.notice)
	}

	m.notice = nil
	m.Update(cutDoneMsg{Err: errors.New("ffmpeg could not produce the clip.")})
	if m.notice == nil || !m.notice.failed {
		t.Errorf("notice = %+v, want failure", m.notice)
	}
	if m.status != "Cut failed." {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_StartCutWhileBusy(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	cfg := testConfig(&memStore{})
	cfg.File = movie
	cfg.Runner = appvideo.NewRunner(blockingCutter(release))
	m := NewModel(context.Background(), cfg)

	if cmd := m.startCut("a.mp4"); cmd == nil {
		t.Fatal("first startCut() returned no command")
	}
	if cmd := m.startCut("b.mp4"); cmd != nil {
		t.Error("second startCut() should be refused")
	}
	if m.status != "A cut is already running." {
		t.Errorf("status = %q", m.status)
	}

	m.Update(key("c"))
	if m.form != nil {
		t.Error("save form should stay closed while busy")
	}
}

type blockingCutter chan struct{}

func (c blockingCutter) Cut(ctx context.Context, in appvideo.CutInput) (*appvideo.CutResult, error) {
	<-c
	return &appvideo.CutResult{OutputPath: in.OutputPath}, nil
}

func TestModel_FileChangedReprobes(t *testing.T) {
	durations := &fakeDurations{values: map[string]float64{movie: 60}}
	cfg := testConfig(&memStore{})
	cfg.Durations = durations
	cfg.File = movie
	m := NewModel(context.Background(), cfg)
	p := withPlayer(m)

	durations.values[movie] = 30
	m.Update(fileChangedMsg(movie))

	if len(durations.invalidated) != 1 || durations.invalidated[0] != movie {
		t.Errorf("invalidated = %v", durations.invalidated)
	}
	if m.duration != 30 {
		t.Errorf("duration = %v, want 30", m.duration)
	}
	if got := m.endInput.Value(); got != "00:00:30.000" {
		t.Errorf("end = %q, want clamped to new duration", got)
	}
	if len(p.shown) != 1 {
		t.Errorf("player reloads = %d, want 1", len(p.shown))
	}

	m.Update(fileChangedMsg("other.mp4"))
	if len(durations.invalidated) != 1 {
		t.Error("changes of other files must be ignored")
	}
}

func TestModel_QuitClosesPlayer(t *testing.T) {
	store := &memStore{}
	cfg := testConfig(store)
	cfg.File = movie
	m := NewModel(context.Background(), cfg)
	p := withPlayer(m)
	saves := store.saves

	_, cmd := m.Update(key("q"))

	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !p.closed {
		t.Error("player not closed")
	}
	if store.saves != saves+1 {
		t.Errorf("session saves = %d, want %d", store.saves, saves+1)
	}
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}

	m.shutdown()
	if store.saves != saves+1 {
		t.Error("shutdown should run once")
	}
}

func TestModel_View(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	m := NewModel(context.Background(), cfg)

	view := m.View()
	for _, want := range []string{"Video Cutter", movie, "00:01:00.000"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_StartCutWithoutRunner(t *testing.T) {
	cfg := testConfig(&memStore{})
	cfg.File = movie
	cfg.Runner = nil
	m := NewModel(context.Background(), cfg)

	if cmd := m.startCut(filepath.Join("videos", "out.mp4")); cmd != nil {
		t.Error("startCut() should not return a command without a runner")
	}
	if m.notice == nil || !m.notice.failed || m.notice.body != "Cutting is not available." {
		t.Errorf("notice = %+v, want failure notice", m.notice)
	}
	if m.busy() {
		t.Error("busy() = true without a runner")
	}
}
