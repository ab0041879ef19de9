package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	appvideo "video-cutter/application/video"
	"video-cutter/domain/session"
	"video-cutter/domain/video"
	"video-cutter/infrastructure/mpv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	// tickInterval is the interval for polling the playhead
	tickInterval = 200 * time.Millisecond
	// sliderWidth is the width of the playhead line in cells
	sliderWidth = 48
)

// Player controls the external preview player
type Player interface {
	Show(path string, w mpv.Window) error
	Restart(w mpv.Window, play bool) error
	TimePos() (float64, error)
	Seek(seconds float64) error
	SetPause(paused bool) error
	Close() error
}

// PlayerFactory starts a player showing path looped over w
type PlayerFactory func(ctx context.Context, path string, w mpv.Window) (Player, error)

// WatchFunc reports changes of path on changes until ctx is cancelled
type WatchFunc func(ctx context.Context, path string, changes chan<- string) error

// Durations is a per-path duration cache
type Durations interface {
	Duration(ctx context.Context, path string) (float64, bool)
	Invalidate(path string)
}

// Config holds the collaborators of the preview tool
type Config struct {
	Runner     *appvideo.Runner // nil disables cutting
	Durations  Durations
	Session    session.Store
	Files      video.FileChecker
	OpenPlayer PlayerFactory // nil disables playback
	PlayerHint string        // shown when playback is disabled
	Watch      WatchFunc     // nil disables reloading on change
	LoopMargin time.Duration
	SeekStep   time.Duration
	File       string // preselected video, overrides the saved session
	Logger     *zap.Logger
}

type mode int

const (
	modeMain mode = iota
	modeOpen
	modeSave
)

type focus int

const (
	focusNone focus = iota
	focusStart
	focusEnd
)

// tickMsg is sent on every tick interval to refresh the playhead
type tickMsg time.Time

// playerReadyMsg carries the result of launching the player
type playerReadyMsg struct {
	player Player
	path   string
	err    error
}

// cutDoneMsg carries the outcome of a background cut
type cutDoneMsg appvideo.Outcome

// fileChangedMsg is sent when the previewed file changes on disk
type fileChangedMsg string

// notice is a modal message dismissed by any key
type notice struct {
	title  string
	body   string
	failed bool
}

// Model is the Bubbletea model of the preview tool
type Model struct {
	cfg    Config
	ctx    context.Context
	logger *zap.Logger

	mode     mode
	form     *huh.Form
	openPath string
	savePath string

	file          string
	lastDir       string
	duration      float64
	durationKnown bool
	rng           Range

	startInput textinput.Model
	endInput   textinput.Model
	focus      focus

	player    Player
	launching bool
	paused    bool
	position  float64

	watchCtx    context.Context
	cancelWatch context.CancelFunc
	changes     chan string

	spinner  spinner.Model
	status   string
	notice   *notice
	width    int
	quitting bool
	closed   bool
}

// NewModel creates the preview model and restores the saved session
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &Model{
		cfg:        cfg,
		ctx:        ctx,
		logger:     cfg.Logger,
		startInput: newTimeInput(),
		endInput:   newTimeInput(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(playheadStyle)),
		status:     "Press o to open a video.",
	}

	if cfg.OpenPlayer == nil && cfg.PlayerHint != "" {
		m.status = cfg.PlayerHint
	}

	if cfg.File != "" {
		m.loadFile(cfg.File)
	} else {
		m.restoreSession()
	}

	return m
}

func newTimeInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "HH:MM:SS.mmm"
	ti.CharLimit = 16
	ti.Width = 14
	return ti
}

// restoreSession loads the saved file and times when the file still exists
func (m *Model) restoreSession() {
	if m.cfg.Session == nil {
		return
	}

	st := m.cfg.Session.Load()
	m.lastDir = st.LastDir
	if st.File == "" {
		return
	}

	m.lastDir = filepath.Dir(st.File)
	if !m.cfg.Files.IsRegularFile(st.File) {
		return
	}

	m.file = st.File
	m.probe()

	start, end := DefaultTimes(m.duration, m.durationKnown)
	if st.Start != "" {
		start = st.Start
	}
	if st.End != "" {
		end = st.End
	}
	m.startInput.SetValue(start)
	m.endInput.SetValue(end)
	m.normalize(FieldStart)
	m.position = float64(m.rng.StartMs) / 1000
	m.status = "Preview ready."
}

// loadFile selects path with default times
func (m *Model) loadFile(path string) {
	m.file = path
	m.lastDir = filepath.Dir(path)
	m.probe()

	start, end := DefaultTimes(m.duration, m.durationKnown)
	m.startInput.SetValue(start)
	m.endInput.SetValue(end)
	m.normalize(FieldStart)
	m.position = float64(m.rng.StartMs) / 1000
	m.status = "Loading preview..."
	m.saveSession()
}

// Init starts playback and the file watcher for a restored file
func (m *Model) Init() tea.Cmd {
	if m.file == "" {
		return nil
	}
	return m.activateFile()
}

// activateFile points the player and the watcher at the current file
func (m *Model) activateFile() tea.Cmd {
	var cmds []tea.Cmd

	if m.cancelWatch != nil {
		m.cancelWatch()
		m.cancelWatch = nil
		m.changes = nil
	}
	if m.cfg.Watch != nil {
		ctx, cancel := context.WithCancel(m.ctx)
		changes := make(chan string, 1)
		path := m.file
		go func() {
			if err := m.cfg.Watch(ctx, path, changes); err != nil {
				m.logger.Debug("file watch stopped", zap.String("path", path), zap.Error(err))
			}
		}()
		m.watchCtx, m.cancelWatch, m.changes = ctx, cancel, changes
		cmds = append(cmds, waitForChange(ctx, changes))
	}

	switch {
	case m.player != nil:
		m.paused = false
		if err := m.player.Show(m.file, m.window()); err != nil {
			m.status = "Playback error: " + err.Error()
		} else {
			m.status = "Playing preview."
		}
	case m.cfg.OpenPlayer != nil && !m.launching:
		m.launching = true
		cmds = append(cmds, launchPlayer(m.ctx, m.cfg.OpenPlayer, m.file, m.window()))
	}

	return tea.Batch(cmds...)
}

func launchPlayer(ctx context.Context, open PlayerFactory, path string, w mpv.Window) tea.Cmd {
	return func() tea.Msg {
		p, err := open(ctx, path, w)
		return playerReadyMsg{player: p, path: path, err: err}
	}
}

func waitForChange(ctx context.Context, changes <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case path := <-changes:
			return fileChangedMsg(path)
		case <-ctx.Done():
			return nil
		}
	}
}

func waitForCut(done <-chan appvideo.Outcome) tea.Cmd {
	return func() tea.Msg {
		return cutDoneMsg(<-done)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model state
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case playerReadyMsg:
		return m.handlePlayerReady(msg)

	case tickMsg:
		if m.player == nil {
			return m, nil
		}
		if pos, err := m.player.TimePos(); err == nil {
			m.position = pos
		}
		return m, tickCmd()

	case fileChangedMsg:
		return m.handleFileChanged(string(msg))

	case cutDoneMsg:
		return m.handleCutDone(appvideo.Outcome(msg))

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.notice != nil {
		m.notice = nil
		return m, nil
	}

	if m.form != nil {
		if msg.String() == "esc" {
			m.closeForm()
			return m, nil
		}
		return m.updateForm(msg)
	}

	if m.focus != focusNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "o":
		return m.openFilePicker()
	case "tab", "s":
		return m, m.focusField(focusStart)
	case "e":
		return m, m.focusField(focusEnd)
	case " ", "space", "p":
		m.togglePause()
	case "left", "h":
		m.seek(-m.cfg.SeekStep.Milliseconds())
	case "right", "l":
		m.seek(m.cfg.SeekStep.Milliseconds())
	case "r":
		m.restartPreview()
	case "c", "enter":
		return m.openSaveForm()
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := FieldStart
	if m.focus == focusEnd {
		field = FieldEnd
	}

	switch msg.String() {
	case "enter", "esc":
		m.blurInputs()
		m.commit(field)
		return m, nil
	case "tab", "shift+tab":
		m.commit(field)
		next := focusEnd
		if m.focus == focusEnd {
			next = focusStart
		}
		return m, m.focusField(next)
	}

	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusStart:
		m.startInput, cmd = m.startInput.Update(msg)
	case focusEnd:
		m.endInput, cmd = m.endInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(f focus) tea.Cmd {
	m.blurInputs()
	m.focus = f
	if f == focusEnd {
		return m.endInput.Focus()
	}
	return m.startInput.Focus()
}

func (m *Model) blurInputs() {
	m.startInput.Blur()
	m.endInput.Blur()
	m.focus = focusNone
}

// commit normalizes both fields after field was edited
func (m *Model) commit(field Field) {
	if m.file == "" {
		return
	}
	m.normalize(field)
	m.restartPreview()
	m.saveSession()
}

func (m *Model) normalize(field Field) {
	m.rng = Normalize(m.startInput.Value(), m.endInput.Value(), m.duration, m.durationKnown, field)
	m.startInput.SetValue(m.rng.StartText())
	m.endInput.SetValue(m.rng.EndText())
}

func (m *Model) probe() {
	if m.file == "" || m.cfg.Durations == nil {
		m.duration, m.durationKnown = 0, false
		return
	}
	m.duration, m.durationKnown = m.cfg.Durations.Duration(m.ctx, m.file)
}

// window is the looped part of the selected range
func (m *Model) window() mpv.Window {
	return mpv.Window{
		Start: float64(m.rng.StartMs) / 1000,
		End:   float64(LoopEnd(m.rng, m.cfg.LoopMargin.Milliseconds())) / 1000,
	}
}

func (m *Model) handlePlayerReady(msg playerReadyMsg) (tea.Model, tea.Cmd) {
	m.launching = false
	if msg.err != nil {
		m.logger.Debug("player unavailable", zap.Error(msg.err))
		m.status = "Playback unavailable: " + msg.err.Error()
		return m, nil
	}

	m.player = msg.player
	m.paused = false
	m.status = "Playing preview."

	// another file was picked while the player was starting
	if msg.path != m.file && m.file != "" {
		if err := m.player.Show(m.file, m.window()); err != nil {
			m.status = "Playback error: " + err.Error()
		}
	}

	return m, tickCmd()
}

func (m *Model) handleFileChanged(path string) (tea.Model, tea.Cmd) {
	if path != m.file {
		return m, nil
	}

	var next tea.Cmd
	if m.watchCtx != nil {
		next = waitForChange(m.watchCtx, m.changes)
	}

	if !m.cfg.Files.IsRegularFile(path) {
		m.status = "The video was removed or replaced."
		return m, next
	}

	if m.cfg.Durations != nil {
		m.cfg.Durations.Invalidate(path)
	}
	m.probe()
	m.normalize(FieldStart)
	m.saveSession()
	m.status = "Video changed on disk, duration re-read."

	if m.player != nil {
		if err := m.player.Show(m.file, m.window()); err != nil {
			m.status = "Playback error: " + err.Error()
		}
	}

	return m, next
}

func (m *Model) togglePause() {
	if m.player == nil {
		return
	}
	m.paused = !m.paused
	if err := m.player.SetPause(m.paused); err != nil {
		m.status = "Playback error: " + err.Error()
		return
	}
	if m.paused {
		m.status = "Preview paused."
	} else {
		m.status = "Playing preview."
	}
}

func (m *Model) seek(deltaMs int64) {
	if m.player == nil || m.file == "" {
		return
	}

	pos, err := m.player.TimePos()
	if err != nil {
		pos = m.position
	}

	target := ClampSeek(video.Millis(pos), deltaMs, m.rng, m.cfg.LoopMargin.Milliseconds())
	m.position = float64(target) / 1000
	if err := m.player.Seek(m.position); err != nil {
		m.status = "Playback error: " + err.Error()
	}
}

func (m *Model) restartPreview() {
	if m.player == nil || m.file == "" {
		return
	}
	m.position = float64(m.rng.StartMs) / 1000
	if err := m.player.Restart(m.window(), !m.paused); err != nil {
		m.status = "Playback error: " + err.Error()
	}
}

func (m *Model) openFilePicker() (tea.Model, tea.Cmd) {
	m.openPath = ""
	m.form = newOpenForm(m.lastDir, &m.openPath)
	m.mode = modeOpen
	return m, m.form.Init()
}

func (m *Model) openSaveForm() (tea.Model, tea.Cmd) {
	if m.file == "" {
		m.notice = &notice{title: "Missing file", body: "Select a video file first.", failed: true}
		return m, nil
	}
	if m.busy() {
		m.status = "A cut is already running."
		return m, nil
	}

	m.savePath = SuggestedOutput(m.file)
	m.form = newSaveForm(&m.savePath)
	m.mode = modeSave
	return m, m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeMain
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		finished := m.mode
		m.closeForm()
		if finished == modeOpen {
			return m, m.selectFile(m.openPath)
		}
		return m, m.startCut(m.savePath)
	}

	return m, cmd
}

// selectFile switches the preview to path
func (m *Model) selectFile(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	m.loadFile(path)
	return m.activateFile()
}

// startCut runs the cut of the selected range in the background
func (m *Model) startCut(output string) tea.Cmd {
	if m.cfg.Runner == nil {
		m.notice = &notice{title: "Error", body: "Cutting is not available.", failed: true}
		return nil
	}

	start := strings.TrimSpace(m.startInput.Value())
	end := strings.TrimSpace(m.endInput.Value())
	if start == "" || end == "" {
		m.notice = &notice{title: "Missing times", body: "Enter a start and an end time.", failed: true}
		return nil
	}

	done, err := m.cfg.Runner.Start(m.ctx, appvideo.CutInput{
		InputPath:  m.file,
		Start:      start,
		End:        end,
		OutputPath: strings.TrimSpace(output),
	})
	if errors.Is(err, appvideo.ErrBusy) {
		m.status = "A cut is already running."
		return nil
	}
	if err != nil {
		m.notice = &notice{title: "Error", body: err.Error(), failed: true}
		return nil
	}

	m.status = "Cutting clip..."
	return tea.Batch(waitForCut(done), m.spinner.Tick)
}

func (m *Model) handleCutDone(o appvideo.Outcome) (tea.Model, tea.Cmd) {
	if o.Err != nil {
		m.logger.Debug("cut failed", zap.Error(o.Err))
		m.status = "Cut failed."
		m.notice = &notice{title: "Error", body: o.Err.Error(), failed: true}
		return m, nil
	}

	m.status = "Clip ready: " + o.Result.OutputPath
	m.notice = &notice{title: "Clip ready", body: "Video generated at:\n" + o.Result.OutputPath}
	m.saveSession()
	return m, nil
}

func (m *Model) busy() bool {
	return m.cfg.Runner != nil && m.cfg.Runner.Busy()
}

func (m *Model) saveSession() {
	if m.cfg.Session == nil {
		return
	}
	st := session.State{
		File:    m.file,
		Start:   strings.TrimSpace(m.startInput.Value()),
		End:     strings.TrimSpace(m.endInput.Value()),
		LastDir: m.lastDir,
	}
	if err := m.cfg.Session.Save(st); err != nil {
		m.logger.Debug("session not saved", zap.Error(err))
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.shutdown()
	return m, tea.Quit
}

// shutdown saves the session and releases the player and watcher
func (m *Model) shutdown() {
	if m.closed {
		return
	}
	m.closed = true

	m.saveSession()
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	if m.player != nil {
		if err := m.player.Close(); err != nil {
			m.logger.Debug("closing player", zap.Error(err))
		}
	}
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Video Cutter"))
	b.WriteString("\n")

	if m.notice != nil {
		b.WriteString(m.renderNotice())
		return b.String()
	}

	if m.form != nil {
		b.WriteString(m.form.View())
		return b.String()
	}

	file := dimStyle.Render("none")
	if m.file != "" {
		file = valueStyle.Render(m.file)
	}
	length := dimStyle.Render("unknown")
	if m.durationKnown {
		length = valueStyle.Render(video.FormatTimestamp(m.duration))
	}

	b.WriteString(labelStyle.Render("File") + file + "\n")
	b.WriteString(labelStyle.Render("Length") + length + "\n")
	b.WriteString(labelStyle.Render("Start") + m.startInput.View() + "\n")
	b.WriteString(labelStyle.Render("End") + m.endInput.View() + "\n\n")
	b.WriteString(m.renderSlider() + "\n")

	status := m.status
	if m.busy() {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status) + "\n")
	b.WriteString(helpStyle.Render("o open · s/e edit start/end · space pause · ←/→ seek · r restart · c cut · q quit"))

	return b.String()
}

func (m *Model) renderSlider() string {
	if m.file == "" || m.rng.EndMs <= m.rng.StartMs {
		return trackStyle.Render(strings.Repeat("─", sliderWidth))
	}

	frac := (m.position*1000 - float64(m.rng.StartMs)) / float64(m.rng.EndMs-m.rng.StartMs)
	frac = min(1, max(0, frac))
	idx := int(frac * float64(sliderWidth-1))

	line := trackStyle.Render(strings.Repeat("─", idx)) +
		playheadStyle.Render("●") +
		trackStyle.Render(strings.Repeat("─", sliderWidth-1-idx))

	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		dimStyle.Render(fmt.Sprintf("%s  %s", m.rng.StartText(), video.FormatTimestamp(m.position))),
	)
}

func (m *Model) renderNotice() string {
	style := noticeStyle
	if m.notice.failed {
		style = errorNoticeStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.notice.title),
		valueStyle.Render(m.notice.body),
		helpStyle.Render("press any key"),
	)
	return style.Render(body)
}

// Run starts the preview tool and blocks until it exits
func Run(ctx context.Context, cfg Config) error {
	m := NewModel(ctx, cfg)
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
