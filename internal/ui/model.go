// Package ui is the terminal front end: an upload screen, a loading screen
// and a tabbed results view with copy and download.
package ui

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/export"
	"github.com/yildizm/MeetSum/internal/logger"
	"github.com/yildizm/MeetSum/internal/notice"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// State is the screen being shown.
type State int

const (
	StateUpload State = iota
	StateLoading
	StateResults
)

func (s State) String() string {
	switch s {
	case StateUpload:
		return "upload"
	case StateLoading:
		return "loading"
	case StateResults:
		return "results"
	default:
		return "unknown"
	}
}

// Options configures a Model.
type Options struct {
	// Presenter holds the result. A TextRenderer presenter is created when nil.
	Presenter *presenter.Presenter

	Analyzer Analyzer

	// Upload is analyzed on start when Analyzer is set
	Upload *client.Upload

	// Initial is shown on start when no upload is given
	Initial any
	Source  string

	Clipboard   export.Clipboard
	DownloadDir string
	Theme       string
	Now         func() time.Time
	Logger      *logger.Logger
}

// Model is the bubbletea model for the presenter.
type Model struct {
	presenter   *presenter.Presenter
	analyzer    Analyzer
	upload      *client.Upload
	clipboard   export.Clipboard
	downloadDir string
	now         func() time.Time
	log         *logger.Logger

	keys     keyMap
	styles   Styles
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	state        State
	source       string
	analyzedAt   time.Time
	loadingSince time.Time
	step         int
	spinnerFrame int
	inFlight     bool
	cancel       context.CancelFunc

	notice   *notice.Notice
	noticeID int
	quitting bool
}

// New creates a model. With an upload and analyzer it starts in the
// loading state, with Initial it starts on the results.
func New(opts Options) *Model {
	p := opts.Presenter
	if p == nil {
		p = presenter.New(presenter.WithRenderer(presenter.TextRenderer{}))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	theme, _ := ThemeByName(opts.Theme)

	m := &Model{
		presenter:   p,
		analyzer:    opts.Analyzer,
		upload:      opts.Upload,
		clipboard:   opts.Clipboard,
		downloadDir: opts.DownloadDir,
		now:         now,
		log:         log.WithComponent("ui"),
		keys:        defaultKeyMap(),
		styles:      newStyles(theme),
		viewport:    viewport.New(80, 20),
		state:       StateUpload,
		source:      opts.Source,
	}
	if m.downloadDir == "" {
		m.downloadDir = "."
	}
	if opts.Initial != nil {
		m.showResult(opts.Initial, opts.Source)
	}
	return m
}

// Init starts the analysis when one was requested.
func (m *Model) Init() tea.Cmd {
	if m.upload != nil && m.analyzer != nil {
		return m.startAnalysis()
	}
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case analysisCompleteMsg:
		return m.handleAnalysisComplete(msg)

	case analysisErrorMsg:
		return m.handleAnalysisError(msg)

	case ResultMsg:
		m.showResult(msg.Value, msg.Source)
		return m, m.setNotice(notice.Info("Reloaded " + filepath.Base(msg.Source)))

	case ErrorMsg:
		return m, m.setNotice(notice.Failure("Error: " + msg.Err.Error()))

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil
	}

	if m.state == StateResults {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.ready = true

	// header, tab bar, notice line and help line
	h := msg.Height - 8
	if h < 3 {
		h = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = h
	m.refreshContent()
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		return m, m.setNotice(notice.Help())
	}

	switch m.state {
	case StateLoading:
		if key.Matches(msg, m.keys.Analyze) {
			return m, m.setNotice(notice.Busy())
		}
		return m, nil

	case StateUpload:
		switch {
		case key.Matches(msg, m.keys.Analyze):
			return m, m.startAnalysis()
		case key.Matches(msg, m.keys.Back) && m.presenter.HasResult():
			m.state = StateResults
			m.refreshContent()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.moveTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.moveTab(-1)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResult()
	case key.Matches(msg, m.keys.Download):
		return m, m.downloadResult()
	case key.Matches(msg, m.keys.Analyze):
		return m, m.startAnalysis()
	case key.Matches(msg, m.keys.New):
		m.presenter.Reset()
		m.state = StateUpload
		m.analyzedAt = time.Time{}
		m.refreshContent()
	case isTabDigit(msg):
		m.selectIndex(int(msg.Runes[0] - '1'))
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func isTabDigit(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9'
}

func (m *Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.state != StateLoading {
		return m, nil
	}
	m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
	step := int(t.Sub(m.loadingSince) / stepInterval)
	if step >= len(loadingSteps) {
		step = len(loadingSteps) - 1
	}
	if step > m.step {
		m.step = step
	}
	return m, tick()
}

func (m *Model) handleAnalysisComplete(msg analysisCompleteMsg) (tea.Model, tea.Cmd) {
	m.finishAnalysis()
	source := m.source
	if m.upload != nil {
		source = m.upload.Filename
	}
	m.showResult(msg.response.Value, source)
	m.log.InfoWithFields("analysis displayed", []logger.Field{
		logger.F("tabs", len(m.presenter.Tabs())),
		logger.Duration(msg.response.Duration),
	})
	return m, nil
}

func (m *Model) handleAnalysisError(msg analysisErrorMsg) (tea.Model, tea.Cmd) {
	m.finishAnalysis()
	m.state = StateUpload
	m.log.Warn("analysis failed: %v", msg.err)
	return m, m.setNotice(notice.TransportFailure(msg.err))
}

// startAnalysis begins an upload unless one is running.
func (m *Model) startAnalysis() tea.Cmd {
	if m.inFlight {
		return m.setNotice(notice.Busy())
	}
	if m.analyzer == nil || m.upload == nil {
		return m.setNotice(notice.Failure("Please select a file"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.inFlight = true
	m.state = StateLoading
	m.step = 0
	m.loadingSince = m.now()
	m.notice = nil
	return tea.Batch(analyzeCmd(ctx, m.analyzer, *m.upload), tick())
}

func (m *Model) finishAnalysis() {
	m.inFlight = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) showResult(value any, source string) {
	m.presenter.Ingest(value)
	m.source = source
	m.analyzedAt = m.now()
	m.state = StateResults
	m.viewport.GotoTop()
	m.refreshContent()
}

func (m *Model) moveTab(delta int) {
	tabs := m.presenter.Tabs()
	if len(tabs) == 0 {
		return
	}
	cur := 0
	for i, t := range tabs {
		if t.Active {
			cur = i
			break
		}
	}
	next := (cur + delta + len(tabs)) % len(tabs)
	m.selectIndex(next)
}

func (m *Model) selectIndex(i int) {
	tabs := m.presenter.Tabs()
	if i < 0 || i >= len(tabs) {
		return
	}
	m.presenter.SelectTab(tabs[i].Name)
	m.viewport.GotoTop()
	m.refreshContent()
}

func (m *Model) copyResult() tea.Cmd {
	text, err := m.presenter.ExportJSON()
	if err != nil {
		return m.setNotice(notice.ExportFailure(notice.ActionCopy, err))
	}
	if m.clipboard == nil {
		return m.setNotice(notice.ClipboardUnavailable(export.ErrNoTerminal))
	}
	if err := m.clipboard.Copy(text); err != nil {
		m.log.Warn("clipboard write failed: %v", err)
		return m.setNotice(notice.ClipboardUnavailable(err))
	}
	return m.setNotice(notice.Copied())
}

func (m *Model) downloadResult() tea.Cmd {
	text, err := m.presenter.ExportJSON()
	if err != nil {
		return m.setNotice(notice.ExportFailure(notice.ActionDownload, err))
	}
	path, err := export.WriteFile(m.downloadDir, text, m.now())
	if err != nil {
		m.log.Warn("download failed: %v", err)
		return m.setNotice(notice.DownloadFailed(err))
	}
	m.log.Debug("results written to %s", path)
	return m.setNotice(notice.Downloaded(filepath.Base(path)))
}

// setNotice shows n and schedules its removal.
func (m *Model) setNotice(n notice.Notice) tea.Cmd {
	m.noticeID++
	m.notice = &n
	return expireNotice(m.noticeID)
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.wrap(m.presenter.Render()))
}

// State returns the current screen.
func (m *Model) State() State { return m.state }

// Notice returns the visible notice, if any.
func (m *Model) Notice() (notice.Notice, bool) {
	if m.notice == nil {
		return notice.Notice{}, false
	}
	return *m.notice, true
}

// Presenter exposes the held presenter.
func (m *Model) Presenter() *presenter.Presenter { return m.presenter }

// InFlight reports whether an analysis is running.
func (m *Model) InFlight() bool { return m.inFlight }

func tabNumber(i int) string {
	if i < 9 {
		return strconv.Itoa(i + 1)
	}
	return " "
}
