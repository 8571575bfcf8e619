package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/notice"
	"github.com/yildizm/MeetSum/internal/presenter"
)

type fakeAnalyzer struct {
	value any
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ client.Upload) (*client.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &client.Response{Value: f.value, StatusCode: 200}, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func sampleValue() map[string]any {
	return map[string]any{"minutes": map[string]any{
		"executive_summary": "Quarterly planning",
		"action_items":      []any{map[string]any{"owner": "Ana", "task": "Draft plan"}},
		"decisions":         []any{"Ship v2"},
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, a Analyzer, cb *fakeClipboard) *Model {
	t.Helper()
	up := client.Upload{Filename: "standup.txt", Content: []byte("Ana: hello")}
	opts := Options{
		Analyzer:    a,
		Upload:      &up,
		DownloadDir: t.TempDir(),
		Now:         func() time.Time { return fixedNow },
	}
	if cb != nil {
		opts.Clipboard = cb
	}
	return New(opts)
}

// analyze runs the upload command synchronously and feeds its result back.
func analyze(t *testing.T, m *Model) {
	t.Helper()
	require.NotNil(t, m.startAnalysis())
	require.Equal(t, StateLoading, m.State())
	m.Update(analyzeCmd(context.Background(), m.analyzer, *m.upload)())
}

func noticeText(t *testing.T, m *Model) string {
	t.Helper()
	n, ok := m.Notice()
	require.True(t, ok, "expected a notice")
	return n.Text()
}

func TestModel_AnalysisSuccess(t *testing.T) {
	a := &fakeAnalyzer{value: sampleValue()}
	m := newTestModel(t, a, nil)

	analyze(t, m)

	assert.Equal(t, StateResults, m.State())
	assert.False(t, m.InFlight())
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, presenter.DefaultTab, m.Presenter().Selected())
	assert.Contains(t, m.View(), "Quarterly planning")
	assert.Contains(t, m.View(), "Action Items")
}

func TestModel_AnalysisFailureReturnsToUpload(t *testing.T) {
	a := &fakeAnalyzer{err: client.NewStatusError(500, "")}
	m := newTestModel(t, a, nil)

	analyze(t, m)

	assert.Equal(t, StateUpload, m.State())
	assert.False(t, m.InFlight())
	assert.False(t, m.Presenter().HasResult())
	assert.Equal(t, "Error: Analysis failed", noticeText(t, m))
}

func TestModel_FailureKeepsPreviousResult(t *testing.T) {
	a := &fakeAnalyzer{value: sampleValue()}
	m := newTestModel(t, a, nil)
	analyze(t, m)

	a.err = errors.New("connection refused")
	analyze(t, m)

	assert.Equal(t, StateUpload, m.State())
	assert.True(t, m.Presenter().HasResult())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateResults, m.State())
	assert.Contains(t, m.View(), "Quarterly planning")
}

func TestModel_BusyWhileInFlight(t *testing.T) {
	a := &fakeAnalyzer{value: sampleValue()}
	m := newTestModel(t, a, nil)

	require.NotNil(t, m.Init())
	assert.True(t, m.InFlight())

	m.Update(runes("r"))
	assert.Equal(t, notice.Busy().Text(), noticeText(t, m))
	assert.Equal(t, StateLoading, m.State())

	m.startAnalysis()
	assert.Equal(t, notice.Busy().Text(), noticeText(t, m))
}

func TestModel_TabNavigation(t *testing.T) {
	m := New(Options{Initial: sampleValue(), Now: func() time.Time { return fixedNow }})
	require.Equal(t, StateResults, m.State())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "action_items", m.Presenter().Selected())
	assert.Contains(t, m.View(), "Draft plan")

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	tabs := m.Presenter().Tabs()
	assert.Equal(t, tabs[len(tabs)-1].Name, m.Presenter().Selected())

	m.Update(runes("3"))
	assert.Equal(t, "decisions", m.Presenter().Selected())
	assert.Contains(t, m.View(), "• Ship v2")

	m.Update(runes("4"))
	assert.Equal(t, "risks", m.Presenter().Selected())
	assert.Contains(t, m.View(), "No risks found in the transcript")
}

func TestModel_Copy(t *testing.T) {
	cb := &fakeClipboard{}
	m := newTestModel(t, &fakeAnalyzer{value: sampleValue()}, cb)
	analyze(t, m)

	m.Update(runes("c"))
	assert.Equal(t, "Results copied to clipboard", noticeText(t, m))

	expected, err := m.Presenter().ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, expected, cb.text)

	cb.err = errors.New("no tty")
	m.Update(runes("c"))
	assert.Equal(t, "Failed to copy to clipboard", noticeText(t, m))
}

func TestModel_CopyWithoutClipboard(t *testing.T) {
	m := New(Options{Initial: sampleValue()})
	m.Update(runes("c"))
	assert.Equal(t, "Failed to copy to clipboard", noticeText(t, m))
}

func TestModel_Download(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{value: sampleValue()}, nil)
	analyze(t, m)

	m.Update(runes("d"))
	name := "meeting-analysis-" + "1772445600000" + ".json"
	assert.Equal(t, "Downloaded as "+name, noticeText(t, m))

	data, err := os.ReadFile(filepath.Join(m.downloadDir, name))
	require.NoError(t, err)
	expected, err := m.Presenter().ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
}

func TestModel_ResetThenExport(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{value: sampleValue()}, &fakeClipboard{})
	analyze(t, m)

	m.Update(runes("n"))
	assert.Equal(t, StateUpload, m.State())
	assert.False(t, m.Presenter().HasResult())

	// export keys only act on the results screen; drive the handlers directly
	m.copyResult()
	assert.Equal(t, "No results to copy", noticeText(t, m))
	m.downloadResult()
	assert.Equal(t, "No results to download", noticeText(t, m))
}

func TestModel_NoticeExpiry(t *testing.T) {
	m := New(Options{Initial: sampleValue()})

	m.Update(runes("?"))
	first := m.noticeID
	assert.Contains(t, noticeText(t, m), "How to use:")

	m.Update(runes("c"))
	m.Update(noticeExpiredMsg{id: first})
	_, ok := m.Notice()
	assert.True(t, ok, "stale expiry must not clear a newer notice")

	m.Update(noticeExpiredMsg{id: m.noticeID})
	_, ok = m.Notice()
	assert.False(t, ok)
}

func TestModel_LoadingSteps(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{value: sampleValue()}, nil)
	m.startAnalysis()

	m.Update(tickMsg(fixedNow.Add(500 * time.Millisecond)))
	assert.Equal(t, 0, m.step)
	assert.Contains(t, m.View(), "● Reading transcript")

	m.Update(tickMsg(fixedNow.Add(2100 * time.Millisecond)))
	assert.Equal(t, 1, m.step)
	assert.Contains(t, m.View(), "✓ Reading transcript")

	m.Update(tickMsg(fixedNow.Add(30 * time.Second)))
	assert.Equal(t, len(loadingSteps)-1, m.step)
}

func TestModel_ResultMsgReplacesResult(t *testing.T) {
	m := New(Options{Initial: sampleValue(), Source: "a.json"})
	m.Update(runes("3"))

	m.Update(ResultMsg{Value: map[string]any{"executive_summary": "Updated"}, Source: "dir/a.json"})
	assert.Equal(t, presenter.DefaultTab, m.Presenter().Selected())
	assert.Contains(t, m.View(), "Updated")
	assert.Equal(t, "Reloaded a.json", noticeText(t, m))
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{value: sampleValue()}, nil)
	m.startAnalysis()
	require.NotNil(t, m.cancel)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_WindowSize(t *testing.T) {
	m := New(Options{Initial: sampleValue()})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 22, m.viewport.Height)
	assert.Equal(t, 100, m.viewport.Width)
}

func TestThemeByName(t *testing.T) {
	th, ok := ThemeByName("minimal")
	assert.True(t, ok)
	assert.Equal(t, "minimal", th.Name)

	th, ok = ThemeByName("neon")
	assert.False(t, ok)
	assert.Equal(t, "default", th.Name)
}
