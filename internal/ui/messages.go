package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/MeetSum/internal/client"
)

// Analyzer uploads a transcript and returns the backend's answer.
type Analyzer interface {
	Analyze(ctx context.Context, up client.Upload) (*client.Response, error)
}

// ResultMsg replaces the displayed result, for example after a watched
// file changed on disk.
type ResultMsg struct {
	Value  any
	Source string
}

// ErrorMsg reports a failure from outside the model.
type ErrorMsg struct {
	Err error
}

type analysisCompleteMsg struct {
	response *client.Response
}

type analysisErrorMsg struct {
	err error
}

type tickMsg time.Time

type noticeExpiredMsg struct {
	id int
}

const (
	tickInterval  = 100 * time.Millisecond
	stepInterval  = 2 * time.Second
	noticeTimeout = 4 * time.Second
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// loadingSteps are shown while the backend works.
var loadingSteps = []string{
	"Reading transcript",
	"Extracting insights",
	"Finalizing",
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// analyzeCmd performs the upload off the event loop.
func analyzeCmd(ctx context.Context, a Analyzer, up client.Upload) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.Analyze(ctx, up)
		if err != nil {
			return analysisErrorMsg{err: err}
		}
		return analysisCompleteMsg{response: resp}
	}
}
