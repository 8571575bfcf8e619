package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/MeetSum/internal/notice"
)

// View renders the current state
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateLoading:
		body = m.renderLoading()
	case StateResults:
		body = m.renderResults()
	default:
		body = m.renderUpload()
	}

	if m.width > 0 && m.state != StateResults {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (m *Model) renderUpload() string {
	var lines []string
	lines = append(lines, m.styles.Title.Render("MeetSum"), "")

	if m.upload != nil {
		lines = append(lines,
			fmt.Sprintf("Transcript: %s (%s)", m.upload.Filename, humanSize(m.upload.Size())),
			"",
			m.styles.Muted.Render("Press r to analyze"))
	} else {
		lines = append(lines,
			"No transcript selected.",
			m.styles.Muted.Render("Run: meetsum analyze <meeting.txt>"))
	}
	if m.presenter.HasResult() {
		lines = append(lines, m.styles.Muted.Render("Press esc to return to the results"))
	}
	if n := m.renderNotice(); n != "" {
		lines = append(lines, "", n)
	}
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderLoading() string {
	spinner := m.styles.Spinner.Render(spinnerChars[m.spinnerFrame])
	name := ""
	if m.upload != nil {
		name = " " + m.upload.Filename
	}

	lines := []string{spinner + " Analyzing" + name, ""}
	for i, step := range loadingSteps {
		switch {
		case i < m.step:
			lines = append(lines, m.styles.StepDone.Render("✓ "+step))
		case i == m.step:
			lines = append(lines, m.styles.StepActive.Render("● "+step))
		default:
			lines = append(lines, m.styles.StepPending.Render("○ "+step))
		}
	}
	if n := m.renderNotice(); n != "" {
		lines = append(lines, "", n)
	}
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderResults() string {
	header := m.styles.Title.Render("Meeting Analysis")
	if m.source != "" {
		header += m.styles.Muted.Render("  " + m.source)
	}
	if !m.analyzedAt.IsZero() {
		header += m.styles.Muted.Render("  " + m.analyzedAt.Format("15:04:05"))
	}

	parts := []string{header, m.renderTabBar(), m.viewport.View()}
	if n := m.renderNotice(); n != "" {
		parts = append(parts, n)
	} else {
		parts = append(parts, "")
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTabBar() string {
	tabs := m.presenter.Tabs()
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		label := tabNumber(i) + " " + t.Label
		if t.Active {
			rendered[i] = m.styles.ActiveTab.Render(label)
		} else {
			rendered[i] = m.styles.Tab.Render(label)
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m *Model) renderHelp() string {
	bindings := m.keys.resultsHelp()
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return m.styles.Muted.Render(strings.Join(parts, " • "))
}

func (m *Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	text := m.notice.Text()
	switch m.notice.Level {
	case notice.LevelError:
		return m.styles.Error.Render(text)
	case notice.LevelSuccess:
		return m.styles.Success.Render(text)
	default:
		return m.styles.Info.Render(text)
	}
}

// wrap fits content to the viewport width.
func (m *Model) wrap(content string) string {
	if m.width <= 2 {
		return content
	}
	return lipgloss.NewStyle().Width(m.width - 2).Render(content)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
