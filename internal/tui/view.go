package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/chatwidget/internal/chat"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows around the transcript: title 1, bordered upload row 3, panel
	// borders 2, panel header 1, input 1, status 1, help 1
	chromeLines = 10
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	uploadStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 1)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	launcherStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("63")).Padding(0, 2)
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
)

func (a *App) layout() {
	inner := max(a.width-2, 20)
	a.transcript.Width = inner
	a.transcript.Height = max(a.height-chromeLines, 3)
	a.input.Width = inner - lipgloss.Width(a.input.Prompt) - 1
	a.help.Width = a.width
	a.refreshTranscript(false)
}

// renderTranscript projects entries to text. It depends only on its
// arguments so the transcript can be checked without a terminal.
func renderTranscript(entries []chat.Entry, width int) string {
	if len(entries) == 0 {
		return statusStyle.Render("Hi! Ask me how to upload your resume.")
	}
	body := lipgloss.NewStyle().Width(max(width-6, 10))
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		label := botLabelStyle.Render("bot")
		if e.Role == chat.RoleUser {
			label = userLabelStyle.Render("you")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label+"  ", body.Render(e.Text)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderUpload() string {
	f, ok := a.widget.Attachment()
	if !ok {
		return uploadStyle.Render("Choose PDF  " + statusStyle.Render("(ctrl+o)"))
	}
	row := fileStyle.Render(f.Name) + "  " + statusStyle.Render("✕ ctrl+x   analyze ctrl+r")
	return uploadStyle.Render(row)
}

func (a *App) renderPanel() string {
	header := titleStyle.Render("Resume Assistant")
	if n := a.widget.InFlight(); n > 0 {
		header += statusStyle.Render(fmt.Sprintf("  waiting for %d repl%s", n, plural(n, "y", "ies")))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, header, a.transcript.View(), a.input.View())
	return panelStyle.Width(max(a.width-2, 20)).Render(body)
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Resume Analyzer"))
	b.WriteString("\n")
	if a.picking {
		b.WriteString(a.picker.View())
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("enter select • esc cancel"))
		return b.String()
	}
	b.WriteString(a.renderUpload())
	b.WriteString("\n")
	if a.widget.Visible() {
		b.WriteString(a.renderPanel())
	} else {
		b.WriteString(launcherStyle.Render("chat (ctrl+t)"))
	}
	b.WriteString("\n")
	if a.status != "" {
		style := statusStyle
		if strings.HasPrefix(a.status, "error:") {
			style = errorStyle
		}
		b.WriteString(style.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
