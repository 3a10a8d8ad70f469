package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/chatwidget/internal/chat"
)

// sendCmd is created only after the user entry has been appended.
func (a *App) sendCmd(req chat.Request) tea.Cmd {
	ctx, chatter := a.ctx, a.services.Chat
	return func() tea.Msg {
		reply, err := chatter.Chat(ctx, req.Message)
		if err != nil {
			return replyFailedMsg{seq: req.Seq, err: err}
		}
		return replyMsg{seq: req.Seq, reply: reply}
	}
}

func (a *App) inspectCmd(path string) tea.Cmd {
	inspect, policy := a.services.Inspect, a.policy
	return func() tea.Msg {
		f, err := inspect(path)
		if err != nil {
			return errMsg{err}
		}
		if err := policy.Allows(f); err != nil {
			return errMsg{err}
		}
		return fileInspectedMsg{file: f}
	}
}

func (a *App) analyzeCmd() tea.Cmd {
	f, ok := a.widget.Attachment()
	if !ok {
		a.status = "choose a pdf first"
		return nil
	}
	if err := a.policy.Allows(f); err != nil {
		a.status = "error: " + err.Error()
		return nil
	}
	if a.analyzing {
		return nil
	}
	if a.services.Analyze == nil {
		a.status = "error: analyze endpoint not configured"
		return nil
	}
	a.analyzing = true
	a.status = "analyzing " + f.Name + "..."
	ctx, analyzer := a.ctx, a.services.Analyze
	return func() tea.Msg {
		res, err := analyzer.Analyze(ctx, f)
		return analyzeDoneMsg{file: f.Name, result: res, err: err}
	}
}

var errNothingToCopy = errors.New("no reply to copy yet")

func (a *App) copyCmd() tea.Cmd {
	last, ok := a.widget.Transcript().LastOf(chat.RoleBot)
	copyFn := a.services.Copy
	return func() tea.Msg {
		if !ok {
			return errMsg{errNothingToCopy}
		}
		if err := copyFn(last.Text); err != nil {
			return errMsg{err}
		}
		return statusMsg("reply copied")
	}
}
