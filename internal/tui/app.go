package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/chatwidget/internal/attachment"
	"github.com/jask/chatwidget/internal/chat"
	"github.com/jask/chatwidget/internal/client"
	"github.com/jask/chatwidget/internal/config"
)

// Chatter sends one chat message and returns the reply.
type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Analyzer submits the staged attachment.
type Analyzer interface {
	Analyze(ctx context.Context, f attachment.File) (client.AnalyzeResult, error)
}

type Services struct {
	Chat    Chatter
	Analyze Analyzer
	// Copy writes to the system clipboard; nil uses atotto/clipboard.
	Copy func(string) error
	// Inspect turns a picked path into a File; nil uses attachment.Inspect.
	Inspect func(path string) (attachment.File, error)
}

// App is the bubbletea model hosting the chat widget.
type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	services Services
	policy   attachment.Policy
	log      zerolog.Logger

	widget     *chat.Widget
	keys       keyMap
	help       help.Model
	input      textinput.Model
	transcript viewport.Model
	picker     filepicker.Model
	picking    bool
	analyzing  bool
	status     string
	width      int
	height     int
}

func New(ctx context.Context, cfg config.Config, services Services, log zerolog.Logger) (*App, error) {
	ordering, err := chat.ParseOrdering(cfg.Chat.Ordering)
	if err != nil {
		return nil, err
	}
	if services.Copy == nil {
		services.Copy = clipboard.WriteAll
	}
	if services.Inspect == nil {
		services.Inspect = attachment.Inspect
	}
	ctx, cancel := context.WithCancel(ctx)

	policy := attachment.Policy{Accept: cfg.Attachment.Accept}

	in := textinput.New()
	in.Placeholder = "Ask about uploading, formats, or how analysis works..."
	in.Prompt = "› "
	in.CharLimit = 0

	fp := filepicker.New()
	fp.CurrentDirectory = cfg.Attachment.StartDir
	// every file is selectable; the policy is applied after inspection, where
	// the extension comparison ignores case
	fp.AllowedTypes = nil

	a := &App{
		ctx:        ctx,
		cancel:     cancel,
		services:   services,
		policy:     policy,
		log:        log,
		widget:     chat.New(ordering),
		keys:       newKeyMap(),
		help:       help.New(),
		input:      in,
		transcript: viewport.New(defaultWidth, defaultHeight),
		picker:     fp,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	if cfg.Chat.OpenOnStart {
		a.toggleChat()
	}
	a.layout()
	return a, nil
}

// Widget exposes the controller state, mainly for tests and one-shot commands.
func (a *App) Widget() *chat.Widget { return a.widget }

func (a *App) Init() tea.Cmd {
	if a.widget.Visible() {
		return textinput.Blink
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layout()
		if a.picking {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.Update(m)
			return a, cmd
		}
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			a.cancel()
			return a, tea.Quit
		}
		if a.picking {
			return a.handlePickerKey(m)
		}
		return a.handleKey(m)
	case tea.MouseMsg:
		if a.picking || !a.widget.Visible() {
			return a, nil
		}
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(m)
		return a, cmd
	case replyMsg:
		added := a.widget.Deliver(m.seq, m.reply)
		a.refreshTranscript(len(added) > 0)
	case replyFailedMsg:
		released := a.widget.Fail(m.seq)
		a.refreshTranscript(len(released) > 0)
		a.log.Warn().Err(m.err).Uint64("seq", m.seq).Msg("chat request failed")
		a.status = "error: " + m.err.Error()
	case fileInspectedMsg:
		a.widget.HandleFileSelect([]attachment.File{m.file})
		a.log.Info().Str("file", m.file.Name).Str("mime", m.file.MIME).Int64("size", m.file.Size).Msg("attachment selected")
		a.status = ""
	case analyzeDoneMsg:
		a.analyzing = false
		if m.err != nil {
			a.log.Warn().Err(m.err).Str("file", m.file).Msg("analyze failed")
			a.status = "error: " + m.err.Error()
			break
		}
		a.status = fmt.Sprintf("analyzed %s: status %d, %d bytes", m.file, m.result.Status, m.result.Bytes)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.log.Warn().Err(m.error).Msg("ui error")
		a.status = "error: " + m.Error()
	default:
		if a.picking {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.Update(msg)
			return a, cmd
		}
		if a.widget.Visible() {
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Toggle):
		return a, a.toggleChat()
	case key.Matches(m, a.keys.Close):
		if a.widget.Visible() {
			return a, a.toggleChat()
		}
		return a, nil
	case key.Matches(m, a.keys.Attach):
		return a, a.openPicker()
	case key.Matches(m, a.keys.Remove):
		a.removeFile()
		return a, nil
	case key.Matches(m, a.keys.Analyze):
		return a, a.analyzeCmd()
	case key.Matches(m, a.keys.Copy):
		return a, a.copyCmd()
	}

	if !a.widget.Visible() {
		return a, nil
	}
	if key.Matches(m, a.keys.ScrollUp, a.keys.ScrollDown) {
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(m)
		return a, cmd
	}
	a.widget.SetInput(a.input.Value())
	if req, ok := a.widget.HandleEnter(m.String()); ok {
		a.input.SetValue(a.widget.Input())
		a.refreshTranscript(true)
		a.log.Debug().Uint64("seq", req.Seq).Int("len", len(req.Message)).Msg("chat send")
		return a, a.sendCmd(req)
	}
	if key.Matches(m, a.keys.Send) {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	a.widget.SetInput(a.input.Value())
	return a, cmd
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.Close) {
		a.picking = false
		return a, nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(m)
	if ok, path := a.picker.DidSelectFile(m); ok {
		a.picking = false
		return a, a.inspectCmd(path)
	}
	return a, cmd
}

func (a *App) toggleChat() tea.Cmd {
	a.widget.Toggle()
	if a.widget.Visible() {
		a.input.SetValue(a.widget.Input())
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

func (a *App) openPicker() tea.Cmd {
	a.picking = true
	a.status = ""
	// the picker sizes itself from the window; replay the last size
	a.picker, _ = a.picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	return a.picker.Init()
}

func (a *App) removeFile() {
	a.widget.RemoveFile()
	a.picker.Path = ""
}

// refreshTranscript re-renders the entries. With follow set, or when the
// reader was already at the bottom, the view moves to the newest entry;
// otherwise the reader's scroll position is kept.
func (a *App) refreshTranscript(follow bool) {
	atBottom := a.transcript.AtBottom()
	a.transcript.SetContent(renderTranscript(a.widget.Transcript().Entries(), a.transcript.Width))
	if a.widget.ScrollTarget() >= 0 && (follow || atBottom) {
		a.transcript.GotoBottom()
	}
}
