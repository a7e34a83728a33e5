package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/mtdash/internal/dashboard"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// appliedMsg carries the outcome of a triggered apply.
type appliedMsg struct{ err error }

// model is the Bubble Tea model of the dashboard viewer.
type model struct {
	ctx     context.Context
	title   string
	session *dashboard.Session
	doc     *dashboard.Document
	charts  *TextEngine
	notices *dashboard.Notices

	viewport  viewport.Model
	input     textinput.Model
	prompting bool
	pending   int
	status    string
	alert     bool

	width, height int
}

// newModel builds a viewer whose session already shows the sample.
func newModel(ctx context.Context, title string) (*model, error) {
	doc := dashboard.NewDocument()
	charts := NewTextEngine()
	notices := &dashboard.Notices{}
	session := dashboard.NewSession(doc, charts, notices)
	if err := session.ApplySample(); err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "path/to/results.json (empty for the sample)"
	ti.Prompt = "Apply file: "

	m := &model{
		ctx:      ctx,
		title:    title,
		session:  session,
		doc:      doc,
		charts:   charts,
		notices:  notices,
		viewport: viewport.New(100, 30),
		input:    ti,
		status:   "showing the sample",
	}
	m.refresh()
	return m, nil
}

// RunViewer starts the interactive viewer. A non-empty input is applied before
// the first frame.
func RunViewer(ctx context.Context, title, input string) error {
	m, err := newModel(ctx, title)
	if err != nil {
		return err
	}
	defer m.session.Close()

	if input != "" {
		m.handleApplied(<-m.session.Trigger(ctx, dashboard.LocalFile(input)))
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func applyCmd(ctx context.Context, session *dashboard.Session, path string) tea.Cmd {
	return func() tea.Msg {
		var file dashboard.FileSource
		if path != "" {
			file = dashboard.LocalFile(path)
		}
		return appliedMsg{err: <-session.Trigger(ctx, file)}
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.prompting {
			switch msg.String() {
			case "enter":
				path := strings.TrimSpace(m.input.Value())
				m.closePrompt()
				m.pending++
				m.alert = false
				m.status = "applying…"
				return m, applyCmd(m.ctx, m.session, path)
			case "esc":
				m.closePrompt()
				return m, nil
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "a":
			m.prompting = true
			return m, m.input.Focus()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.refresh()
		return m, nil

	case appliedMsg:
		m.handleApplied(msg.err)
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleApplied(err error) {
	if m.pending > 0 {
		m.pending--
	}
	m.refresh()
	notices := m.notices.Drain()
	switch {
	case len(notices) > 0:
		m.status = notices[len(notices)-1]
		m.alert = true
	case err != nil:
		m.status = err.Error()
		m.alert = true
	default:
		m.status = fmt.Sprintf("showing %s data", m.session.State())
		m.alert = false
	}
}

func (m *model) closePrompt() {
	m.prompting = false
	m.input.Blur()
	m.input.Reset()
}

func (m *model) refresh() {
	m.viewport.SetContent(RenderDashboard(m.title, m.doc, m.charts))
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.alert {
		b.WriteString(alertStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	if m.prompting {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(helpStyle.Render("a: apply file • ↑/↓: scroll • q: quit"))
	}
	return b.String()
}
