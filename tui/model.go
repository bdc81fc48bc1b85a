// Package tui implements an interactive chat over the course materials.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/syllabus"
	"github.com/poiesic/syllabus/core"
)

// Asker is the chat-facing subset of the engine.
type Asker interface {
	Query(ctx context.Context, query, sessionID string) (*syllabus.QueryResult, error)
	ClearSession(id string)
}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleError
)

type entry struct {
	role    role
	text    string
	sources []core.Source
}

// answerMsg carries the result of an asynchronous query.
type answerMsg struct {
	result *syllabus.QueryResult
	err    error
}

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	ctx       context.Context
	asker     Asker
	title     string
	sessionID string
	input     textinput.Model
	viewport  viewport.Model
	entries   []entry
	waiting   bool
	status    string
	ready     bool
}

// New creates a chat model. title is shown in the header, typically the
// indexed course count.
func New(ctx context.Context, asker Asker, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the courses, /clear to reset, Ctrl+C to quit"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:      ctx,
		asker:    asker,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frame := transcriptStyle.GetFrameSize()
		_, inputFrame := inputStyle.GetFrameSize()
		reserved := 2 + 1 + inputFrame + 1 // header, status, input box
		m.viewport.Width = max(20, msg.Width-frame)
		m.viewport.Height = max(3, msg.Height-reserved-frame)
		m.refresh()
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{role: roleError, text: msg.err.Error()})
			m.status = "Query failed."
		} else {
			m.sessionID = msg.result.SessionID
			m.entries = append(m.entries, entry{role: roleAssistant, text: msg.result.Answer, sources: msg.result.Sources})
			m.status = fmt.Sprintf("%d sources.", len(msg.result.Sources))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		switch msg.String() {
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" || m.waiting {
		return m, nil
	}
	m.input.SetValue("")

	switch q {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/clear":
		if m.sessionID != "" {
			m.asker.ClearSession(m.sessionID)
		}
		m.sessionID = ""
		m.entries = nil
		m.status = "New session."
		m.refresh()
		return m, nil
	}

	m.entries = append(m.entries, entry{role: roleUser, text: q})
	m.waiting = true
	m.status = "Thinking..."
	m.refresh()
	return m, m.ask(q, m.sessionID)
}

func (m Model) ask(query, sessionID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.asker.Query(m.ctx, query, sessionID)
		return answerMsg{result: result, err: err}
	}
}

// View renders the header, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("Course Materials Assistant")
	sub := mutedStyle.Render(m.title)
	status := statusStyle.Render(m.status)
	return header + "\n" + sub + "\n" +
		transcriptStyle.Render(m.viewport.View()) + "\n" +
		inputStyle.Render(m.input.View()) + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.entries))
	m.viewport.GotoBottom()
}

func renderTranscript(entries []entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.role {
		case roleUser:
			b.WriteString(userStyle.Render("You: ") + e.text)
		case roleAssistant:
			b.WriteString(assistantStyle.Render("Assistant: ") + e.text)
			if len(e.sources) > 0 {
				b.WriteString("\n" + mutedStyle.Render(FormatSources(e.sources)))
			}
		case roleError:
			b.WriteString(errorStyle.Render("Error: " + e.text))
		}
	}
	return b.String()
}

// FormatSources renders sources as "Sources: label (link), label".
func FormatSources(sources []core.Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.Label()
		if s.Link != "" {
			parts[i] += " (" + s.Link + ")"
		}
	}
	return "Sources: " + strings.Join(parts, ", ")
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
