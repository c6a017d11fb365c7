package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/omnifolio/assistant-core/core"
	"github.com/omnifolio/assistant-core/core/assistant"
)

type turnAppendedMsg struct{ turn assistant.Turn }
type interimTranscriptMsg struct{ transcript string }
type sessionStateMsg struct{ state orchestration.SessionState }
type actionProposedMsg struct{ action assistant.ProposedAction }
type actionResolvedMsg struct{ executed bool }
type capabilityDeniedMsg struct{ guidance string }

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	actionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

type model struct {
	ctx          context.Context
	orchestrator *orchestration.Orchestrator

	input   textinput.Model
	turns   []assistant.Turn
	interim string
	state   orchestration.SessionState
	pending *assistant.ProposedAction
	notice  string
	width   int
}

func newModel(ctx context.Context, o *orchestration.Orchestrator) model {
	input := textinput.New()
	input.Placeholder = "Ask about your portfolio..."
	input.Focus()

	return model{
		ctx:          ctx,
		orchestrator: o,
		input:        input,
		state:        orchestration.StateIdle,
		width:        80,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case turnAppendedMsg:
		m.turns = append(m.turns, msg.turn)
		m.notice = ""
		return m, nil

	case interimTranscriptMsg:
		m.interim = msg.transcript
		return m, nil

	case sessionStateMsg:
		m.state = msg.state
		if msg.state != orchestration.StateListening {
			m.interim = ""
		}
		return m, nil

	case actionProposedMsg:
		action := msg.action
		m.pending = &action
		return m, nil

	case actionResolvedMsg:
		m.pending = nil
		return m, nil

	case capabilityDeniedMsg:
		m.notice = msg.guidance
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if err := m.orchestrator.Submit(text); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case tea.KeyCtrlR:
		if m.state == orchestration.StateListening {
			m.orchestrator.StopListening()
			return m, nil
		}
		ctx := m.ctx
		return m, func() tea.Msg {
			if err := m.orchestrator.StartListening(ctx); err != nil {
				return capabilityDeniedMsg{guidance: err.Error()}
			}
			return nil
		}

	case tea.KeyCtrlS:
		m.orchestrator.SetVoiceEnabled(!m.orchestrator.VoiceEnabled())
		return m, nil
	}

	if m.pending != nil {
		switch msg.String() {
		case "y":
			if err := m.orchestrator.ConfirmPendingAction(); err != nil {
				m.notice = err.Error()
			}
			return m, nil
		case "n":
			m.orchestrator.CancelPendingAction()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	for _, turn := range m.turns {
		line := fmt.Sprintf("%s %s", roleLabel(turn), turn.Text)
		if len(turn.Attachments) > 0 {
			line += fmt.Sprintf(" (%d attachment(s))", len(turn.Attachments))
		}
		b.WriteString(wordwrap.String(line, m.width))
		b.WriteString("\n")
	}

	if m.interim != "" {
		b.WriteString(stateStyle.Render(wordwrap.String("… "+m.interim, m.width)))
		b.WriteString("\n")
	}

	if m.pending != nil {
		prompt := m.pending.Description
		if prompt == "" {
			prompt = m.pending.Type
		}
		b.WriteString(actionStyle.Render(wordwrap.String("Confirm: "+prompt+" [y/n]", m.width)))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(wordwrap.String(m.notice, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	voice := "on"
	if !m.orchestrator.VoiceEnabled() {
		voice = "off"
	}
	b.WriteString(stateStyle.Render(fmt.Sprintf("state: %s  voice: %s", m.state, voice)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send · ctrl+r mic · ctrl+s voice · esc quit"))

	return b.String()
}

func roleLabel(turn assistant.Turn) string {
	switch turn.Role {
	case assistant.TurnRoleUser:
		return userStyle.Render("you:")
	case assistant.TurnRoleAssistant:
		return assistantStyle.Render("omni:")
	default:
		return stateStyle.Render(string(turn.Role) + ":")
	}
}
