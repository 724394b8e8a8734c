// Package tui is the presentation shell: a terminal window with a
// log panel, status line, text entry and the listening animation.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voicekit/internal/apps"
	"voicekit/internal/assistant"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	circleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	waveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("121"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const introLine = "Say commands like: 'open chrome', 'wikipedia alan turing', " +
	"'search python list', 'play music', 'chat how are you'"

type Model struct {
	assistant *assistant.Assistant

	input  textinput.Model
	log    viewport.Model
	lines  []string
	status string

	listening bool
	anim      animState

	width  int
	height int
	ready  bool
}

func New(a *assistant.Assistant) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command or press ctrl+l to listen"
	ti.Focus()
	ti.CharLimit = 256

	return Model{
		assistant: a,
		input:     ti,
		status:    "Ready",
		anim:      newAnimState(),
		lines:     []string{introLine},
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		logHeight := m.height - lipgloss.Height(m.canvas()) - 6
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.log = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.log.Width = m.width - 4
			m.log.Height = logHeight
		}
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.assistant.Listen()
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}

	case assistant.LogMsg:
		m.appendLine(msg.Text)
		return m, nil

	case assistant.StatusMsg:
		m.status = msg.Text
		return m, nil

	case assistant.RecognizedMsg:
		m.input.SetValue(msg.Text)
		return m, nil

	case assistant.ListeningMsg:
		if msg.On {
			if m.listening {
				// already animating; the running tick chain keeps
				// driving frames
				return m, nil
			}
			m.listening = true
			m.anim = newAnimState()
			return m, animTick()
		}
		m.listening = false
		return m, nil

	case tickMsg:
		if !m.listening {
			// flag cleared: the tick chain ends here, nothing is
			// drawn for this frame
			return m, nil
		}
		m.anim.step()
		return m, animTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	switch {
	case text == "":
		m.assistant.Speak("Please type a command first.")
		return m, nil
	case text == "quit" || text == "exit":
		return m, tea.Quit
	case strings.HasPrefix(strings.ToLower(text), "map "):
		m.addMapping(text)
		return m, nil
	case text == "listen":
		m.assistant.Listen()
		return m, nil
	}

	m.assistant.Handle(text)
	return m, nil
}

// addMapping handles the add-app action: `map <name> <command...>`.
// A command that is a plain path with spaces gets quoted so shell
// launches keep it as one word.
func (m *Model) addMapping(text string) {
	rest := strings.TrimSpace(text[len("map "):])
	name, command, ok := strings.Cut(rest, " ")
	if !ok {
		m.appendLine("Usage: map <name> <command>")
		return
	}
	command = strings.TrimSpace(command)
	if _, err := os.Stat(command); err == nil {
		command = apps.QuoteCommand(command)
	}
	m.assistant.AddMapping(name, command)
}

func (m *Model) appendLine(text string) {
	stamp := time.Now().Format("15:04:05")
	m.lines = append(m.lines, fmt.Sprintf("[%s] %s", stamp, text))
	m.refreshLog()
}

func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	m.log.SetContent(logStyle.Render(strings.Join(m.lines, "\n")))
	m.log.GotoBottom()
}

func (m Model) canvas() string {
	circle := circleStyle.Render(m.anim.circle())
	wave := waveStyle.Render(m.anim.wave(m.listening))
	return lipgloss.JoinVertical(lipgloss.Center, circle, wave)
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	title := titleStyle.Render("VoiceKit Assistant")
	status := statusStyle.Render(m.status)
	help := helpStyle.Render("enter: send · ctrl+l: listen · map <name> <cmd>: add app · ctrl+c: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.canvas()),
		"",
		m.log.View(),
		"",
		m.input.View(),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, status),
		help,
	)
}
