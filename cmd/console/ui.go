package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jwebster45206/adventure-engine/pkg/game"
)

const PlaceHolderText = "Enter: next line · number: click hotspot · /help"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	session      *game.Session
	view         game.View
	transcript   []string
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	notice       string
	noticeIsErr  bool

	showQuitModal bool
}

type clockTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(session *game.Session) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	m := ConsoleUI{
		session:      session,
		view:         session.View(),
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: viewport.New(20, 20),
	}
	// The first line was shown before the UI existed.
	if d := m.view.Dialogue; d != nil {
		m.transcript = append(m.transcript, speak(d.Speaker, d.Text))
	}
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, clockTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return clockTickMsg{} })
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6
		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)
		m.ready = true
		m.refresh()

	case clockTickMsg:
		if m.view.GameOver || m.view.Finished {
			return m, nil
		}
		m.execute(game.Command{Type: game.CmdTick, Seconds: 1})
		return m, clockTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			m.handleInput(input)
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *ConsoleUI) handleInput(input string) {
	m.notice, m.noticeIsErr = "", false

	switch strings.ToLower(input) {
	case "/help":
		m.notice = helpText
		m.refresh()
		return
	case "/copy":
		if err := clipboard.WriteAll(strings.Join(m.transcript, "\n")); err != nil {
			m.notice, m.noticeIsErr = "Copy failed: "+err.Error(), true
		} else {
			m.notice = "Transcript copied to clipboard."
		}
		m.refresh()
		return
	}

	cmd, err := parseCommand(input, m.view)
	if err != nil {
		if !errors.Is(err, errEmpty) {
			m.notice, m.noticeIsErr = err.Error(), true
		}
		m.refresh()
		return
	}
	m.execute(cmd)
}

// execute runs a command on the session and appends what it caused to
// the transcript.
func (m *ConsoleUI) execute(cmd game.Command) {
	res, err := m.session.Execute(context.Background(), cmd)
	m.view = res.View
	if err != nil {
		m.notice, m.noticeIsErr = err.Error(), true
	}
	for _, evt := range res.Events {
		if line := describe(evt); line != "" {
			m.transcript = append(m.transcript, line)
		}
	}
	m.refresh()
}

func (m *ConsoleUI) refresh() {
	width := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE ENGINE") + "\n\n")
	if width > 0 {
		content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
	}
	for _, entry := range m.transcript {
		content.WriteString(formatEntry(entry, width) + "\n\n")
	}
	if m.view.Dialogue != nil {
		content.WriteString(loadingStyle.Render("▼ Enter") + "\n")
	}
	if m.notice != "" {
		style := promptStyle
		if m.noticeIsErr {
			style = errorStyle
		}
		content.WriteString(style.Render(m.notice) + "\n")
	}
	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(m.view))
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case clockTickMsg:
		// The clock keeps running behind the modal.
		if m.view.GameOver || m.view.Finished {
			return m, nil
		}
		m.execute(game.Command{Type: game.CmdTick, Seconds: 1})
		return m, clockTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
