package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/api"
	"github.com/diogo/gamechat/internal/chat"
	"github.com/diogo/gamechat/internal/config"
	"github.com/diogo/gamechat/internal/logging"
	"github.com/diogo/gamechat/internal/models"
	"github.com/diogo/gamechat/internal/render"
)

// Suggestions are offered on the welcome screen and picked with keys 1-4.
var Suggestions = []string{
	"What do you know about Elden Ring?",
	"Recommend indie horror games",
	"Is Baldur's Gate 3 worth it?",
	"Compare Cyberpunk 2077 with The Witcher 3",
}

// Animation tick message
type animationTickMsg time.Time

// resultMsg carries a finished round trip back to Update.
type resultMsg struct {
	result chat.Result
}

// viewState is shared across Model copies so the conversation observer,
// registered once, can flag the viewport for a refresh.
type viewState struct {
	dirty bool
	// rendered caches assistant markdown by message index for one width.
	rendered map[int]string
	width    int
}

// Model represents the TUI state
type Model struct {
	ctx      context.Context
	client   api.ClientInterface
	flow     *chat.Flow
	logger   *zap.Logger
	renderOp render.Options
	copyFn   func(string) error
	useTools bool

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	state          *viewState
	ready          bool
	notice         string
	err            error
	animationFrame int

	width  int
	height int
}

// NewChatModel creates a chat model with a fresh conversation.
func NewChatModel(client api.ClientInterface, cfg config.Config, logger *zap.Logger) Model {
	logger = logging.OrNop(logger)
	flow := chat.NewFlow(client, chat.NewConversation(),
		chat.WithLogger(logger),
		chat.WithTools(cfg.UseTools),
	)
	return NewChatModelWithFlow(client, flow, cfg, logger)
}

// NewChatModelWithFlow creates a chat model around an existing flow.
func NewChatModelWithFlow(client api.ClientInterface, flow *chat.Flow, cfg config.Config, logger *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about a game..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	state := &viewState{rendered: make(map[int]string)}
	flow.Conversation().OnAppend(func(models.Message) {
		state.dirty = true
	})

	return Model{
		ctx:      context.Background(),
		client:   client,
		flow:     flow,
		logger:   logging.OrNop(logger),
		renderOp: render.OptionsFromConfig(cfg),
		copyFn:   copyToClipboard,
		useTools: cfg.UseTools,
		textarea: ta,
		spinner:  s,
		state:    state,
	}
}

// Flow exposes the submission flow, mainly for tests.
func (m Model) Flow() *chat.Flow {
	return m.flow
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// viewportKeyMap drops the pager's letter bindings, which would fire while
// typing into the input.
func viewportKeyMap() viewport.KeyMap {
	km := viewport.DefaultKeyMap()
	km.PageDown.SetKeys("pgdown")
	km.PageUp.SetKeys("pgup")
	km.HalfPageUp.SetKeys("ctrl+u")
	km.HalfPageDown.SetKeys("ctrl+d")
	km.Up.SetKeys("up")
	km.Down.SetKeys("down")
	km.Left.SetEnabled(false)
	km.Right.SetEnabled(false)
	return km
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// An in-flight submission cannot be cancelled.
			if m.flow.Busy() {
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			if m.flow.Busy() {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if isSlashCommand(input) {
				m.textarea.Reset()
				return m.runSlashCommand(input)
			}
			return m.submit(input)

		case "1", "2", "3", "4":
			if m.showingWelcome() && m.textarea.Value() == "" {
				idx := int(msg.String()[0] - '1')
				m.textarea.SetValue(Suggestions[idx])
				return m, nil
			}
		}

	case resultMsg:
		m.flow.Settle(msg.result)
		if msg.result.Err != nil {
			m.logger.Debug("round trip failed", zap.Error(msg.result.Err))
		}

	case spinner.TickMsg:
		if m.flow.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.flow.Busy() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only keys reach the textarea, and only while it is visible.
	if !m.flow.Busy() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.state.dirty {
		m.state.dirty = false
		m.updateViewport()
		m.viewport.GotoBottom()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a round trip for input and returns the command that
// performs it off the UI goroutine.
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	sub, ok := m.flow.Begin(input)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.err = nil
	m.notice = ""
	m.animationFrame = 0

	if m.state.dirty {
		m.state.dirty = false
		m.updateViewport()
		m.viewport.GotoBottom()
	}

	return m, tea.Batch(
		m.sendMessage(sub),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage performs the remote call for sub.
func (m Model) sendMessage(sub *chat.Submission) tea.Cmd {
	ctx, flow := m.ctx, m.flow
	return func() tea.Msg {
		return resultMsg{result: flow.Send(ctx, sub)}
	}
}

func (m Model) showingWelcome() bool {
	return m.flow.Conversation().Len() == 0
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	tools := "tools off"
	if m.useTools {
		tools = "tools on"
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Game Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.client.BaseURL()),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(tools),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.showingWelcome() {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.flow.Busy() {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("🎮")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Game Assistant")
	subtitle := welcomeStyle.Width(width).Render("Ask about prices, reviews, player counts or recommendations")

	var list strings.Builder
	for i, s := range Suggestions {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString(suggestionKeyStyle.Render(fmt.Sprintf("%d ", i+1)))
		list.WriteString(suggestionTextStyle.Render(s))
	}
	suggestions := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(list.String())

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		title,
		subtitle,
		hintStyle.Width(width).Align(lipgloss.Center).Render("Press a number to use a suggestion"),
		"",
		suggestions,
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Looking it up ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	type shortcut struct{ key, desc string }

	shortcuts := []shortcut{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
		{"/help", "Commands"},
	}
	if m.flow.Busy() {
		shortcuts = []shortcut{
			{"Ctrl+C", "Quit"},
			{"↑↓", "Scroll"},
		}
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 6
	if m.state.width != bubbleWidth {
		m.state.width = bubbleWidth
		m.state.rendered = make(map[int]string)
	}

	var content strings.Builder
	for i, msg := range m.flow.Conversation().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(m.renderAssistant(i, msg.Content, bubbleWidth-4))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderAssistant renders markdown once per message and width.
func (m *Model) renderAssistant(idx int, text string, width int) string {
	if cached, ok := m.state.rendered[idx]; ok {
		return cached
	}
	rendered, err := render.Reply(text, m.renderOp.WithWidth(width))
	if err != nil {
		m.logger.Debug("markdown render failed", zap.Error(err))
	}
	m.state.rendered[idx] = rendered
	return rendered
}

// RunChat starts the chat TUI
func RunChat(client api.ClientInterface, cfg config.Config, logger *zap.Logger) error {
	m := NewChatModel(client, cfg, logger)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
