package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/AadhishGIT/ChatApp/internal/chat"
	"github.com/AadhishGIT/ChatApp/internal/controller"
	"github.com/AadhishGIT/ChatApp/internal/prefs"
)

// HealthChecker probes the backend at startup
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// mode is the current input focus of the app
type mode int

const (
	modeChat mode = iota
	modeAttach
	modeConfirmReset
)

const sidebarWidth = 28

// Model is the root bubbletea model. It is a pure projection over the
// conversation store: every store notification arrives as a refreshMsg
// and the view re-derives from store snapshots.
type Model struct {
	store  *chat.Store
	ctrl   *controller.Controller
	prefs  *prefs.Store
	health HealthChecker
	log    *logrus.Entry

	theme  prefs.Theme
	styles Styles

	input       textinput.Model
	attachInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	mode          mode
	width, height int
	ready         bool
	backendStatus string
}

// Messages flowing back into Update
type (
	refreshMsg   struct{}
	askDoneMsg   struct{}
	uploadDone   struct{}
	resetDone    struct{}
	healthResult struct {
		message string
		err     error
	}
)

// NewModel creates the root model
func NewModel(store *chat.Store, ctrl *controller.Controller, pstore *prefs.Store, health HealthChecker, logger *logrus.Entry) Model {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	theme := pstore.Load()

	input := textinput.New()
	input.Placeholder = "Ask about your documents…"
	input.Focus()

	attachInput := textinput.New()
	attachInput.Placeholder = "Path to a PDF file"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		store:         store,
		ctrl:          ctrl,
		prefs:         pstore,
		health:        health,
		log:           logger,
		theme:         theme,
		styles:        NewStyles(theme),
		input:         input,
		attachInput:   attachInput,
		spinner:       sp,
		backendStatus: "checking backend…",
	}
}

// Init starts the health probe
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkHealth)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatWidth := m.width - sidebarWidth - 2
		chatHeight := m.height - 5 // status bar, input line, help line
		if !m.ready {
			m.viewport = viewport.New(chatWidth, chatHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = chatHeight
		}
		m.input.Width = chatWidth - 4
		m.attachInput.Width = chatWidth - 4
		m.refreshViewport()
		return m, nil

	case refreshMsg, askDoneMsg, uploadDone, resetDone:
		// Store changed or an operation settled; re-derive everything shown.
		if draft := m.store.Draft(); draft != m.input.Value() {
			m.input.SetValue(draft)
			m.input.CursorEnd()
		}
		m.refreshViewport()
		return m, nil

	case healthResult:
		if msg.err != nil {
			m.backendStatus = "backend unreachable"
		} else {
			m.backendStatus = msg.message
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeAttach:
			return m.updateAttach(msg)
		case modeConfirmReset:
			return m.updateConfirm(msg)
		default:
			return m.updateChat(msg)
		}
	}

	return m, nil
}

// updateChat handles keys in the main chat mode
func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.input.Reset()
		return m, tea.Batch(m.askCmd(text), m.spinner.Tick)

	case "ctrl+n":
		m.store.CreateConversation()
		return m, nil

	case "ctrl+x":
		// Delete the active conversation; the store picks the next one.
		if err := m.store.DeleteConversation(m.store.ActiveID()); err != nil {
			m.log.WithError(err).Debug("delete ignored")
		}
		return m, nil

	case "ctrl+p":
		m.switchBy(-1)
		return m, nil

	case "ctrl+j":
		m.switchBy(1)
		return m, nil

	case "ctrl+l":
		if err := m.store.ClearMessages(m.store.ActiveID()); err != nil {
			m.log.WithError(err).Debug("clear ignored")
		}
		return m, nil

	case "ctrl+o":
		m.mode = modeAttach
		m.attachInput.Reset()
		m.attachInput.Focus()
		m.input.Blur()
		return m, textinput.Blink

	case "ctrl+r":
		m.mode = modeConfirmReset
		return m, nil

	case "ctrl+t":
		return m.toggleTheme()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Keep the store's draft in sync so "new conversation" can clear it.
	if m.input.Value() != m.store.Draft() {
		m.store.SetDraft(m.input.Value())
	}
	return m, cmd
}

// updateAttach handles keys while entering an upload path
func (m Model) updateAttach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeChat
		m.attachInput.Blur()
		m.input.Focus()
		return m, nil
	case "enter":
		path := m.attachInput.Value()
		m.mode = modeChat
		m.attachInput.Blur()
		m.input.Focus()
		if path == "" {
			return m, nil
		}
		return m, tea.Batch(m.uploadCmd(path), m.spinner.Tick)
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

// updateConfirm handles the reset yes/no gate. Anything but an explicit
// yes cancels with no side effects.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeChat
		return m, tea.Batch(m.resetCmd(), m.spinner.Tick)
	case "ctrl+c":
		return m, tea.Quit
	default:
		m.mode = modeChat
		return m, nil
	}
}

// toggleTheme flips the theme and persists the choice immediately
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	if m.theme == prefs.ThemeDark {
		m.theme = prefs.ThemeLight
	} else {
		m.theme = prefs.ThemeDark
	}
	m.styles = NewStyles(m.theme)
	if err := m.prefs.SetTheme(m.theme); err != nil {
		m.log.WithError(err).Warn("failed to persist theme")
	}
	m.refreshViewport()
	return m, nil
}

// switchBy moves the active conversation up or down the sidebar order
func (m *Model) switchBy(delta int) {
	convs := m.store.Conversations()
	activeID := m.store.ActiveID()
	for i, c := range convs {
		if c.ID == activeID {
			next := i + delta
			if next >= 0 && next < len(convs) {
				if err := m.store.SwitchActive(convs[next].ID); err != nil {
					m.log.WithError(err).Debug("switch ignored")
				}
			}
			return
		}
	}
}

func (m *Model) busy() bool {
	return m.ctrl.Loading() || m.ctrl.Uploading() || m.ctrl.Resetting()
}

// refreshViewport re-renders the chat pane from the current store state
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderChat())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// Commands: each runs a blocking controller call off the UI goroutine.

func (m Model) askCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Ask(context.Background(), text)
		return askDoneMsg{}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.UploadDocument(context.Background(), path)
		return uploadDone{}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.ResetKnowledgeBase(context.Background())
		return resetDone{}
	}
}

func (m Model) checkHealth() tea.Msg {
	msg, err := m.health.Health(context.Background())
	return healthResult{message: msg, err: err}
}

// View renders the whole screen
func (m Model) View() string {
	if !m.ready {
		return "starting…"
	}

	if m.mode == modeConfirmReset {
		modal := m.styles.Modal.Render(
			"Reset the knowledge base?\n\nThis removes every uploaded document\nfor all conversations.\n\n" +
				m.styles.Help.Render("y: reset | any other key: cancel"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	sidebar := m.styles.Sidebar.Height(m.viewport.Height).Render(m.renderSidebar())
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInputLine(),
		m.renderStatusBar(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// renderInputLine shows the question input or the attach prompt
func (m Model) renderInputLine() string {
	if m.mode == modeAttach {
		return m.styles.Prompt.Render("attach> ") + m.attachInput.View()
	}
	return m.styles.Prompt.Render("> ") + m.input.View()
}

// renderStatusBar shows busy indicators, backend status, and key help
func (m Model) renderStatusBar() string {
	status := m.backendStatus
	switch {
	case m.ctrl.Resetting():
		status = m.spinner.View() + " resetting knowledge base…"
	case m.ctrl.Uploading():
		status = m.spinner.View() + " uploading…"
	case m.ctrl.Loading():
		status = m.spinner.View() + " thinking…"
	}

	help := "enter: send | ctrl+n: new | ctrl+p/j: switch | ctrl+x: delete | ctrl+o: attach | ctrl+l: clear | ctrl+r: reset kb | ctrl+t: theme | esc: quit"
	return m.styles.Status.Render(status) + "\n" + m.styles.Help.Render(help)
}
