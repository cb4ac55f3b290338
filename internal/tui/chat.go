package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AadhishGIT/ChatApp/internal/chat"
)

// renderChat builds the message pane for the active conversation
func (m Model) renderChat() string {
	active, ok := m.store.Active()
	if !ok {
		return ""
	}

	var lines []string
	lines = append(lines, m.styles.Title.Render(active.Title))
	if len(active.PDFs) > 0 {
		lines = append(lines, m.styles.Chip.Render("Attached: "+strings.Join(active.PDFs, " · ")))
	}
	lines = append(lines, "")

	if len(active.Messages) == 0 {
		lines = append(lines, m.styles.Help.Render("Attach a PDF with ctrl+o, then ask a question."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	body := lipgloss.NewStyle().Width(width)

	for _, msg := range active.Messages {
		var label string
		if msg.Sender == chat.SenderUser {
			label = m.styles.UserLabel.Render("You: ")
		} else {
			label = m.styles.BotLabel.Render("AI: ")
		}

		text := msg.Text
		if strings.HasPrefix(text, "Error: ") {
			text = m.styles.ErrorText.Render(text)
		}
		lines = append(lines, body.Render(label+text))
		lines = append(lines, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderSidebar builds the conversation list
func (m Model) renderSidebar() string {
	convs := m.store.Conversations()
	activeID := m.store.ActiveID()

	var lines []string
	lines = append(lines, m.styles.Title.Render("Conversations"))
	lines = append(lines, "")

	for _, c := range convs {
		title := c.Title
		if runes := []rune(title); len(runes) > sidebarWidth-4 {
			title = string(runes[:sidebarWidth-4]) + "…"
		}
		line := fmt.Sprintf("  %s", title)
		if len(c.PDFs) > 0 {
			line = fmt.Sprintf("%s (%d)", line, len(c.PDFs))
		}
		if c.ID == activeID {
			lines = append(lines, m.styles.SidebarActive.Render("▸"+line[1:]))
		} else {
			lines = append(lines, m.styles.SidebarItem.Render(line))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
