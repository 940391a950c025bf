package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lwei/chatsum/internal/prompt"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	focusLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	leftPaneStyle      = lipgloss.NewStyle().PaddingRight(2)
)

func (m *model) View() string {
	if m.composerOpen {
		return joinNonEmpty([]string{
			taglineStyle.Render(heroTagline),
			m.composerView(),
			m.messageView(),
		})
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPaneStyle.Render(m.leftPaneView()), m.rightPaneView())
	return joinNonEmpty([]string{
		taglineStyle.Render(heroTagline),
		body,
		m.messageView(),
		m.statusBarView(),
	})
}

func (m *model) leftPaneView() string {
	parts := []string{
		m.sectionHeader(focusDate, "Date Window"),
		m.dateInput.View(),
		"",
		m.sectionHeader(focusSearch, "Contacts"),
		m.searchInput.View(),
		m.contactListView(),
	}
	return strings.Join(parts, "\n")
}

func (m *model) contactListView() string {
	if len(m.contacts) == 0 {
		placeholder := m.contactPlaceholder
		if m.searchLoading {
			placeholder = fmt.Sprintf("%s %s", m.spinner.View(), placeholder)
		}
		return helperStyle.Render(placeholder)
	}

	top := 0
	if m.contactCursor >= contactListRows {
		top = m.contactCursor - contactListRows + 1
	}
	end := top + contactListRows
	if end > len(m.contacts) {
		end = len(m.contacts)
	}

	lines := make([]string, 0, contactListRows+1)
	for idx := top; idx < end; idx++ {
		label := m.contacts[idx].DisplayName()
		if idx == m.contactCursor {
			lines = append(lines, currentLineStyle.Render("▸ "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	if len(m.contacts) > contactListRows {
		lines = append(lines, helperStyle.Render(fmt.Sprintf("%d/%d contacts", m.contactCursor+1, len(m.contacts))))
	}
	return strings.Join(lines, "\n")
}

func (m *model) rightPaneView() string {
	parts := []string{
		m.transcriptHeaderView(),
		m.transcriptBodyView(),
		"",
		m.sectionHeader(focusPrompt, "Prompt"),
		m.promptLineView(),
		"",
		sectionHeaderStyle.Render("Summary"),
		m.summaryBodyView(),
	}
	return strings.Join(parts, "\n")
}

func (m *model) transcriptHeaderView() string {
	header := "Chat History"
	if selected := m.cfg.Session.Selected(); selected != nil {
		header = fmt.Sprintf("Chat History · %s · %s", selected.DisplayName(), m.cfg.Session.Window().Query())
	}
	return m.sectionHeader(focusContacts, header)
}

func (m *model) transcriptBodyView() string {
	if m.transcript == nil {
		placeholder := m.transcriptPlaceholder
		if m.transcriptLoading {
			placeholder = fmt.Sprintf("%s %s", m.spinner.View(), placeholder)
		}
		return helperStyle.Render(placeholder)
	}
	return m.transcriptView.View()
}

func (m *model) promptLineView() string {
	templates := m.cfg.Catalog.Templates()
	if m.promptIdx >= len(templates) {
		return helperStyle.Render("No prompt selected")
	}
	tpl := templates[m.promptIdx]
	tag := "built-in"
	if tpl.Origin == prompt.OriginCustom {
		tag = "custom"
	}
	line := fmt.Sprintf("◂ %d/%d [%s] %s ▸", m.promptIdx+1, len(templates), tag, previewText(tpl.Text, promptPreviewLen))
	return helperStyle.Render(line)
}

func (m *model) summaryBodyView() string {
	if m.summary == "" {
		if m.summarizing {
			return helperStyle.Render(fmt.Sprintf("%s Waiting for the first chunk…", m.spinner.View()))
		}
		return helperStyle.Render("Press Ctrl+S to summarize the loaded chat history.")
	}
	return m.summaryView.View()
}

func (m *model) composerView() string {
	return strings.Join([]string{
		sectionHeaderStyle.Render("Custom Prompt"),
		m.promptInput.View(),
		helperStyle.Render("Enter adds and selects the prompt, Esc cancels."),
	}, "\n")
}

func (m *model) messageView() string {
	switch {
	case m.errorMessage != "":
		return errorStyle.Render(m.errorMessage)
	case m.warnMessage != "":
		return warnStyle.Render(m.warnMessage)
	case m.infoMessage != "":
		message := m.infoMessage
		if m.summarizing {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		return helperStyle.Render(message)
	}
	return ""
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Model %s", m.cfg.Session.Config().Model),
		fmt.Sprintf("Window %s", m.cfg.Session.Window().Query()),
	}
	if !m.cfg.Session.HasAPIKey() {
		stats = append(stats, "No API key")
	}
	stats = append(stats, "Tab: focus • Enter: act • Ctrl+S: summarize • Ctrl+P: custom prompt • Ctrl+C: quit")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) sectionHeader(area focusArea, title string) string {
	if m.focus == area {
		return focusLabelStyle.Render("● " + title)
	}
	return sectionHeaderStyle.Render(title)
}

func previewText(value string, limit int) string {
	value = strings.ReplaceAll(strings.TrimSpace(value), "\n", " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
