// Package tui is the terminal presentation layer: it owns the event loop,
// renders the contact/transcript/summary panes, and adapts the async
// components' callbacks into bubbletea messages.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lwei/chatsum/internal/chatlog"
	"github.com/lwei/chatsum/internal/deepseek"
	"github.com/lwei/chatsum/internal/prompt"
	"github.com/lwei/chatsum/internal/search"
	"github.com/lwei/chatsum/internal/session"
)

// Config wires the components into the TUI program.
type Config struct {
	Session *session.State
	Catalog *prompt.Catalog
	Chatlog *chatlog.Client
	Engine  *deepseek.Engine
}

type model struct {
	cfg       Config
	bridge    *eventBridge
	searchCtl *search.Controller
	fetcher   *chatlog.Fetcher

	searchInput textinput.Model
	dateInput   textinput.Model
	promptInput textinput.Model
	spinner     spinner.Model

	transcriptView viewport.Model
	summaryView    viewport.Model

	focus        focusArea
	composerOpen bool

	contacts           []chatlog.Contact
	contactCursor      int
	contactPlaceholder string
	searchLoading      bool
	lastSearchText     string

	transcript            *chatlog.Transcript
	transcriptPlaceholder string
	transcriptLoading     bool

	promptIdx int

	streamSession *deepseek.Session
	summarizing   bool
	summary       string

	infoMessage  string
	warnMessage  string
	errorMessage string

	width  int
	height int
}

// New returns the model ready to be mounted into a Program.
func New(cfg Config) *model {
	bridge := newEventBridge()

	searchInput := textinput.New()
	searchInput.Placeholder = searchPlaceholder
	searchInput.CharLimit = 120
	searchInput.Width = 40
	searchInput.Focus()

	dateInput := textinput.New()
	dateInput.Placeholder = datePlaceholder
	dateInput.CharLimit = 21
	dateInput.Width = 24
	dateInput.SetValue(cfg.Session.Window().Query())

	promptInput := textinput.New()
	promptInput.Placeholder = promptPlaceholder
	promptInput.CharLimit = 2000
	promptInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	cfg.Session.SetPrompt(cfg.Catalog.Active())

	m := &model{
		cfg:                   cfg,
		bridge:                bridge,
		searchInput:           searchInput,
		dateInput:             dateInput,
		promptInput:           promptInput,
		spinner:               spin,
		transcriptView:        viewport.New(80, 12),
		summaryView:           viewport.New(80, 12),
		contactPlaceholder:    placeholderSearching,
		transcriptPlaceholder: placeholderPickContact,
		infoMessage:           heroTagline,
	}
	m.searchCtl = search.NewController(cfg.Chatlog, bridge)
	m.fetcher = chatlog.NewFetcher(cfg.Chatlog, bridge)
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.bridge.waitForEvent(),
		func() tea.Msg {
			m.searchCtl.ListAll()
			return nil
		},
	)
}

func (m *model) busy() bool {
	return m.searchLoading || m.transcriptLoading || m.summarizing
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case eventMsg:
		cmd := m.handleEvent(msg.payload)
		return m, tea.Batch(cmd, m.bridge.waitForEvent())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleEvent(payload tea.Msg) tea.Cmd {
	switch msg := payload.(type) {
	case searchLoadingMsg:
		m.searchLoading = true
		m.contacts = nil
		m.contactCursor = 0
		m.contactPlaceholder = placeholderSearching
		return m.spinner.Tick
	case searchResultsMsg:
		m.searchLoading = false
		m.contacts = msg.contacts
		m.contactCursor = 0
		m.contactPlaceholder = ""
	case searchEmptyMsg:
		m.searchLoading = false
		m.contacts = nil
		m.contactPlaceholder = placeholderNoMatches
	case searchErrorMsg:
		m.searchLoading = false
		m.contacts = nil
		m.contactPlaceholder = searchFailurePlaceholder(msg.kind, msg.err)
	case searchClearedMsg:
		m.clearContactState()
	case transcriptLoadingMsg:
		m.transcriptLoading = true
		m.transcript = nil
		m.transcriptPlaceholder = placeholderChatLoading
		return m.spinner.Tick
	case transcriptMsg:
		m.transcriptLoading = false
		transcript := msg.transcript
		m.transcript = &transcript
		m.transcriptPlaceholder = ""
		m.transcriptView.SetContent(wordwrap.String(transcript.PlainText(), m.transcriptView.Width))
		m.transcriptView.GotoTop()
	case transcriptEmptyMsg:
		m.transcriptLoading = false
		m.transcript = nil
		m.transcriptPlaceholder = placeholderChatEmpty
	case transcriptErrorMsg:
		m.transcriptLoading = false
		m.transcript = nil
		m.transcriptPlaceholder = fetchFailurePlaceholder(msg.kind, msg.err)
		m.warnMessage = fmt.Sprintf("Chat history fetch failed: %v", msg.err)
	case streamChunkMsg:
		m.summary += msg.text
		m.summaryView.SetContent(wordwrap.String(m.summary, m.summaryView.Width))
		m.summaryView.GotoBottom()
	case streamCompletedMsg:
		m.summarizing = false
		m.infoMessage = "Summary complete."
	case streamFailedMsg:
		m.summarizing = false
		m.errorMessage = fmt.Sprintf("Summarization failed: %v", msg.err)
	}
	return nil
}

func searchFailurePlaceholder(kind chatlog.FailureKind, err error) string {
	switch kind {
	case chatlog.FailureTimeout:
		return placeholderTimeout
	case chatlog.FailureConnection:
		return placeholderConnection
	case chatlog.FailureHTTP:
		return fmt.Sprintf(placeholderSearchHTTP, chatlog.StatusCode(err))
	default:
		return placeholderSearchErr
	}
}

func fetchFailurePlaceholder(kind chatlog.FailureKind, err error) string {
	switch kind {
	case chatlog.FailureTimeout:
		return placeholderChatTimeout
	case chatlog.FailureConnection:
		return placeholderChatConnection
	case chatlog.FailureHTTP:
		return fmt.Sprintf(placeholderChatHTTP, chatlog.StatusCode(err))
	default:
		return placeholderChatErr
	}
}

// clearContactState is the side effect of the search box emptying out: the
// result set, selection, and transcript all reset without a network call.
func (m *model) clearContactState() {
	m.searchLoading = false
	m.contacts = nil
	m.contactCursor = 0
	m.contactPlaceholder = placeholderTypeToFind
	m.cfg.Session.ClearSelection()
	m.fetcher.Invalidate()
	m.transcript = nil
	m.transcriptLoading = false
	m.transcriptPlaceholder = placeholderPickContact
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.warnMessage = ""

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.composerOpen {
			m.closeComposer()
			return m, nil
		}
		if m.summarizing {
			m.stopSummary()
			return m, nil
		}
		return m, tea.Quit
	}

	if m.composerOpen {
		return m.handleComposerKey(msg)
	}

	switch msg.Type {
	case tea.KeyTab:
		m.cycleFocus(1)
		return m, nil
	case tea.KeyShiftTab:
		m.cycleFocus(-1)
		return m, nil
	case tea.KeyCtrlS:
		return m, m.startSummary()
	case tea.KeyCtrlP:
		m.openComposer()
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusContacts:
		return m.handleContactKey(msg)
	case focusDate:
		return m.handleDateKey(msg)
	case focusPrompt:
		return m.handlePromptKey(msg)
	}
	return m, nil
}

func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		// Explicit trigger bypasses the debounce.
		m.searchCtl.Trigger()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.lastSearchText {
		m.lastSearchText = value
		m.searchCtl.Input(value)
	}
	return m, cmd
}

func (m *model) handleContactKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.contactCursor > 0 {
			m.contactCursor--
		}
	case "down", "j":
		if m.contactCursor < len(m.contacts)-1 {
			m.contactCursor++
		}
	case "enter":
		return m, m.selectContact()
	}
	return m, nil
}

func (m *model) handleDateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.applyDateInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

func (m *model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cyclePrompt(-1)
	case "right", "l":
		m.cyclePrompt(1)
	case "enter":
		m.openComposer()
	}
	return m, nil
}

func (m *model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		tpl, err := m.cfg.Catalog.AddCustom(m.promptInput.Value())
		if err != nil {
			m.errorMessage = "Custom prompt cannot be empty."
			return m, nil
		}
		m.promptIdx = m.cfg.Catalog.Len() - 1
		m.cfg.Session.SetPrompt(tpl.Text)
		m.closeComposer()
		m.infoMessage = "Custom prompt added and selected."
		return m, nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *model) cycleFocus(delta int) {
	next := (int(m.focus) + delta + len(focusSequence)) % len(focusSequence)
	m.focus = focusSequence[next]
	m.searchInput.Blur()
	m.dateInput.Blur()
	switch m.focus {
	case focusSearch:
		m.searchInput.Focus()
	case focusDate:
		m.dateInput.Focus()
	}
}

func (m *model) cyclePrompt(delta int) {
	templates := m.cfg.Catalog.Templates()
	if len(templates) == 0 {
		return
	}
	m.promptIdx = (m.promptIdx + delta + len(templates)) % len(templates)
	active := templates[m.promptIdx].Text
	m.cfg.Catalog.SetActive(active)
	m.cfg.Session.SetPrompt(active)
}

func (m *model) openComposer() {
	m.composerOpen = true
	m.promptInput.SetValue("")
	m.promptInput.Focus()
	m.searchInput.Blur()
	m.dateInput.Blur()
}

func (m *model) closeComposer() {
	m.composerOpen = false
	m.promptInput.SetValue("")
	m.promptInput.Blur()
	if m.focus == focusSearch {
		m.searchInput.Focus()
	}
}

// selectContact loads the transcript for the contact under the cursor.
func (m *model) selectContact() tea.Cmd {
	if len(m.contacts) == 0 || m.contactCursor >= len(m.contacts) {
		return nil
	}
	contact := m.contacts[m.contactCursor]
	m.cfg.Session.Select(contact)
	m.fetcher.Refresh(contact, m.cfg.Session.Window())
	return nil
}

// applyDateInput parses the date field and refetches the transcript when a
// contact is selected. The normalized (possibly clamped) window is written
// back into the field.
func (m *model) applyDateInput() {
	window, err := chatlog.ParseWindow(m.dateInput.Value())
	if err != nil {
		m.warnMessage = "Unrecognized date. Use YYYY-MM-DD or YYYY-MM-DD~YYYY-MM-DD."
		return
	}
	m.cfg.Session.SetWindow(window)
	m.dateInput.SetValue(window.Query())
	if selected := m.cfg.Session.Selected(); selected != nil {
		m.fetcher.Refresh(*selected, window)
	}
}

// startSummary launches a streaming session for the loaded transcript.
func (m *model) startSummary() tea.Cmd {
	if m.summarizing {
		m.infoMessage = "Already summarizing. Press esc to stop it first."
		return nil
	}
	if !m.cfg.Session.HasAPIKey() {
		m.errorMessage = "No API key configured. Set api_key in the config file."
		return nil
	}
	if m.transcript == nil || m.transcript.Empty() {
		m.errorMessage = "No chat history to summarize."
		return nil
	}

	request := m.cfg.Session.ComposeRequest(m.transcript.PlainText())
	streamSession, err := m.cfg.Engine.Start(request, m.cfg.Session.Credentials(), m.bridge)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Could not start summarization: %v", err)
		return nil
	}
	m.streamSession = streamSession
	m.summarizing = true
	m.summary = ""
	m.summaryView.SetContent("")
	m.infoMessage = "Summarizing… (esc stops)"
	return m.spinner.Tick
}

// stopSummary requests a cooperative cancel and restores the controls; the
// stopped session emits no further terminal notification.
func (m *model) stopSummary() {
	if m.streamSession != nil {
		m.streamSession.Stop()
	}
	m.summarizing = false
	m.infoMessage = "Summarization stopped."
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height

	leftWidth := width / 3
	if leftWidth < 30 {
		leftWidth = 30
	}
	rightWidth := width - leftWidth - 6
	if rightWidth < 40 {
		rightWidth = 40
	}

	m.searchInput.Width = leftWidth - 6
	paneHeight := (height - 10) / 2
	if paneHeight < 5 {
		paneHeight = 5
	}
	m.transcriptView.Width = rightWidth
	m.transcriptView.Height = paneHeight
	m.summaryView.Width = rightWidth
	m.summaryView.Height = paneHeight

	if m.transcript != nil {
		m.transcriptView.SetContent(wordwrap.String(m.transcript.PlainText(), rightWidth))
	}
	if m.summary != "" {
		m.summaryView.SetContent(wordwrap.String(m.summary, rightWidth))
	}
}
