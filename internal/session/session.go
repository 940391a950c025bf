// Package session holds the in-memory process state tying together the
// selected contact, date window, and active prompt, and composes the
// summarization request from them. It is passed explicitly into the
// components that need it; there are no ambient globals.
package session

import (
	"github.com/lwei/chatsum/internal/chatlog"
	"github.com/lwei/chatsum/internal/config"
	"github.com/lwei/chatsum/internal/deepseek"
)

// State is owned by the control loop; it is not safe for concurrent
// mutation. Configuration is read-only for the duration of any operation.
type State struct {
	cfg      *config.Config
	selected *chatlog.Contact
	window   chatlog.DateWindow
	prompt   string
}

// New returns a state bound to cfg, with the window defaulting to yesterday.
func New(cfg *config.Config) *State {
	return &State{
		cfg:    cfg,
		window: chatlog.Yesterday(),
	}
}

// Config exposes the loaded configuration.
func (s *State) Config() *config.Config { return s.cfg }

// Selected returns the currently selected contact, or nil.
func (s *State) Selected() *chatlog.Contact { return s.selected }

// Select records the chosen contact.
func (s *State) Select(contact chatlog.Contact) {
	c := contact
	s.selected = &c
}

// ClearSelection drops the contact selection.
func (s *State) ClearSelection() { s.selected = nil }

// Window returns the active date window.
func (s *State) Window() chatlog.DateWindow { return s.window }

// SetWindow replaces the active date window.
func (s *State) SetWindow(w chatlog.DateWindow) { s.window = w }

// Prompt returns the active prompt text.
func (s *State) Prompt() string { return s.prompt }

// SetPrompt replaces the active prompt text.
func (s *State) SetPrompt(text string) { s.prompt = text }

// HasAPIKey reports whether a credential is configured.
func (s *State) HasAPIKey() bool { return s.cfg.APIKey != "" }

// Credentials returns the completion-endpoint credentials for one session.
func (s *State) Credentials() deepseek.Credentials {
	return deepseek.Credentials{APIKey: s.cfg.APIKey, BaseURL: s.cfg.APIBaseURL}
}

// ComposeRequest builds the streaming request for the given transcript text
// using the configured model and the active prompt.
func (s *State) ComposeRequest(transcript string) deepseek.Request {
	return deepseek.NewRequest(s.cfg.Model, s.prompt, transcript)
}
