package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lwei/chatsum/internal/chatlog"
	"github.com/lwei/chatsum/internal/deepseek"
)

// The search controller, transcript fetcher, and streaming engine all report
// through callbacks on their own goroutines. The bridge funnels those
// callbacks into one buffered channel that the Update loop drains with a
// wait-command, so each component's events reach the model in order.

type searchLoadingMsg struct{}
type searchResultsMsg struct{ contacts []chatlog.Contact }
type searchEmptyMsg struct{}
type searchErrorMsg struct {
	kind chatlog.FailureKind
	err  error
}
type searchClearedMsg struct{}

type transcriptLoadingMsg struct{}
type transcriptMsg struct{ transcript chatlog.Transcript }
type transcriptEmptyMsg struct{}
type transcriptErrorMsg struct {
	kind chatlog.FailureKind
	err  error
}

type streamChunkMsg struct{ text string }
type streamCompletedMsg struct{}
type streamFailedMsg struct{ err error }

// eventMsg wraps one bridge payload for the Update loop.
type eventMsg struct{ payload tea.Msg }

type eventBridge struct {
	ch chan tea.Msg
}

func newEventBridge() *eventBridge {
	return &eventBridge{ch: make(chan tea.Msg, 256)}
}

// waitForEvent blocks until the next bridge payload; the Update loop re-arms
// it after handling each one.
func (b *eventBridge) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		payload, ok := <-b.ch
		if !ok {
			return nil
		}
		return eventMsg{payload: payload}
	}
}

// search.Listener

func (b *eventBridge) OnSearchLoading() { b.ch <- searchLoadingMsg{} }

func (b *eventBridge) OnSearchResults(contacts []chatlog.Contact) {
	b.ch <- searchResultsMsg{contacts: contacts}
}

func (b *eventBridge) OnSearchEmpty() { b.ch <- searchEmptyMsg{} }

func (b *eventBridge) OnSearchError(kind chatlog.FailureKind, err error) {
	b.ch <- searchErrorMsg{kind: kind, err: err}
}

func (b *eventBridge) OnSearchCleared() { b.ch <- searchClearedMsg{} }

// chatlog.TranscriptListener

func (b *eventBridge) OnTranscriptLoading() { b.ch <- transcriptLoadingMsg{} }

func (b *eventBridge) OnTranscript(t chatlog.Transcript) {
	b.ch <- transcriptMsg{transcript: t}
}

func (b *eventBridge) OnTranscriptEmpty() { b.ch <- transcriptEmptyMsg{} }

func (b *eventBridge) OnTranscriptError(kind chatlog.FailureKind, err error) {
	b.ch <- transcriptErrorMsg{kind: kind, err: err}
}

// deepseek.Consumer

func (b *eventBridge) OnChunk(text string) { b.ch <- streamChunkMsg{text: text} }

func (b *eventBridge) OnCompleted() { b.ch <- streamCompletedMsg{} }

func (b *eventBridge) OnFailed(err error) { b.ch <- streamFailedMsg{err: err} }

var _ deepseek.Consumer = (*eventBridge)(nil)
