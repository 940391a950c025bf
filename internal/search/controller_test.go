package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lwei/chatsum/internal/chatlog"
	"github.com/lwei/chatsum/internal/httpx"
)

type fakeSource struct {
	mu       sync.Mutex
	keywords []string
	results  map[string][]chatlog.Contact
	err      error
	block    map[string]chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		results: map[string][]chatlog.Contact{},
		block:   map[string]chan struct{}{},
	}
}

func (s *fakeSource) Contacts(ctx context.Context, keyword string) ([]chatlog.Contact, error) {
	s.mu.Lock()
	s.keywords = append(s.keywords, keyword)
	gate := s.block[keyword]
	err := s.err
	result := s.results[keyword]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *fakeSource) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keywords...)
}

type recordingListener struct {
	mu       sync.Mutex
	events   []string
	contacts [][]chatlog.Contact
	terminal chan string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{terminal: make(chan string, 8)}
}

func (l *recordingListener) record(event string) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *recordingListener) OnSearchLoading() { l.record("loading") }

func (l *recordingListener) OnSearchResults(contacts []chatlog.Contact) {
	l.mu.Lock()
	l.events = append(l.events, "results")
	l.contacts = append(l.contacts, contacts)
	l.mu.Unlock()
	l.terminal <- "results"
}

func (l *recordingListener) OnSearchEmpty() {
	l.record("empty")
	l.terminal <- "empty"
}

func (l *recordingListener) OnSearchError(kind chatlog.FailureKind, err error) {
	l.record("error:" + kind.String())
	l.terminal <- "error"
}

func (l *recordingListener) OnSearchCleared() { l.record("cleared") }

func (l *recordingListener) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func awaitTerminal(t *testing.T, l *recordingListener) string {
	t.Helper()
	select {
	case event := <-l.terminal:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal search event")
		return ""
	}
}

func newTestController(source ContactSource, listener Listener) *Controller {
	c := NewController(source, listener)
	c.debounce = 20 * time.Millisecond
	return c
}

func TestDebounceCollapsesKeystrokes(t *testing.T) {
	source := newFakeSource()
	source.results["alice"] = []chatlog.Contact{{UserName: "alice"}}
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.Input("a")
	c.Input("al")
	c.Input("alice")

	if event := awaitTerminal(t, listener); event != "results" {
		t.Fatalf("expected results, got %s", event)
	}
	time.Sleep(60 * time.Millisecond)
	if calls := source.calls(); len(calls) != 1 || calls[0] != "alice" {
		t.Fatalf("only the final keystroke should fire, got %v", calls)
	}
}

func TestTriggerBypassesDebounce(t *testing.T) {
	source := newFakeSource()
	source.results["bob"] = []chatlog.Contact{{UserName: "bob"}}
	listener := newRecordingListener()
	c := newTestController(source, listener)
	c.debounce = time.Hour

	c.Input("bob")
	c.Trigger()

	if event := awaitTerminal(t, listener); event != "results" {
		t.Fatalf("expected results, got %s", event)
	}
	if calls := source.calls(); len(calls) != 1 || calls[0] != "bob" {
		t.Fatalf("trigger should fire once immediately, got %v", calls)
	}
}

func TestClearedInputCancelsPendingSearch(t *testing.T) {
	source := newFakeSource()
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.Input("al")
	c.Input("")

	time.Sleep(80 * time.Millisecond)
	if calls := source.calls(); len(calls) != 0 {
		t.Fatalf("cleared input must cancel the pending search, got %v", calls)
	}
	events := listener.snapshot()
	if len(events) != 1 || events[0] != "cleared" {
		t.Fatalf("expected a single cleared event, got %v", events)
	}
}

func TestEmptyResultReportedDistinctly(t *testing.T) {
	source := newFakeSource()
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.Input("nobody")
	if event := awaitTerminal(t, listener); event != "empty" {
		t.Fatalf("expected empty, got %s", event)
	}
	events := listener.snapshot()
	if events[0] != "loading" {
		t.Fatalf("loading must precede the outcome: %v", events)
	}
}

func TestErrorOutcomesClassified(t *testing.T) {
	source := newFakeSource()
	source.err = httpx.ErrTimeout
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.Input("alice")
	if event := awaitTerminal(t, listener); event != "error" {
		t.Fatalf("expected error, got %s", event)
	}
	events := listener.snapshot()
	if events[len(events)-1] != "error:timeout" {
		t.Fatalf("timeout not classified: %v", events)
	}
}

func TestOtherErrorsClassifiedAsOther(t *testing.T) {
	source := newFakeSource()
	source.err = errors.New("strange failure")
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.Input("alice")
	if event := awaitTerminal(t, listener); event != "error" {
		t.Fatalf("expected error, got %s", event)
	}
	events := listener.snapshot()
	if events[len(events)-1] != "error:error" {
		t.Fatalf("unexpected bucket: %v", events)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	source := newFakeSource()
	gate := make(chan struct{})
	source.block["old"] = gate
	source.results["old"] = []chatlog.Contact{{UserName: "old"}}
	source.results["new"] = []chatlog.Contact{{UserName: "new"}}
	listener := newRecordingListener()
	c := newTestController(source, listener)
	c.debounce = time.Hour

	c.Input("old")
	c.Trigger()
	c.Input("new")
	c.Trigger()

	if event := awaitTerminal(t, listener); event != "results" {
		t.Fatalf("expected results, got %s", event)
	}
	close(gate)
	time.Sleep(80 * time.Millisecond)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	if len(listener.contacts) != 1 || listener.contacts[0][0].UserName != "new" {
		t.Fatalf("stale result leaked: %v", listener.contacts)
	}
}

func TestListAllSendsNoKeyword(t *testing.T) {
	source := newFakeSource()
	source.results[""] = []chatlog.Contact{{UserName: "u1"}, {UserName: "u2"}}
	listener := newRecordingListener()
	c := newTestController(source, listener)

	c.ListAll()
	if event := awaitTerminal(t, listener); event != "results" {
		t.Fatalf("expected results, got %s", event)
	}
	if calls := source.calls(); len(calls) != 1 || calls[0] != "" {
		t.Fatalf("list all must not send a keyword, got %v", calls)
	}
}
