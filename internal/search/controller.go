// Package search coalesces contact-search keystrokes into debounced queries
// against the chat-log service and guards against stale responses.
package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/lwei/chatsum/internal/chatlog"
)

const defaultDebounce = 500 * time.Millisecond

// ContactSource is the slice of the chat-log client the controller needs.
type ContactSource interface {
	Contacts(ctx context.Context, keyword string) ([]chatlog.Contact, error)
}

// Listener receives search lifecycle callbacks. Within one query the order is
// OnSearchLoading then exactly one terminal callback. OnSearchCleared fires
// when the input empties out; no query runs for it.
type Listener interface {
	OnSearchLoading()
	OnSearchResults(contacts []chatlog.Contact)
	OnSearchEmpty()
	OnSearchError(kind chatlog.FailureKind, err error)
	OnSearchCleared()
}

// Controller is the contact search state machine. Keystrokes arrive through
// Input; a query fires only after the debounce window passes without another
// keystroke. Trigger bypasses the debounce. A newer query supersedes an older
// in-flight one: the older result is dropped on arrival.
type Controller struct {
	source   ContactSource
	listener Listener
	debounce time.Duration
	timeout  time.Duration

	mu    sync.Mutex
	timer *time.Timer
	text  string
	seq   uint64
}

// NewController wires a controller to its contact source and listener.
func NewController(source ContactSource, listener Listener) *Controller {
	return &Controller{
		source:   source,
		listener: listener,
		debounce: defaultDebounce,
		timeout:  35 * time.Second,
	}
}

// Input records the current search text. Non-empty text (re)starts the
// debounce timer; empty text cancels any pending query, invalidates
// in-flight ones, and reports the cleared state.
func (c *Controller) Input(text string) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	c.stopTimerLocked()
	c.text = text
	if text == "" {
		c.seq++
		c.mu.Unlock()
		c.listener.OnSearchCleared()
		return
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(text)
	})
	c.mu.Unlock()
}

// Trigger fires the current text immediately, cancelling any pending
// debounce. An empty input triggers nothing.
func (c *Controller) Trigger() {
	c.mu.Lock()
	c.stopTimerLocked()
	text := c.text
	c.mu.Unlock()
	if text == "" {
		return
	}
	c.fire(text)
}

// ListAll queries the full contact listing (no keyword filter), as done once
// at startup.
func (c *Controller) ListAll() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
	c.fire("")
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) fire(keyword string) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.listener.OnSearchLoading()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		contacts, err := c.source.Contacts(ctx, keyword)

		c.mu.Lock()
		stale := c.seq != seq
		c.mu.Unlock()
		if stale {
			log.Printf("[search] dropping stale result for %q", keyword)
			return
		}

		if err != nil {
			kind := chatlog.ClassifyFailure(err)
			log.Printf("[search] contact query %q failed: %v", keyword, err)
			c.listener.OnSearchError(kind, err)
			return
		}
		if len(contacts) == 0 {
			c.listener.OnSearchEmpty()
			return
		}
		c.listener.OnSearchResults(contacts)
	}()
}
