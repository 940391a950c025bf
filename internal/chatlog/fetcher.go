package chatlog

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// TranscriptListener receives the outcome of one transcript refresh. Within
// one refresh the calls are ordered: OnTranscriptLoading, then exactly one of
// the terminal callbacks. Callbacks arrive on the fetcher's goroutine.
type TranscriptListener interface {
	OnTranscriptLoading()
	OnTranscript(t Transcript)
	OnTranscriptEmpty()
	OnTranscriptError(kind FailureKind, err error)
}

// Fetcher runs transcript retrievals off the caller goroutine. Each Refresh
// supersedes the previous one: a late response whose sequence token no longer
// matches is dropped instead of clobbering newer state.
type Fetcher struct {
	client   *Client
	listener TranscriptListener
	seq      atomic.Uint64
	timeout  time.Duration
}

// NewFetcher wires a fetcher to its client and listener.
func NewFetcher(client *Client, listener TranscriptListener) *Fetcher {
	return &Fetcher{
		client:   client,
		listener: listener,
		timeout:  connectTimeout + readTimeout,
	}
}

// Refresh fetches the transcript for contact over window. It returns at
// once; the listener hears the result. The previous transcript is always
// fully replaced, never merged.
func (f *Fetcher) Refresh(contact Contact, window DateWindow) {
	seq := f.seq.Add(1)
	f.listener.OnTranscriptLoading()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		transcript, err := f.client.Fetch(ctx, contact.UserName, window)
		if f.seq.Load() != seq {
			log.Printf("[chatlog] dropping stale transcript for %s (%s)", contact.UserName, window.Query())
			return
		}
		if err != nil {
			kind := ClassifyFailure(err)
			log.Printf("[chatlog] transcript fetch failed for %s: %v", contact.UserName, err)
			f.listener.OnTranscriptError(kind, err)
			return
		}
		if transcript.Empty() {
			f.listener.OnTranscriptEmpty()
			return
		}
		f.listener.OnTranscript(transcript)
	}()
}

// Invalidate drops any in-flight refresh, used when the contact selection is
// cleared.
func (f *Fetcher) Invalidate() {
	f.seq.Add(1)
}
