// Package deepseek implements the streaming summarization engine: a
// cancellable chat-completions request whose response is parsed line by line
// and delivered to a consumer as incremental text chunks.
package deepseek

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lwei/chatsum/internal/httpx"
)

const (
	connectTimeout = 10 * time.Second
	headerTimeout  = 60 * time.Second

	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// SystemPrompt is the fixed persona sent as the first message of every
// summarization request.
const SystemPrompt = "You are a professional chat-log summarization assistant, skilled at extracting key information and producing concise summaries."

// ErrMissingAPIKey is returned by Start when no credential is configured.
var ErrMissingAPIKey = errors.New("api key is not configured")

// Message is one entry of the chat-completions conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the streaming completion payload. It is built fresh per
// invocation and never mutated after construction.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// NewRequest composes the two-message request the engine runs: the fixed
// system persona plus the active prompt joined to the transcript.
func NewRequest(model, promptText, transcript string) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: promptText + "\n\n" + transcript},
		},
		Stream: true,
	}
}

// Credentials identify the completion endpoint for one session.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// Consumer receives session callbacks. Calls arrive asynchronously but
// in-order from a single goroutine; a stopped session receives no terminal
// callback at all.
type Consumer interface {
	OnChunk(text string)
	OnCompleted()
	OnFailed(err error)
}

// State enumerates the session lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) terminal() bool {
	return s == StateStopped || s == StateCompleted || s == StateFailed
}

// Session is one streaming run. Only the engine goroutine mutates the
// accumulated text; callers read it and request cooperative stops.
type Session struct {
	id            string
	state         atomic.Int32
	stopRequested atomic.Bool

	mu   sync.Mutex
	text strings.Builder
	body io.Closer
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State reports the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Text returns the text accumulated so far, in wire order.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

func (s *Session) append(chunk string) {
	s.mu.Lock()
	s.text.WriteString(chunk)
	s.mu.Unlock()
}

func (s *Session) setBody(body io.Closer) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

// Stop requests a cooperative cancel. The read loop observes the flag at the
// next line boundary; at most one already-read chunk may still be delivered.
// The underlying connection is closed so a read blocked mid-stream unblocks
// promptly. Stopping an already-terminal session is a no-op.
func (s *Session) Stop() {
	if s.State().terminal() {
		return
	}
	s.stopRequested.Store(true)
	s.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
	s.mu.Lock()
	body := s.body
	s.mu.Unlock()
	if body != nil {
		body.Close()
	}
}

// Engine runs streaming sessions. It is reusable: each Start builds a fresh
// session. Exactly one session should run at a time; callers stop the
// previous session before starting a new one (the engine never auto-cancels).
type Engine struct {
	client *http.Client
}

// NewEngine returns an engine with the standard streaming timeout policy.
func NewEngine() *Engine {
	return &Engine{client: httpx.NewStreamingClient(connectTimeout, headerTimeout)}
}

// Start launches a session on its own goroutine and returns immediately.
// It fails fast with ErrMissingAPIKey when no credential is supplied.
func (e *Engine) Start(req Request, creds Credentials, consumer Consumer) (*Session, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	req.Stream = true
	session := &Session{id: uuid.NewString()}
	session.state.Store(int32(StateRunning))
	go e.run(session, req, creds, consumer)
	return session, nil
}

func (e *Engine) run(session *Session, req Request, creds Credentials, consumer Consumer) {
	payload, err := json.Marshal(req)
	if err != nil {
		e.fail(session, consumer, fmt.Errorf("encode completion request: %w", err))
		return
	}

	endpoint := strings.TrimRight(creds.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		e.fail(session, consumer, fmt.Errorf("build completion request: %w", err))
		return
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.fail(session, consumer, httpx.Classify(err))
		return
	}
	defer resp.Body.Close()
	session.setBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		e.fail(session, consumer, &httpx.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))})
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)

	for {
		if session.stopRequested.Load() {
			session.state.Store(int32(StateStopped))
			log.Printf("[deepseek] session %s stopped after %d bytes", session.id, len(session.Text()))
			return
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := line[len(dataPrefix):]
		if data == doneSentinel {
			break
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Tolerates partial or split frames from the transport.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		session.append(content)
		consumer.OnChunk(content)
	}

	if err := scanner.Err(); err != nil {
		e.fail(session, consumer, httpx.Classify(err))
		return
	}
	if session.stopRequested.Load() {
		session.state.Store(int32(StateStopped))
		return
	}
	session.state.Store(int32(StateCompleted))
	log.Printf("[deepseek] session %s completed (%d bytes)", session.id, len(session.Text()))
	consumer.OnCompleted()
}

// fail marks the session Failed and notifies the consumer, unless a stop was
// already requested: a stop-in-flight never surfaces as a failure.
func (e *Engine) fail(session *Session, consumer Consumer, err error) {
	if session.stopRequested.Load() {
		session.state.Store(int32(StateStopped))
		return
	}
	session.state.Store(int32(StateFailed))
	log.Printf("[deepseek] session %s failed: %v", session.id, err)
	consumer.OnFailed(err)
}
