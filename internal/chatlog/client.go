// Package chatlog talks to the external chat-log HTTP service: contact
// lookups and transcript retrieval for a contact/date window.
package chatlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lwei/chatsum/internal/httpx"
)

const (
	connectTimeout = 5 * time.Second
	readTimeout    = 30 * time.Second
)

// FailureKind buckets transport outcomes into the states the UI renders.
type FailureKind int

const (
	FailureTimeout FailureKind = iota
	FailureConnection
	FailureHTTP
	FailureOther
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureConnection:
		return "connection error"
	case FailureHTTP:
		return "http error"
	default:
		return "error"
	}
}

// ClassifyFailure maps a client error onto its failure bucket.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, httpx.ErrTimeout):
		return FailureTimeout
	case errors.Is(err, httpx.ErrConnection):
		return FailureConnection
	default:
		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) {
			return FailureHTTP
		}
		return FailureOther
	}
}

// StatusCode extracts the HTTP status from a FailureHTTP error, 0 otherwise.
func StatusCode(err error) int {
	var statusErr *httpx.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// Client queries one chat-log service instance.
type Client struct {
	base   string
	client *http.Client
}

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		base:   baseURL,
		client: httpx.NewClient(connectTimeout, readTimeout),
	}
}

// Contacts looks up contacts matching keyword; an empty keyword lists every
// contact. The returned order is the server's, untouched.
func (c *Client) Contacts(ctx context.Context, keyword string) ([]Contact, error) {
	endpoint := fmt.Sprintf("%s/contact?format=json", c.base)
	if keyword != "" {
		endpoint += "&keyword=" + url.QueryEscape(keyword)
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []Contact `json:"items"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode contact response: %w", err)
	}
	return parsed.Items, nil
}

// Fetch retrieves the transcript for one contact and window. An empty body
// is a valid result; callers check Transcript.Empty.
func (c *Client) Fetch(ctx context.Context, talker string, window DateWindow) (Transcript, error) {
	endpoint := fmt.Sprintf("%s/chatlog?time=%s&talker=%s", c.base, window.Query(), url.QueryEscape(talker))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return Transcript{}, err
	}
	raw := string(body)
	return Transcript{Raw: raw, IsHTML: looksLikeHTML(raw)}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, httpx.Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &httpx.StatusError{Code: resp.StatusCode, Body: string(excerpt)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpx.Classify(err)
	}
	return body, nil
}
