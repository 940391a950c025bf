package chatlog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lwei/chatsum/internal/httpx"
)

func TestContactsListsAllWithoutKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contact" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Fatalf("missing format param: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Has("keyword") {
			t.Fatalf("empty keyword must not be sent: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"userName":"u1","nickName":"Neo"},{"userName":"u2"}]}`))
	}))
	defer server.Close()

	contacts, err := NewClient(server.URL).Contacts(context.Background(), "")
	if err != nil {
		t.Fatalf("contacts failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].UserName != "u1" || contacts[1].UserName != "u2" {
		t.Fatalf("server order not preserved: %#v", contacts)
	}
}

func TestContactsEncodesKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "张 三" {
			t.Fatalf("keyword not decoded as expected: %q", got)
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	contacts, err := NewClient(server.URL).Contacts(context.Background(), "张 三")
	if err != nil {
		t.Fatalf("contacts failed: %v", err)
	}
	if len(contacts) != 0 {
		t.Fatalf("expected no contacts, got %d", len(contacts))
	}
}

func TestContactsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Contacts(context.Background(), "neo")
	if err == nil {
		t.Fatal("expected an error")
	}
	if ClassifyFailure(err) != FailureHTTP {
		t.Fatalf("expected http failure, got %v (%v)", ClassifyFailure(err), err)
	}
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("status lost: %d", StatusCode(err))
	}
}

func TestFetchSingleDayQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chatlog" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("time"); got != "2026-08-29" {
			t.Fatalf("unexpected time param: %q", got)
		}
		if got := r.URL.Query().Get("talker"); got != "room@chat" {
			t.Fatalf("unexpected talker param: %q", got)
		}
		w.Write([]byte("[10:00] alice: hi"))
	}))
	defer server.Close()

	window, err := ParseWindow("2026-08-29")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	transcript, err := NewClient(server.URL).Fetch(context.Background(), "room@chat", window)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if transcript.IsHTML {
		t.Fatal("plain body misclassified as HTML")
	}
	if transcript.PlainText() != "[10:00] alice: hi" {
		t.Fatalf("unexpected transcript: %q", transcript.PlainText())
	}
}

func TestFetchRangeQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("time"); got != "2026-08-01~2026-08-07" {
			t.Fatalf("unexpected time param: %q", got)
		}
		w.Write([]byte(""))
	}))
	defer server.Close()

	window, err := ParseWindow("2026-08-01~2026-08-07")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	transcript, err := NewClient(server.URL).Fetch(context.Background(), "u1", window)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !transcript.Empty() {
		t.Fatalf("expected an empty window, got %q", transcript.Raw)
	}
}

func TestFetchDetectsHTML(t *testing.T) {
	page := `<!DOCTYPE html><html><body><p>alice: hello</p><p>bob: hey</p></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	transcript, err := NewClient(server.URL).Fetch(context.Background(), "u1", SingleDay(mustDay(t, "2026-08-29")))
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !transcript.IsHTML {
		t.Fatal("HTML body not detected")
	}
	plain := transcript.PlainText()
	if plain == page {
		t.Fatal("tags not stripped")
	}
	for _, want := range []string{"alice: hello", "bob: hey"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("plain text missing %q: %q", want, plain)
		}
	}
}

func TestLooksLikeHTMLHeuristic(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"<html><body>x</body></html>", true},
		{"  \n<!DOCTYPE html>", true},
		{"<div>plain markup without the marker</div>", false},
		{"talking about html in plain text", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := looksLikeHTML(tc.body); got != tc.want {
			t.Fatalf("looksLikeHTML(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}

func TestDisplayNameResolution(t *testing.T) {
	cases := []struct {
		contact Contact
		want    string
	}{
		{Contact{UserName: "u1", Remark: "R", NickName: "N"}, "R"},
		{Contact{UserName: "u1", NickName: "N"}, "N"},
		{Contact{UserName: "u1"}, "u1"},
	}
	for _, tc := range cases {
		if got := tc.contact.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%#v) = %q, want %q", tc.contact, got, tc.want)
		}
	}
}

func TestClassifyFailureBuckets(t *testing.T) {
	if got := ClassifyFailure(httpx.ErrTimeout); got != FailureTimeout {
		t.Fatalf("timeout bucket: %v", got)
	}
	if got := ClassifyFailure(httpx.ErrConnection); got != FailureConnection {
		t.Fatalf("connection bucket: %v", got)
	}
	if got := ClassifyFailure(errors.New("weird")); got != FailureOther {
		t.Fatalf("other bucket: %v", got)
	}
}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", value, err)
	}
	return day
}
