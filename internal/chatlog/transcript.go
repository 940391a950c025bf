package chatlog

import (
	"strings"

	"golang.org/x/net/html"
)

// Transcript is the raw chat log for one (contact, window) pair. The service
// does not guarantee a content type, so the body is sniffed once at fetch
// time and carried with its verdict.
type Transcript struct {
	Raw    string
	IsHTML bool
}

// Empty reports whether the window held no content.
func (t Transcript) Empty() bool {
	return strings.TrimSpace(t.Raw) == ""
}

// PlainText flattens an HTML transcript to the text fed to the summarizer.
// Plain bodies pass through untouched.
func (t Transcript) PlainText() string {
	if !t.IsHTML {
		return t.Raw
	}
	return strings.TrimSpace(stripTags(t.Raw))
}

// looksLikeHTML is the compatibility contract with the chat-log service: a
// trimmed body starting with '<' and mentioning "html" anywhere is treated
// as markup. Deliberately no smarter than that.
func looksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(strings.ToLower(trimmed), "html")
}

var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "table": true,
}

func stripTags(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var builder strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return builder.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skipDepth++
			}
			if blockTags[tag] {
				builder.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
			if blockTags[tag] {
				builder.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockTags[string(name)] {
				builder.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
			}
		}
	}
}
