// Package prompt holds the summarization prompt templates: a fixed set of
// builtins plus any custom templates added during the session. Nothing here
// is persisted; the catalog resets on every run.
package prompt

import (
	"errors"
	"strings"
)

// ErrEmptyPrompt rejects custom templates whose trimmed text is empty.
var ErrEmptyPrompt = errors.New("prompt text is empty")

// Origin records whether a template shipped with the app or was user-added.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginCustom
)

// Template is one selectable prompt.
type Template struct {
	Text   string
	Origin Origin
}

const topicReportPrompt = `Turn this group chat log into a discussion report containing at most five topics (briefly append any overflow topics at the end). For each topic include:
- Topic name (under 50 words, numbered, with a popularity rating shown as a row of fire emoji)
- Participants (at most five, deduplicated)
- Time span (from when to when)
- What happened (50 to 200 words)
- Verdict (under 50 words)
- Separator line: ------------

Additional rules:
1. End every topic with the ------------ separator.
2. No overall title.
3. Open with a one-line read on the room's discussion style (lively, dead, off-topic, and so on).

Close the report with the five most active speakers.`

const technicalQAPrompt = `Extract every technical question raised in this chat log together with the best answer the participants gave it. For each pair list:
- Question (quoted or tightly paraphrased)
- Answer (summarized; write "unanswered" if nobody resolved it)
- Who answered

Skip small talk entirely.`

var builtinTexts = []string{
	topicReportPrompt,
	technicalQAPrompt,
	"Summarize the main content of the following chat log.",
	"Extract the key information from the following chat log.",
	"Analyze the following chat log and list the important items and decisions.",
}

// Catalog tracks the ordered templates and the currently active prompt text.
// The active text may be free-form (the selector is editable), so it is kept
// as a string rather than an index into the template list.
type Catalog struct {
	templates []Template
	active    string
}

// NewCatalog returns a catalog seeded with the builtin templates; the first
// builtin starts active.
func NewCatalog() *Catalog {
	templates := make([]Template, 0, len(builtinTexts))
	for _, text := range builtinTexts {
		templates = append(templates, Template{Text: text, Origin: OriginBuiltin})
	}
	return &Catalog{
		templates: templates,
		active:    templates[0].Text,
	}
}

// Templates returns the templates in order: builtins first, then customs in
// insertion order. The returned slice is a copy.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

// AddCustom appends a custom template and makes it active.
func (c *Catalog) AddCustom(text string) (Template, error) {
	if strings.TrimSpace(text) == "" {
		return Template{}, ErrEmptyPrompt
	}
	tpl := Template{Text: text, Origin: OriginCustom}
	c.templates = append(c.templates, tpl)
	c.active = tpl.Text
	return tpl, nil
}

// Active returns the current prompt text.
func (c *Catalog) Active() string {
	return c.active
}

// SetActive replaces the current prompt text.
func (c *Catalog) SetActive(text string) {
	c.active = text
}

// Len reports how many templates the catalog holds.
func (c *Catalog) Len() int {
	return len(c.templates)
}
