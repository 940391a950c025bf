package tui

type focusArea int

const (
	focusSearch focusArea = iota
	focusContacts
	focusDate
	focusPrompt
)

var focusSequence = []focusArea{
	focusSearch,
	focusContacts,
	focusDate,
	focusPrompt,
}

const heroTagline = "Browse chat history, summarize it with one keystroke."

const (
	searchPlaceholder = "Type to search contacts…"
	datePlaceholder   = "YYYY-MM-DD or YYYY-MM-DD~YYYY-MM-DD"
	promptPlaceholder = "Write a custom summarization prompt…"
)

const (
	contactListRows  = 12
	promptPreviewLen = 72
)

// Contact list placeholders, one per search outcome.
const (
	placeholderSearching  = "Searching contacts…"
	placeholderNoMatches  = "No matching contacts"
	placeholderTimeout    = "Search timed out"
	placeholderConnection = "Connection error"
	placeholderSearchHTTP = "Search failed (HTTP %d)"
	placeholderSearchErr  = "Search failed"
	placeholderTypeToFind = "Type a keyword to search contacts"
)

// Transcript pane placeholders, one per fetch outcome.
const (
	placeholderChatLoading    = "Loading chat history…"
	placeholderChatEmpty      = "No chat history for this window"
	placeholderChatTimeout    = "Chat history request timed out"
	placeholderChatConnection = "Connection error while loading chat history"
	placeholderChatHTTP       = "Chat history request failed (HTTP %d)"
	placeholderChatErr        = "Chat history request failed"
	placeholderPickContact    = "Select a contact to load chat history"
)
