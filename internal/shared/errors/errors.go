package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("BOT_TOKEN environment variable is required")
	ErrMissingChatID   = errors.New("CHAT_ID environment variable is required")

	// Failure classes recovered inside the poll loop. Wrapped with oops at
	// call sites so errors.Is still matches the class.
	ErrFeedFetch = errors.New("feed fetch failed")
	ErrFeedParse = errors.New("feed parse failed")
	ErrNotify    = errors.New("notification send failed")
)
