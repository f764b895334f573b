package common

// Keys of the local markers table that hold the persisted session.
const (
	SessionTokenKey = "session_token"
	SessionLoginKey = "session_login"
)

// DefaultConversationTitleFormat names conversations created without a title.
const DefaultConversationTitleFormat = "Chat %d"
