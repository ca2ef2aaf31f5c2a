package store

// Storage keys. Every persisted collection lives under exactly one of these
// names; services never invent key strings ad hoc. The names are versioned
// so a future shape change can migrate by switching suffix.
const (
	KeyFeedPosts      = "feed_posts_v1"
	KeyGroups         = "groups_v1"
	KeyNotifications  = "notifications_v1"
	KeyMessageThreads = "messages_threads_v1"
	KeyProfiles       = "profile_users_v1"
	KeyGamesState     = "games_state_v2"
	KeyInventory      = "store_inventory_v1"
	KeyTrades         = "store_trades_v1"
	KeyStories        = "stories_v1"
	KeyStoriesTrash   = "stories_trash_v1"
	KeyReadingHistory = "stories_read_history_v1"
	KeySettings       = "app_settings_v1"
	KeyAccount        = "account_v1"
	KeyLegalAccept    = "legal_accept_v1"

	// Chat sessions are stored one per key under this prefix followed by
	// the session id, plus a per-user memory key.
	KeyChatSessionPrefix = "chat_session_"
	KeyUserMemoryPrefix  = "user_memory_"
)

// LegacyProfileKeys are older names the current-user profile was stored
// under at various points. Reads fall back through them in order before
// giving up.
var LegacyProfileKeys = []string{"user_profile_v1", "profile_v1", "app_profile_v1"}
