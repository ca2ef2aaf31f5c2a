package models

import "time"

// Reaction is a viewer's like/dislike state on a post or comment. The two
// are mutually exclusive; the empty string means no reaction.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Author is the denormalized author reference embedded in posts and
// comments.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Post is a feed entry.
type Post struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Images    []string  `json:"images,omitempty"` // data URLs, stored inline
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Reaction  Reaction  `json:"userReaction,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
	GroupSlug string    `json:"groupSlug,omitempty"`
	Shares    int       `json:"shares,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
	Saved     bool      `json:"saved,omitempty"`
}

// Comment belongs to a post. Threading is a flat list with parent
// pointers; ParentID empty means a root comment.
type Comment struct {
	ID         string    `json:"id"`
	Author     Author    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	Reaction   Reaction  `json:"userReaction,omitempty"`
	ParentID   string    `json:"parentId,omitempty"`
	ReplyingTo string    `json:"replyingTo,omitempty"`
	Hidden     bool      `json:"hidden,omitempty"`
}

// Group is a user community. Members holds member ids; the owner is always
// a member.
type Group struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Privacy     string    `json:"privacy"` // "public" | "private"
	Avatar      string    `json:"avatar,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	Owner       Author    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	Members     []string  `json:"members"`
}

// Profile is a user profile keyed by handle.
type Profile struct {
	Handle      string    `json:"handle"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	Avatar      string    `json:"avatar,omitempty"` // data URL or emoji fallback
	AvatarFrame string    `json:"avatarFrame,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Notification types.
const (
	NotifLike    = "like"
	NotifMention = "mention"
	NotifComment = "comment"
	NotifFollow  = "follow"
	NotifInvite  = "invite"
)

// Notification is an item in the notification list. TargetHandle restricts
// an invite to one recipient; Invite carries the group it joins.
type Notification struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Title        string        `json:"title"`
	Meta         string        `json:"meta,omitempty"`
	Unread       bool          `json:"unread"`
	TargetHandle string        `json:"targetHandle,omitempty"`
	Invite       *InviteDetail `json:"invite,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// InviteDetail is the payload of a group invite notification.
type InviteDetail struct {
	GroupSlug string `json:"groupSlug"`
	GroupName string `json:"groupName"`
	From      string `json:"from"`
}

// Thread is a direct-message conversation. Unread is the badge count shown
// in the inbox strip; Pinned threads sort before the rest.
type Thread struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Initials  string          `json:"initials,omitempty"`
	Last      string          `json:"last,omitempty"`
	Unread    int             `json:"unread"`
	Pinned    bool            `json:"pinned"`
	Muted     bool            `json:"muted,omitempty"`
	Online    bool            `json:"online,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Messages  []ThreadMessage `json:"messages,omitempty"`
}

// ThreadMessage is one direct message inside a thread.
type ThreadMessage struct {
	ID     string    `json:"id"`
	FromMe bool      `json:"fromMe"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// GamesState is the whole games/economy record stored under one key.
type GamesState struct {
	Hearts      int                     `json:"hearts"`
	NextHeartAt *time.Time              `json:"nextHeartAt,omitempty"`
	Coins       int                     `json:"coins"`
	TotalScore  int                     `json:"totalScore"`
	Leaderboard []LeaderboardEntry      `json:"leaderboard,omitempty"`
	Progress    map[string]GameProgress `json:"progress,omitempty"`
}

type LeaderboardEntry struct {
	Handle string `json:"handle"`
	Score  int    `json:"score"`
}

type GameProgress struct {
	Completed int `json:"completed"`
}

// InventoryItem is one stack of an owned store item.
type InventoryItem struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// Trade offer statuses.
const (
	TradePending  = "pending"
	TradeAccepted = "accepted"
	TradeRejected = "rejected"
)

// TradeOffer proposes exchanging an owned item for coins or another item.
type TradeOffer struct {
	ID        string     `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Give      TradeSide  `json:"give"`
	Want      TradeSide  `json:"want"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

// TradeSide is either an item stack or a coin amount.
type TradeSide struct {
	ItemID string `json:"itemId,omitempty"`
	Qty    int    `json:"qty,omitempty"`
	Coins  int    `json:"coins,omitempty"`
}

// Story is a long-form entry with presentation choices and counters.
type Story struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Body      string     `json:"body"` // serialized markup, opaque here
	Font      string     `json:"font,omitempty"`
	FontSize  int        `json:"fontSize,omitempty"`
	Cover     string     `json:"cover,omitempty"`
	Published bool       `json:"published"`
	ShareSlug string     `json:"shareSlug,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Stats     StoryStats `json:"stats"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // set only in trash
}

type StoryStats struct {
	Views      int            `json:"views"`
	Shares     int            `json:"shares"`
	Downloads  map[string]int `json:"downloads,omitempty"` // format -> count
	LastReadAt *time.Time     `json:"lastReadAt,omitempty"`
}

// ReadRecord is one entry in a user's story reading history.
type ReadRecord struct {
	Handle  string    `json:"handle"`
	StoryID string    `json:"storyId"`
	ReadAt  time.Time `json:"readAt"`
}

// Account holds the demo credentials and recovery state.
type Account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	ResetCode    string `json:"resetCode,omitempty"`
}

// Settings are behavior preferences persisted as-is.
type Settings struct {
	Theme         string `json:"theme,omitempty"`
	Language      string `json:"language,omitempty"`
	Notifications bool   `json:"notifications"`
	AutoplayMedia bool   `json:"autoplayMedia"`
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	TS      time.Time `json:"ts"`
}

// ChatSession is a chatbot conversation with its learned memory.
type ChatSession struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	UserID    string            `json:"user_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []Message         `json:"messages"`
	Memory    map[string]string `json:"memory,omitempty"`
}

// SessionMeta is the listing view of a chat session.
type SessionMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  int       `json:"messages"`
}

// AnalyticsEvent is one fire-and-forget telemetry record.
type AnalyticsEvent struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	TS        time.Time      `json:"ts"`
}
