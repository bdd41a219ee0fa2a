package storage

import (
	"time"

	"github.com/okulov/chatter/internal/client/models"
)

// SchemaVersion tags every persisted record. A version mismatch on read
// means the layout changed and the record should be discarded, not migrated.
const SchemaVersion = 1

// CachedUser is the persisted identity snapshot.
type CachedUser struct {
	Version    int          `json:"version"`
	CapturedAt time.Time    `json:"capturedAt"`
	User       *models.User `json:"user"`
}

// Post is a local draft post kept on this device.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostBoard struct {
	Version int    `json:"version"`
	Posts   []Post `json:"posts"`
}

// Contact is a user this device has marked as a contact.
type Contact struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	AddedAt  time.Time `json:"addedAt"`
}

type ContactBook struct {
	Version  int       `json:"version"`
	Contacts []Contact `json:"contacts"`
}

// FavoriteSet holds IDs of posts marked as favorites.
type FavoriteSet struct {
	Version int      `json:"version"`
	PostIDs []string `json:"postIds"`
}

// Message is one line of the local chat history.
type Message struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

type MessageLog struct {
	Version  int       `json:"version"`
	Messages []Message `json:"messages"`
}
