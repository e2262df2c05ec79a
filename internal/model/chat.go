package model

import "time"

// Chat is a conversation between two users, optionally about an item.
type Chat struct {
	ID            int64      `json:"id"`
	UserID1       int64      `json:"userId1"`
	UserID2       int64      `json:"userId2"`
	ItemID        *int64     `json:"itemId"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}

// HasParticipant reports whether userID occupies either participant slot.
func (c Chat) HasParticipant(userID int64) bool {
	return c.UserID1 == userID || c.UserID2 == userID
}

// Counterpart returns the participant that is not userID.
func (c Chat) Counterpart(userID int64) int64 {
	if c.UserID1 == userID {
		return c.UserID2
	}
	return c.UserID1
}

// Connects reports whether the chat is between a and b (in either order)
// about the given item. A nil item only matches chats without one.
func (c Chat) Connects(a, b int64, itemID *int64) bool {
	pair := (c.UserID1 == a && c.UserID2 == b) || (c.UserID1 == b && c.UserID2 == a)
	if !pair {
		return false
	}
	if c.ItemID == nil || itemID == nil {
		return c.ItemID == nil && itemID == nil
	}
	return *c.ItemID == *itemID
}

// ChatInput holds the fields accepted when opening a chat.
type ChatInput struct {
	UserID1 int64  `json:"userId1"`
	UserID2 int64  `json:"userId2"`
	ItemID  *int64 `json:"itemId"`
}

// ChatPatch is a partial update of a chat.
type ChatPatch struct {
	ItemID        *int64
	LastMessageAt *time.Time
}

// Apply returns a copy of c with the patch merged in.
func (p ChatPatch) Apply(c Chat) Chat {
	if p.ItemID != nil {
		id := *p.ItemID
		c.ItemID = &id
	}
	if p.LastMessageAt != nil {
		at := *p.LastMessageAt
		c.LastMessageAt = &at
	}
	return c
}

// ValidateChatInput checks a chat payload.
func ValidateChatInput(in ChatInput) error {
	var v validator
	v.positive("userId1", in.UserID1)
	v.positive("userId2", in.UserID2)
	if in.UserID1 != 0 && in.UserID1 == in.UserID2 {
		v.add("userId2", "must differ from userId1")
	}
	if in.ItemID != nil {
		v.positive("itemId", *in.ItemID)
	}
	return v.err()
}

// Message is a single chat message.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chatId"`
	SenderID  int64     `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageInput holds the fields accepted when sending a message.
type MessageInput struct {
	ChatID   int64  `json:"chatId"`
	SenderID int64  `json:"senderId"`
	Content  string `json:"content"`
}

// MaxMessageLength bounds the size of a single message.
const MaxMessageLength = 4000

// ValidateMessageInput checks a message payload.
func ValidateMessageInput(in MessageInput) error {
	var v validator
	v.positive("chatId", in.ChatID)
	v.positive("senderId", in.SenderID)
	v.required("content", in.Content)
	v.maxLen("content", in.Content, MaxMessageLength)
	return v.err()
}
