package market

import (
	"context"
	"fmt"
	"slices"

	"github.com/erazemk/wastewise/internal/model"
)

// GetChat returns a chat by ID.
func (m *Market) GetChat(ctx context.Context, id int64) (*model.Chat, error) {
	c, ok, err := m.store.Chats.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetChatsByUserID returns every chat userID participates in.
func (m *Market) GetChatsByUserID(ctx context.Context, userID int64) ([]model.Chat, error) {
	chats, err := m.store.Chats.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing user chats: %w", err)
	}
	joined := []model.Chat{}
	for _, c := range chats {
		if c.HasParticipant(userID) {
			joined = append(joined, c)
		}
	}
	return joined, nil
}

// CreateChat stores a new chat stamped with the current time. It does not
// look for an existing chat; see FindOrCreateChat.
func (m *Market) CreateChat(ctx context.Context, in model.ChatInput) (*model.Chat, error) {
	id, err := m.store.Chats.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	now := m.now()
	c := model.Chat{
		ID:            id,
		UserID1:       in.UserID1,
		UserID2:       in.UserID2,
		ItemID:        in.ItemID,
		LastMessageAt: &now,
	}
	if err := m.store.Chats.Put(ctx, id, c); err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return &c, nil
}

// UpdateChat merges patch into a chat. It returns nil if the chat does not
// exist.
func (m *Market) UpdateChat(ctx context.Context, id int64, patch model.ChatPatch) (*model.Chat, error) {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()
	return m.updateChat(ctx, id, patch)
}

// updateChat applies patch to a stored chat. Callers hold chatMu.
func (m *Market) updateChat(ctx context.Context, id int64, patch model.ChatPatch) (*model.Chat, error) {
	c, ok, err := m.store.Chats.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("updating chat: %w", err)
	}
	if !ok {
		return nil, nil
	}
	c = patch.Apply(c)
	c.ID = id
	if err := m.store.Chats.Put(ctx, id, c); err != nil {
		return nil, fmt.Errorf("updating chat: %w", err)
	}
	return &c, nil
}

// FindOrCreateChat returns the chat between the two participants about the
// given item, creating it if none exists. Both users and the item must
// exist. A newly opened chat about an item counts as an inquiry on it.
// The boolean reports whether a chat was created.
func (m *Market) FindOrCreateChat(ctx context.Context, in model.ChatInput) (*model.Chat, bool, error) {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()

	if err := m.checkChatRefs(ctx, in); err != nil {
		return nil, false, err
	}

	chats, err := m.store.Chats.All(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("finding chat: %w", err)
	}
	for _, c := range chats {
		if c.Connects(in.UserID1, in.UserID2, in.ItemID) {
			return &c, false, nil
		}
	}

	c, err := m.CreateChat(ctx, in)
	if err != nil {
		return nil, false, err
	}
	if in.ItemID != nil {
		if _, err := m.RecordInquiry(ctx, *in.ItemID); err != nil {
			return nil, false, err
		}
	}
	return c, true, nil
}

func (m *Market) checkChatRefs(ctx context.Context, in model.ChatInput) error {
	var fields []model.FieldError
	for _, ref := range []struct {
		field string
		id    int64
	}{{"userId1", in.UserID1}, {"userId2", in.UserID2}} {
		_, ok, err := m.store.Users.Get(ctx, ref.id)
		if err != nil {
			return fmt.Errorf("checking chat participant: %w", err)
		}
		if !ok {
			fields = append(fields, model.FieldError{Field: ref.field, Message: "does not reference an existing user"})
		}
	}
	if in.ItemID != nil {
		_, ok, err := m.store.Items.Get(ctx, *in.ItemID)
		if err != nil {
			return fmt.Errorf("checking chat item: %w", err)
		}
		if !ok {
			fields = append(fields, model.FieldError{Field: "itemId", Message: "does not reference an existing item"})
		}
	}
	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields}
	}
	return nil
}

// GetMessagesByChatID returns a chat's messages, oldest first.
func (m *Market) GetMessagesByChatID(ctx context.Context, chatID int64) ([]model.Message, error) {
	messages, err := m.store.Messages.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	thread := []model.Message{}
	for _, msg := range messages {
		if msg.ChatID == chatID {
			thread = append(thread, msg)
		}
	}
	sortMessages(thread)
	return thread, nil
}

// sortMessages orders messages by creation time, then by id.
func sortMessages(messages []model.Message) {
	slices.SortStableFunc(messages, func(a, b model.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
}

// CreateMessage stores a message and moves the chat's lastMessageAt to the
// message's creation time. It returns ErrNotFound if the chat does not
// exist.
func (m *Market) CreateMessage(ctx context.Context, in model.MessageInput) (*model.Message, error) {
	m.chatMu.Lock()
	defer m.chatMu.Unlock()

	c, ok, err := m.store.Chats.Get(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("creating message: chat %d: %w", in.ChatID, ErrNotFound)
	}

	id, err := m.store.Messages.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	msg := model.Message{
		ID:        id,
		ChatID:    in.ChatID,
		SenderID:  in.SenderID,
		Content:   in.Content,
		CreatedAt: m.now(),
	}
	if err := m.store.Messages.Put(ctx, id, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	at := msg.CreatedAt
	c.LastMessageAt = &at
	if err := m.store.Chats.Put(ctx, c.ID, c); err != nil {
		return nil, fmt.Errorf("touching chat: %w", err)
	}
	return &msg, nil
}
