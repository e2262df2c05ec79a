package market

import (
	"context"
	"fmt"
	"slices"

	"github.com/erazemk/wastewise/internal/model"
)

// EnrichedChat is a chat as shown in a user's inbox: the latest message,
// the other participant and the item under discussion.
type EnrichedChat struct {
	model.Chat
	LastMessage *model.Message     `json:"lastMessage"`
	OtherUser   *model.PublicUser  `json:"otherUser"`
	Item        *model.ItemSummary `json:"item"`
}

// EnrichedChats returns the chats of userID, most recently active first.
// Chats without activity sort last. Missing counterparts or items leave the
// matching field nil.
func (m *Market) EnrichedChats(ctx context.Context, userID int64) ([]EnrichedChat, error) {
	chats, err := m.GetChatsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]EnrichedChat, 0, len(chats))
	for _, c := range chats {
		view, err := m.enrich(ctx, c, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	slices.SortStableFunc(views, func(a, b EnrichedChat) int {
		switch {
		case a.LastMessageAt == nil && b.LastMessageAt == nil:
			return 0
		case a.LastMessageAt == nil:
			return 1
		case b.LastMessageAt == nil:
			return -1
		}
		return b.LastMessageAt.Compare(*a.LastMessageAt)
	})
	return views, nil
}

func (m *Market) enrich(ctx context.Context, c model.Chat, userID int64) (EnrichedChat, error) {
	view := EnrichedChat{Chat: c}

	messages, err := m.GetMessagesByChatID(ctx, c.ID)
	if err != nil {
		return view, fmt.Errorf("enriching chat %d: %w", c.ID, err)
	}
	if n := len(messages); n > 0 {
		last := messages[n-1]
		view.LastMessage = &last
	}

	other, err := m.GetUser(ctx, c.Counterpart(userID))
	if err != nil {
		return view, fmt.Errorf("enriching chat %d: %w", c.ID, err)
	}
	if other != nil {
		pub := other.Public()
		view.OtherUser = &pub
	}

	if c.ItemID != nil {
		item, err := m.GetItem(ctx, *c.ItemID)
		if err != nil {
			return view, fmt.Errorf("enriching chat %d: %w", c.ID, err)
		}
		if item != nil {
			summary := item.Summary()
			view.Item = &summary
		}
	}
	return view, nil
}
