package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
)

// ChatsHandler handles chat and message endpoints.
type ChatsHandler struct {
	Market *market.Market
}

// Create handles POST /api/chats. An existing chat between the same users
// about the same item is returned with 200 instead of creating a new one.
func (h *ChatsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())

	var in model.ChatInput
	if err := decodeJSON(r, &in); err != nil {
		invalidBody(w)
		return
	}
	if err := model.ValidateChatInput(in); err != nil {
		writeError(w, r, "Error creating chat", err)
		return
	}
	if in.UserID1 != p.User.ID && in.UserID2 != p.User.ID {
		jsonError(w, http.StatusForbidden, "Cannot create chats for other users")
		return
	}

	chat, created, err := h.Market.FindOrCreateChat(r.Context(), in)
	if err != nil {
		writeError(w, r, "Error creating chat", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	jsonResponse(w, status, chat)
}

// ListByUser handles GET /api/users/{id}/chats.
func (h *ChatsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if id != GetPrincipal(r.Context()).User.ID {
		jsonError(w, http.StatusForbidden, "Cannot read another user's chats")
		return
	}

	chats, err := h.Market.EnrichedChats(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving chats", err)
		return
	}
	jsonResponse(w, http.StatusOK, chats)
}

// participantChat loads a chat and checks that the caller takes part in
// it. It writes the error response and returns nil otherwise.
func (h *ChatsHandler) participantChat(w http.ResponseWriter, r *http.Request, chatID int64, message string) *model.Chat {
	chat, err := h.Market.GetChat(r.Context(), chatID)
	if err != nil {
		serverError(w, r, message, err)
		return nil
	}
	if chat == nil {
		jsonError(w, http.StatusNotFound, "Chat not found")
		return nil
	}
	if !chat.HasParticipant(GetPrincipal(r.Context()).User.ID) {
		jsonError(w, http.StatusForbidden, "Not a participant of this chat")
		return nil
	}
	return chat
}

// CreateMessage handles POST /api/messages.
func (h *ChatsHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())

	var in model.MessageInput
	if err := decodeJSON(r, &in); err != nil {
		invalidBody(w)
		return
	}
	if in.SenderID == 0 {
		in.SenderID = p.User.ID
	}
	if err := model.ValidateMessageInput(in); err != nil {
		writeError(w, r, "Error creating message", err)
		return
	}
	if in.SenderID != p.User.ID {
		jsonError(w, http.StatusForbidden, "Cannot send messages as another user")
		return
	}
	if h.participantChat(w, r, in.ChatID, "Error creating message") == nil {
		return
	}

	msg, err := h.Market.CreateMessage(r.Context(), in)
	if errors.Is(err, market.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		serverError(w, r, "Error creating message", err)
		return
	}
	jsonResponse(w, http.StatusCreated, msg)
}

// Messages handles GET /api/chats/{id}/messages.
func (h *ChatsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid chat id")
		return
	}
	if h.participantChat(w, r, id, "Error retrieving messages") == nil {
		return
	}

	messages, err := h.Market.GetMessagesByChatID(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving messages", err)
		return
	}
	jsonResponse(w, http.StatusOK, messages)
}
