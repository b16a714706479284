package entity

import (
	"context"
	"time"
)

// Channel identifie la table de conversation: "client" pour les échanges
// client↔staff (clé = id client), "seller" pour le chat de travail
// admin↔vendeur (clé = id vendeur).
type Channel string

const (
	ChannelClient Channel = "client"
	ChannelSeller Channel = "seller"
)

// ChatMessage est append-only; une pièce jointe unique au plus.
type ChatMessage struct {
	ID             int64        `json:"id"`
	ConversationID int64        `json:"conversation_id"`
	SenderID       int64        `json:"sender_id"`
	SenderKind     IdentityKind `json:"sender_kind"`
	SenderName     string       `json:"sender_name"`
	Body           string       `json:"body"`
	AttachmentURL  string       `json:"attachment_url,omitempty"`
	AttachmentName string       `json:"attachment_name,omitempty"`
	AttachmentMime string       `json:"attachment_mime,omitempty"`
	Read           bool         `json:"read"`
	CreatedAt      time.Time    `json:"created_at"`
}

type MessageRepositoryInterface interface {
	Append(ctx context.Context, ch Channel, m *ChatMessage) error
	ListSince(ctx context.Context, ch Channel, conversationID int64, since time.Time) ([]*ChatMessage, error)
	MarkConversationRead(ctx context.Context, ch Channel, conversationID int64, readerKind IdentityKind) error
	DeleteConversation(ctx context.Context, ch Channel, conversationID int64) error

	// Lectures côté notifications vendeur: messages non lus adressés au
	// vendeur, par canal.
	FindUnreadClientMessages(ctx context.Context, vendeur string) ([]*ChatMessage, error)
	FindUnreadWorkMessages(ctx context.Context, sellerID int64) ([]*ChatMessage, error)
}
