package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func channelTable(ch entity.Channel) (string, error) {
	switch ch {
	case entity.ChannelClient:
		return "chat_messages", nil
	case entity.ChannelSeller:
		return "admin_seller_messages", nil
	}
	return "", fmt.Errorf("unknown channel %q", ch)
}

const messageColumns = `id, conversation_id, sender_id, sender_kind, sender_name, body,
	attachment_url, attachment_name, attachment_mime, read, created_at`

func scanMessage(rows *sql.Rows) (*entity.ChatMessage, error) {
	var m entity.ChatMessage
	var attURL, attName, attMime sql.NullString

	err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderKind,
		&m.SenderName, &m.Body, &attURL, &attName, &attMime, &m.Read, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	m.AttachmentURL = attURL.String
	m.AttachmentName = attName.String
	m.AttachmentMime = attMime.String
	return &m, nil
}

func (r *MessageRepository) Append(ctx context.Context, ch entity.Channel, m *entity.ChatMessage) error {
	table, err := channelTable(ch)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (conversation_id, sender_id, sender_kind,
			sender_name, body, attachment_url, attachment_name,
			attachment_mime, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
		RETURNING id, created_at
	`

	return r.DB.QueryRowContext(ctx, query,
		m.ConversationID, m.SenderID, m.SenderKind, m.SenderName, m.Body,
		nullString(m.AttachmentURL), nullString(m.AttachmentName),
		nullString(m.AttachmentMime),
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) ListSince(ctx context.Context, ch entity.Channel, conversationID int64, since time.Time) ([]*entity.ChatMessage, error) {
	table, err := channelTable(ch)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM `+table+` WHERE conversation_id = $1 AND created_at > $2 ORDER BY created_at`,
		conversationID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkConversationRead marque lus les messages de la conversation qui
// n'ont pas été émis par le lecteur.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, ch entity.Channel, conversationID int64, readerKind entity.IdentityKind) error {
	table, err := channelTable(ch)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET read = TRUE WHERE conversation_id = $1 AND sender_kind <> $2 AND read = FALSE`,
		conversationID, readerKind)
	return err
}

func (r *MessageRepository) DeleteConversation(ctx context.Context, ch entity.Channel, conversationID int64) error {
	table, err := channelTable(ch)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE conversation_id = $1`, conversationID)
	return err
}

// FindUnreadClientMessages liste les messages clients non lus adressés au
// vendeur, rattaché par nom complet dénormalisé.
func (r *MessageRepository) FindUnreadClientMessages(ctx context.Context, vendeur string) ([]*entity.ChatMessage, error) {
	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.sender_kind,
			m.sender_name, m.body, m.attachment_url, m.attachment_name,
			m.attachment_mime, m.read, m.created_at
		FROM chat_messages m
		JOIN clients c ON c.id = m.conversation_id
		WHERE c.vendeur = $1 AND m.sender_kind = 'client' AND m.read = FALSE
		ORDER BY m.created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, vendeur)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *MessageRepository) FindUnreadWorkMessages(ctx context.Context, sellerID int64) ([]*entity.ChatMessage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM admin_seller_messages WHERE conversation_id = $1 AND sender_kind = 'admin' AND read = FALSE ORDER BY created_at`,
		sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func collectMessages(rows *sql.Rows) ([]*entity.ChatMessage, error) {
	messages := []*entity.ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
