// Package notify agrège les messages non lus d'un vendeur en une
// notification par interlocuteur, pas une par message. Un ensemble borné
// d'ids déjà présentés évite de ré-alerter à chaque poll pour un message
// vu mais pas encore marqué lu.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/rs/zerolog/log"
)

// PollInterval est le rythme de poll attendu côté client.
const PollInterval = 5 * time.Second

// maxSeen borne l'ensemble des notifications déjà présentées; au-delà,
// les plus anciennes sont oubliées.
const maxSeen = 100

type Notification struct {
	ID             string              `json:"id"`
	Channel        entity.Channel      `json:"channel"`
	ConversationID int64               `json:"conversation_id"`
	PartnerKind    entity.IdentityKind `json:"partner_kind"`
	PartnerName    string              `json:"partner_name"`
	Body           string              `json:"body"`
	MessageID      int64               `json:"message_id"`
	Timestamp      time.Time           `json:"timestamp"`
	// Fresh vaut true la première fois que cette notification est
	// présentée; l'UI ne déclenche son alerte que sur celles-là.
	Fresh bool `json:"fresh"`
}

type Notifier struct {
	messages entity.MessageRepositoryInterface

	mu      sync.Mutex
	seen    map[string]struct{}
	seenLog []string
}

func NewNotifier(messages entity.MessageRepositoryInterface) *Notifier {
	return &Notifier{
		messages: messages,
		seen:     make(map[string]struct{}),
	}
}

// Poll calcule les notifications courantes d'un vendeur: une par client
// avec message non lu (la plus récente gagne), une pour le chat de
// travail admin→vendeur.
func (n *Notifier) Poll(ctx context.Context, sellerID int64, vendeurName string) ([]Notification, error) {
	clientMsgs, err := n.messages.FindUnreadClientMessages(ctx, vendeurName)
	if err != nil {
		return nil, err
	}

	workMsgs, err := n.messages.FindUnreadWorkMessages(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	// Une seule entrée par client: on garde le message le plus récent.
	latestByClient := map[int64]*entity.ChatMessage{}
	order := []int64{}
	for _, m := range clientMsgs {
		cur, ok := latestByClient[m.ConversationID]
		if !ok {
			order = append(order, m.ConversationID)
		}
		if !ok || m.CreatedAt.After(cur.CreatedAt) {
			latestByClient[m.ConversationID] = m
		}
	}

	notifications := []Notification{}
	for _, clientID := range order {
		m := latestByClient[clientID]
		notifications = append(notifications, Notification{
			ID:             fmt.Sprintf("client:%d:%d", clientID, m.ID),
			Channel:        entity.ChannelClient,
			ConversationID: clientID,
			PartnerKind:    entity.KindClient,
			PartnerName:    m.SenderName,
			Body:           m.Body,
			MessageID:      m.ID,
			Timestamp:      m.CreatedAt,
		})
	}

	if len(workMsgs) > 0 {
		latest := workMsgs[len(workMsgs)-1]
		for _, m := range workMsgs {
			if m.CreatedAt.After(latest.CreatedAt) {
				latest = m
			}
		}
		notifications = append(notifications, Notification{
			ID:             fmt.Sprintf("work:%d:%d", sellerID, latest.ID),
			Channel:        entity.ChannelSeller,
			ConversationID: sellerID,
			PartnerKind:    entity.KindAdmin,
			PartnerName:    latest.SenderName,
			Body:           latest.Body,
			MessageID:      latest.ID,
			Timestamp:      latest.CreatedAt,
		})
	}

	n.markFresh(notifications)

	log.Debug().Int64("sellerID", sellerID).Int("count", len(notifications)).Msg("Notifications calculées")
	return notifications, nil
}

// markFresh positionne Fresh sur les ids jamais présentés et les inscrit
// dans l'ensemble borné.
func (n *Notifier) markFresh(notifications []Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := range notifications {
		id := notifications[i].ID
		if _, ok := n.seen[id]; ok {
			continue
		}
		notifications[i].Fresh = true
		n.seen[id] = struct{}{}
		n.seenLog = append(n.seenLog, id)
	}

	for len(n.seenLog) > maxSeen {
		oldest := n.seenLog[0]
		n.seenLog = n.seenLog[1:]
		delete(n.seen, oldest)
	}
}

// ClearBadge: l'ouverture du panneau marque lues toutes les conversations
// visibles ("badge cleared", distinct du dismiss d'une seule conversation).
func (n *Notifier) ClearBadge(ctx context.Context, notifications []Notification, readerKind entity.IdentityKind) {
	for _, notif := range notifications {
		if err := n.messages.MarkConversationRead(ctx, notif.Channel, notif.ConversationID, readerKind); err != nil {
			log.Warn().Err(err).Str("notification", notif.ID).Msg("Notifications: mark-read en échec")
		}
	}
}

// Dismiss marque lue la conversation sous-jacente d'une seule notification.
func (n *Notifier) Dismiss(ctx context.Context, ch entity.Channel, conversationID int64, readerKind entity.IdentityKind) error {
	return n.messages.MarkConversationRead(ctx, ch, conversationID, readerKind)
}
