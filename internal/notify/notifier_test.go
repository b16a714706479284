package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Append(ctx context.Context, ch entity.Channel, msg *entity.ChatMessage) error {
	args := m.Called(ctx, ch, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) ListSince(ctx context.Context, ch entity.Channel, conversationID int64, since time.Time) ([]*entity.ChatMessage, error) {
	args := m.Called(ctx, ch, conversationID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatMessage), args.Error(1)
}

func (m *MockMessageRepo) MarkConversationRead(ctx context.Context, ch entity.Channel, conversationID int64, readerKind entity.IdentityKind) error {
	args := m.Called(ctx, ch, conversationID, readerKind)
	return args.Error(0)
}

func (m *MockMessageRepo) DeleteConversation(ctx context.Context, ch entity.Channel, conversationID int64) error {
	args := m.Called(ctx, ch, conversationID)
	return args.Error(0)
}

func (m *MockMessageRepo) FindUnreadClientMessages(ctx context.Context, vendeur string) ([]*entity.ChatMessage, error) {
	args := m.Called(ctx, vendeur)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatMessage), args.Error(1)
}

func (m *MockMessageRepo) FindUnreadWorkMessages(ctx context.Context, sellerID int64) ([]*entity.ChatMessage, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatMessage), args.Error(1)
}

func msg(id, convID int64, body string, at time.Time) *entity.ChatMessage {
	return &entity.ChatMessage{
		ID:             id,
		ConversationID: convID,
		SenderID:       convID,
		SenderKind:     entity.KindClient,
		SenderName:     "Client Test",
		Body:           body,
		CreatedAt:      at,
	}
}

func TestPollGroupsUnreadMessagesPerClient(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return([]*entity.ChatMessage{
		msg(101, 12, "Bonjour", base),
		msg(102, 12, "Vous êtes là ?", base.Add(time.Minute)),
		msg(103, 12, "Toujours pas de réponse", base.Add(2*time.Minute)),
	}, nil)
	repo.On("FindUnreadWorkMessages", ctx, int64(4)).Return([]*entity.ChatMessage{}, nil)

	notifications, err := notifier.Poll(ctx, 4, "Marie Lefevre")

	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, int64(12), notifications[0].ConversationID)
	assert.Equal(t, "Toujours pas de réponse", notifications[0].Body)
	assert.Equal(t, base.Add(2*time.Minute), notifications[0].Timestamp)
	assert.True(t, notifications[0].Fresh)
}

func TestPollDoesNotReAlertAcrossPolls(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	unread := []*entity.ChatMessage{msg(200, 33, "Question DUERP", base)}
	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return(unread, nil)
	repo.On("FindUnreadWorkMessages", ctx, int64(4)).Return([]*entity.ChatMessage{}, nil)

	first, err := notifier.Poll(ctx, 4, "Marie Lefevre")
	assert.NoError(t, err)
	assert.True(t, first[0].Fresh)

	second, err := notifier.Poll(ctx, 4, "Marie Lefevre")
	assert.NoError(t, err)
	assert.Len(t, second, 1)
	assert.False(t, second[0].Fresh)
}

func TestPollNewMessageRefreshesNotification(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return([]*entity.ChatMessage{
		msg(200, 33, "Question DUERP", base),
	}, nil).Once()
	repo.On("FindUnreadWorkMessages", ctx, int64(4)).Return([]*entity.ChatMessage{}, nil)

	notifier.Poll(ctx, 4, "Marie Lefevre")

	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return([]*entity.ChatMessage{
		msg(200, 33, "Question DUERP", base),
		msg(201, 33, "Relance", base.Add(time.Minute)),
	}, nil).Once()

	notifications, err := notifier.Poll(ctx, 4, "Marie Lefevre")

	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, "Relance", notifications[0].Body)
	assert.True(t, notifications[0].Fresh)
}

func TestWorkChatNotificationIsSeparate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return([]*entity.ChatMessage{
		msg(300, 12, "Bonjour", base),
	}, nil)
	repo.On("FindUnreadWorkMessages", ctx, int64(4)).Return([]*entity.ChatMessage{
		{ID: 400, ConversationID: 4, SenderKind: entity.KindAdmin, SenderName: "Admin", Body: "Point hebdo", CreatedAt: base},
	}, nil)

	notifications, err := notifier.Poll(ctx, 4, "Marie Lefevre")

	assert.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, entity.KindClient, notifications[0].PartnerKind)
	assert.Equal(t, entity.KindAdmin, notifications[1].PartnerKind)
}

func TestSeenSetIsBoundedAt100(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	many := make([]*entity.ChatMessage, 0, 120)
	for i := 0; i < 120; i++ {
		many = append(many, msg(int64(1000+i), int64(i+1), fmt.Sprintf("msg %d", i), base))
	}
	repo.On("FindUnreadClientMessages", ctx, "Marie Lefevre").Return(many, nil)
	repo.On("FindUnreadWorkMessages", ctx, int64(4)).Return([]*entity.ChatMessage{}, nil)

	notifier.Poll(ctx, 4, "Marie Lefevre")

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.seenLog, 100)
	assert.Len(t, notifier.seen, 100)
}

func TestDismissMarksConversationRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := NewNotifier(repo)

	repo.On("MarkConversationRead", ctx, entity.ChannelClient, int64(12), entity.KindSeller).Return(nil)

	err := notifier.Dismiss(ctx, entity.ChannelClient, 12, entity.KindSeller)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
