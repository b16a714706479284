package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/preventia/duerp-crm/internal/entity"
)

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishEmailJob(ctx context.Context, payload EmailJobPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestSendEmailPublishesJob(t *testing.T) {
	clients := new(MockClientDirectory)
	producer := new(MockQueueProducer)
	uc := NewSendEmailUseCase(clients, producer)

	clients.On("FindByID", mock.Anything, int64(4)).
		Return(&entity.Client{ID: 4, Email: "c@exemple.fr"}, nil)
	producer.On("PublishEmailJob", mock.Anything, EmailJobPayload{
		ClientID:    4,
		TemplateKey: "relance-duerp",
		Origin:      "API",
	}).Return(nil)

	output, err := uc.Execute(context.Background(), SendEmailInput{ClientID: 4, TemplateKey: "relance-duerp"})

	assert.NoError(t, err)
	assert.True(t, output.Queued)
	assert.Equal(t, "c@exemple.fr", output.Recipient)
	producer.AssertExpectations(t)
}

func TestSendEmailRequiresClientAndTemplate(t *testing.T) {
	uc := NewSendEmailUseCase(new(MockClientDirectory), new(MockQueueProducer))

	_, err := uc.Execute(context.Background(), SendEmailInput{})

	assert.True(t, IsDomainError(err))
	assert.Equal(t, "VALIDATION_ERROR", err.(*DomainError).Code)
}

func TestSendEmailRejectsClientWithoutAddress(t *testing.T) {
	clients := new(MockClientDirectory)
	uc := NewSendEmailUseCase(clients, new(MockQueueProducer))

	clients.On("FindByID", mock.Anything, int64(4)).
		Return(&entity.Client{ID: 4, Email: ""}, nil)

	_, err := uc.Execute(context.Background(), SendEmailInput{ClientID: 4, TemplateKey: "relance-duerp"})

	assert.Equal(t, "NO_RECIPIENT", err.(*DomainError).Code)
}

func TestSendEmailQueueFailureIsTechnical(t *testing.T) {
	clients := new(MockClientDirectory)
	producer := new(MockQueueProducer)
	uc := NewSendEmailUseCase(clients, producer)

	clients.On("FindByID", mock.Anything, int64(4)).
		Return(&entity.Client{ID: 4, Email: "c@exemple.fr"}, nil)
	producer.On("PublishEmailJob", mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	_, err := uc.Execute(context.Background(), SendEmailInput{ClientID: 4, TemplateKey: "relance-duerp"})

	assert.True(t, IsTechnicalError(err))
}
