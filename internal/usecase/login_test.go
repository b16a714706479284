package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/preventia/duerp-crm/internal/entity"
)

type MockAdminDirectory struct {
	mock.Mock
}

func (m *MockAdminDirectory) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

type MockSellerDirectory struct {
	mock.Mock
}

func (m *MockSellerDirectory) FindByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) FindByID(ctx context.Context, id int64) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientDirectory) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func newLoginFixture() (*LoginUseCase, *MockAdminDirectory, *MockSellerDirectory, *MockClientDirectory) {
	admins := new(MockAdminDirectory)
	sellers := new(MockSellerDirectory)
	clients := new(MockClientDirectory)
	uc := NewLoginUseCase(admins, sellers, clients, "test-secret")
	return uc, admins, sellers, clients
}

func TestLookupResolvesSellerKind(t *testing.T) {
	uc, admins, sellers, _ := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, "v@preventia.fr").Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, "v@preventia.fr").
		Return(&entity.Seller{ID: 7, Email: "v@preventia.fr"}, nil)

	identity, err := uc.Lookup(context.Background(), "v@preventia.fr")

	assert.NoError(t, err)
	assert.Equal(t, entity.KindSeller, identity.Kind)
	assert.Equal(t, int64(7), identity.ID())
}

func TestLookupUnknownEmailIsKindNone(t *testing.T) {
	uc, admins, sellers, clients := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	clients.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)

	identity, err := uc.Lookup(context.Background(), "inconnu@exemple.fr")

	assert.NoError(t, err)
	assert.Equal(t, entity.KindNone, identity.Kind)
	assert.Equal(t, int64(0), identity.ID())
}

// L'admin gagne quand le même email existe dans plusieurs tables.
func TestLookupAdminTakesPrecedence(t *testing.T) {
	uc, admins, _, _ := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, "double@preventia.fr").
		Return(&entity.Admin{ID: 1, Email: "double@preventia.fr"}, nil)

	identity, err := uc.Lookup(context.Background(), "double@preventia.fr")

	assert.NoError(t, err)
	assert.Equal(t, entity.KindAdmin, identity.Kind)
}

func TestLoginIssuesTokenWithKindAndSubject(t *testing.T) {
	uc, admins, sellers, _ := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, "v@preventia.fr").Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, "v@preventia.fr").
		Return(&entity.Seller{ID: 7, FullName: "Claire Dupont", Email: "v@preventia.fr", Password: "secret"}, nil)

	output, err := uc.Execute(context.Background(), LoginInput{Email: "v@preventia.fr", Password: "secret"})

	assert.NoError(t, err)
	assert.Equal(t, entity.KindSeller, output.Kind)
	assert.Equal(t, "Claire Dupont", output.FullName)

	token, err := jwt.Parse(output.Token, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "seller", claims["kind"])
	assert.Equal(t, float64(7), claims["sub"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	uc, admins, sellers, _ := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, mock.Anything).
		Return(&entity.Seller{ID: 7, Password: "secret"}, nil)

	output, err := uc.Execute(context.Background(), LoginInput{Email: "v@preventia.fr", Password: "faux"})

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, "INVALID_CREDENTIALS", err.(*DomainError).Code)
}

// Un mot de passe vide en base ne doit jamais matcher, même contre une
// saisie vide.
func TestLoginRejectsEmptyStoredPassword(t *testing.T) {
	uc, admins, sellers, clients := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	clients.On("FindByEmail", mock.Anything, mock.Anything).
		Return(&entity.Client{ID: 3, ClientPassword: ""}, nil)

	output, err := uc.Execute(context.Background(), LoginInput{Email: "c@exemple.fr", Password: ""})

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
}

// Une panne du store n'est pas un mauvais mot de passe: le lookup propage
// l'erreur et le login la remonte en TechnicalError, pas en 401.
func TestLookupPropagatesStoreFailure(t *testing.T) {
	uc, admins, _, _ := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	identity, err := uc.Lookup(context.Background(), "v@preventia.fr")

	assert.Error(t, err)
	assert.Empty(t, identity.Kind)
}

func TestLoginStoreFailureIsTechnicalError(t *testing.T) {
	uc, admins, sellers, clients := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	sellers.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	clients.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	output, err := uc.Execute(context.Background(), LoginInput{Email: "v@preventia.fr", Password: "secret"})

	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "DATABASE_ERROR", err.(*TechnicalError).Code)
}

func TestLoginUnknownEmailRejected(t *testing.T) {
	uc, admins, sellers, clients := newLoginFixture()

	admins.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	sellers.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	clients.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)

	output, err := uc.Execute(context.Background(), LoginInput{Email: "inconnu@exemple.fr", Password: "x"})

	assert.Nil(t, output)
	assert.Equal(t, "INVALID_CREDENTIALS", err.(*DomainError).Code)
}
