package impl

import (
	"context"
	"testing"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	mockRepo "vkladovke/internal/mocks/repository"
	mockSvc "vkladovke/internal/mocks/service"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invitationServiceFixtures struct {
	service        usecase.InvitationUsecase
	userRepo       *mockRepo.MockUserRepository
	invitationRepo *mockRepo.MockInvitationRepository
	qrService      *mockSvc.MockQRCodeService
}

func createTestInvitationService() invitationServiceFixtures {
	userRepo := &mockRepo.MockUserRepository{}
	invitationRepo := &mockRepo.MockInvitationRepository{}
	qrService := &mockSvc.MockQRCodeService{}

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{
			UserRepo:       userRepo,
			InvitationRepo: invitationRepo,
		},
	}

	svc := NewInvitationService(InvitationServiceParams{
		TxManager:      txManager,
		UserRepo:       userRepo,
		InvitationRepo: invitationRepo,
		QRService:      qrService,
		Logger:         newDiscardLogger(),
	})

	return invitationServiceFixtures{
		service:        svc,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		qrService:      qrService,
	}
}

func TestInvitationService_Invite_Success(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "anna@example.com", DisplayName: "Анна", GroupID: uuid.New()}
	invitee := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.userRepo.On("FindByEmail", mock.Anything, "boris@example.com").Return(invitee, nil)
	fixtures.invitationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(invitation *entity.Invitation) bool {
		return invitation.InviteeEmail == "boris@example.com" &&
			invitation.InviterEmail == "anna@example.com" &&
			invitation.InviterName == "Анна" &&
			invitation.GroupID == actor.GroupID
	})).Return(nil)

	// Email normalization: mixed case and surrounding whitespace.
	err := fixtures.service.Invite(context.Background(), actor.ID, "  Boris@Example.com ")

	assert.NoError(t, err)
	fixtures.invitationRepo.AssertExpectations(t)
}

func TestInvitationService_Invite_InviteeNotRegistered(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "anna@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.userRepo.On("FindByEmail", mock.Anything, "stranger@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fixtures.service.Invite(context.Background(), actor.ID, "stranger@example.com")

	assert.ErrorIs(t, err, domainerrors.ErrInviteeNotFound)
	fixtures.invitationRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestInvitationService_Invite_Self(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "anna@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

	err := fixtures.service.Invite(context.Background(), actor.ID, "Anna@example.com")

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fixtures.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestInvitationService_Invite_AlreadyInGroup(t *testing.T) {
	fixtures := createTestInvitationService()

	groupID := uuid.New()
	actor := &entity.User{ID: uuid.New(), Email: "anna@example.com", GroupID: groupID}
	invitee := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: groupID}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.userRepo.On("FindByEmail", mock.Anything, "boris@example.com").Return(invitee, nil)

	err := fixtures.service.Invite(context.Background(), actor.ID, "boris@example.com")

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	fixtures.invitationRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestInvitationService_GetPendingInvitation(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}
	invitation := &entity.Invitation{
		InviteeEmail: actor.Email,
		InviterEmail: "anna@example.com",
		InviterName:  "Анна",
		GroupID:      uuid.New(),
	}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).Return(invitation, nil)

	got, err := fixtures.service.GetPendingInvitation(context.Background(), actor.ID)

	require.NoError(t, err)
	assert.Equal(t, "Анна", got.InviterName)
}

func TestInvitationService_GetPendingInvitation_None(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).
		Return(nil, repository.ErrInvitationNotFound)

	got, err := fixtures.service.GetPendingInvitation(context.Background(), actor.ID)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvitationNotFound)
}

func TestInvitationService_ApplyInvitation_MovesActorAndClearsBothOffers(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}
	targetGroup := uuid.New()
	invitation := &entity.Invitation{
		InviteeEmail: actor.Email,
		InviterEmail: "anna@example.com",
		GroupID:      targetGroup,
	}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).Return(invitation, nil)
	fixtures.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *entity.User) bool {
		return user.ID == actor.ID && user.GroupID == targetGroup
	})).Return(nil)
	fixtures.invitationRepo.On("DeleteByInviteeEmail", mock.Anything, "boris@example.com").Return(nil)
	fixtures.invitationRepo.On("DeleteByInviteeEmail", mock.Anything, "anna@example.com").Return(nil)

	updated, err := fixtures.service.ApplyInvitation(context.Background(), actor.ID)

	require.NoError(t, err)
	assert.Equal(t, targetGroup, updated.GroupID)
	fixtures.invitationRepo.AssertExpectations(t)
}

func TestInvitationService_ApplyInvitation_NoPendingInvitation(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).
		Return(nil, repository.ErrInvitationNotFound)

	updated, err := fixtures.service.ApplyInvitation(context.Background(), actor.ID)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domainerrors.ErrInvitationNotFound)
	fixtures.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvitationService_DeclineInvitation(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("DeleteByInviteeEmail", mock.Anything, actor.Email).Return(nil)

	err := fixtures.service.DeclineInvitation(context.Background(), actor.ID)

	assert.NoError(t, err)
	fixtures.invitationRepo.AssertExpectations(t)
}

func TestInvitationService_InvitationQR(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}
	png := []byte{0x89, 'P', 'N', 'G'}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).
		Return(&entity.Invitation{InviteeEmail: actor.Email}, nil)
	fixtures.qrService.On("GenerateInvitationQR", actor.Email).Return(png, nil)

	got, err := fixtures.service.InvitationQR(context.Background(), actor.ID)

	require.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestInvitationService_InvitationQR_NoPendingInvitation(t *testing.T) {
	fixtures := createTestInvitationService()

	actor := &entity.User{ID: uuid.New(), Email: "boris@example.com", GroupID: uuid.New()}

	fixtures.userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	fixtures.invitationRepo.On("FindByInviteeEmail", mock.Anything, actor.Email).
		Return(nil, repository.ErrInvitationNotFound)

	got, err := fixtures.service.InvitationQR(context.Background(), actor.ID)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvitationNotFound)
	fixtures.qrService.AssertNotCalled(t, "GenerateInvitationQR", mock.Anything)
}
