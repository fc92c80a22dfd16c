package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "vkladovke/internal/delivery/context"
	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/domain/service"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// invitationService implements the InvitationUsecase interface.
type invitationService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	qrService      service.QRCodeService
	logger         *slog.Logger
}

// InvitationServiceParams holds dependencies for InvitationService, injected by Fx.
type InvitationServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	InvitationRepo repository.InvitationRepository
	QRService      service.QRCodeService
	Logger         *slog.Logger
}

// NewInvitationService is the constructor for invitationService.
func NewInvitationService(params InvitationServiceParams) usecase.InvitationUsecase {
	return &invitationService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		invitationRepo: params.InvitationRepo,
		qrService:      params.QRService,
		logger:         params.Logger,
	}
}

func (srv *invitationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Invite offers the actor's group to an existing user. Re-inviting the
// same person overwrites the previous offer, whoever sent it.
func (srv *invitationService) Invite(ctx context.Context, actorID uuid.UUID, inviteeEmail string) error {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	inviteeEmail = strings.TrimSpace(strings.ToLower(inviteeEmail))
	if inviteeEmail == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "invitee email is required")
	}
	if strings.EqualFold(inviteeEmail, actor.Email) {
		return errors.Wrap(domainerrors.ErrValidationFailed, "cannot invite yourself")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		invitationRepo := repoFactory.NewInvitationRepository()

		// Only registered users can be invited.
		invitee, findErr := userRepo.FindByEmail(ctx, inviteeEmail)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrInviteeNotFound, "invitee is not registered")
			}

			return errors.Wrap(findErr, "failed to look up invitee")
		}

		if invitee.GroupID == actor.GroupID {
			return errors.Wrap(domainerrors.ErrConflict, "invitee is already in the group")
		}

		invitation := &entity.Invitation{
			InviteeEmail: inviteeEmail,
			InviterEmail: actor.Email,
			InviterName:  actor.DisplayName,
			GroupID:      actor.GroupID,
		}

		if upsertErr := invitationRepo.Upsert(ctx, invitation); upsertErr != nil {
			return errors.Wrap(upsertErr, "failed to save invitation")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to invite user", slog.Any("actorID", actorID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute invite transaction")
	}
	srv.log(ctx).Info("Invitation sent", slog.Any("actorID", actorID), slog.String("inviteeEmail", inviteeEmail))

	return nil
}

// GetPendingInvitation returns the invitation addressed to the actor, if any.
func (srv *invitationService) GetPendingInvitation(ctx context.Context, actorID uuid.UUID) (*entity.Invitation, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	invitation, err := srv.invitationRepo.FindByInviteeEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvitationNotFound, "no pending invitation")
		}

		return nil, errors.Wrap(err, "failed to load pending invitation")
	}

	return invitation, nil
}

// ApplyInvitation moves the actor into the inviter's group. Both the
// actor's and the inviter's pending invitations are removed so neither
// party keeps a stale offer after the group change.
func (srv *invitationService) ApplyInvitation(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		invitationRepo := repoFactory.NewInvitationRepository()

		actor, findErr := userRepo.FindByID(ctx, actorID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load actor for invitation")
		}

		invitation, invErr := invitationRepo.FindByInviteeEmail(ctx, actor.Email)
		if invErr != nil {
			if errors.Is(invErr, repository.ErrInvitationNotFound) {
				return errors.Wrap(domainerrors.ErrInvitationNotFound, "no pending invitation")
			}

			return errors.Wrap(invErr, "failed to load invitation")
		}

		actor.GroupID = invitation.GroupID
		if updateErr := userRepo.Update(ctx, actor); updateErr != nil {
			return errors.Wrap(updateErr, "failed to move actor into the inviter's group")
		}

		if delErr := invitationRepo.DeleteByInviteeEmail(ctx, actor.Email); delErr != nil {
			return errors.Wrap(delErr, "failed to remove applied invitation")
		}
		if delErr := invitationRepo.DeleteByInviteeEmail(ctx, invitation.InviterEmail); delErr != nil {
			return errors.Wrap(delErr, "failed to remove inviter's pending invitation")
		}

		updated = actor

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to apply invitation", slog.Any("actorID", actorID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute apply invitation transaction")
	}
	srv.log(ctx).Info("Invitation applied", slog.Any("actorID", actorID), slog.Any("groupID", updated.GroupID))

	return updated, nil
}

// DeclineInvitation removes the invitation addressed to the actor.
func (srv *invitationService) DeclineInvitation(ctx context.Context, actorID uuid.UUID) error {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	if err := srv.invitationRepo.DeleteByInviteeEmail(ctx, actor.Email); err != nil {
		srv.log(ctx).Error("Failed to decline invitation", slog.Any("actorID", actorID), slog.Any("error", err))

		return errors.Wrap(err, "failed to decline invitation")
	}
	srv.log(ctx).Info("Invitation declined", slog.Any("actorID", actorID))

	return nil
}

// InvitationQR renders the actor's pending invitation as a QR code PNG.
func (srv *invitationService) InvitationQR(ctx context.Context, actorID uuid.UUID) ([]byte, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := srv.invitationRepo.FindByInviteeEmail(ctx, actor.Email); err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvitationNotFound, "no pending invitation")
		}

		return nil, errors.Wrap(err, "failed to load invitation for QR")
	}

	png, err := srv.qrService.GenerateInvitationQR(actor.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render invitation QR")
	}

	return png, nil
}

func (srv *invitationService) loadActor(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	actor, err := srv.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "actor not found")
		}

		return nil, errors.Wrap(err, "failed to load actor")
	}

	return actor, nil
}
