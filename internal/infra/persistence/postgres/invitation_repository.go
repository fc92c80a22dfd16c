// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invitationRepository implements the domain.InvitationRepository interface using GORM.
type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository is the constructor for invitationRepository.
func NewInvitationRepository(db *gorm.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

// Upsert creates the invitation or replaces the pending one for the same invitee.
// The invitee email carries a unique constraint, so the latest invitation wins.
func (repo *invitationRepository) Upsert(ctx context.Context, invitation *entity.Invitation) error {
	invitationM := fromInvitationDomain(invitation)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invitee_email"}},
			DoUpdates: clause.AssignmentColumns([]string{"inviter_email", "inviter_name", "group_id", "created_at"}),
		}).
		Create(invitationM).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert invitation")
	}

	invitation.ID = invitationM.ID
	invitation.CreatedAt = invitationM.CreatedAt

	return nil
}

// FindByInviteeEmail retrieves the pending invitation addressed to an email.
func (repo *invitationRepository) FindByInviteeEmail(ctx context.Context, email string) (*entity.Invitation, error) {
	var invitationM model.InvitationModel
	err := repo.db.WithContext(ctx).
		Where("invitee_email = ?", email).
		First(&invitationM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInvitationNotFound
		}

		return nil, errors.Wrap(err, "failed to find invitation")
	}

	return toInvitationDomain(&invitationM), nil
}

// DeleteByInviteeEmail removes the pending invitation addressed to an email.
// Deleting a non-existent invitation is not an error.
func (repo *invitationRepository) DeleteByInviteeEmail(ctx context.Context, email string) error {
	err := repo.db.WithContext(ctx).
		Where("invitee_email = ?", email).
		Delete(&model.InvitationModel{}).Error

	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete invitation")
	}

	return nil
}

// --- Mapper Functions ---

// toInvitationDomain converts a GORM InvitationModel to a domain entity.
func toInvitationDomain(data *model.InvitationModel) *entity.Invitation {
	if data == nil {
		return nil
	}

	return &entity.Invitation{
		ID:           data.ID,
		InviteeEmail: data.InviteeEmail,
		InviterEmail: data.InviterEmail,
		InviterName:  data.InviterName,
		GroupID:      data.GroupID,
		CreatedAt:    data.CreatedAt,
	}
}

// fromInvitationDomain converts a domain entity to a GORM InvitationModel.
func fromInvitationDomain(data *entity.Invitation) *model.InvitationModel {
	if data == nil {
		return nil
	}

	return &model.InvitationModel{
		ID:           data.ID,
		InviteeEmail: data.InviteeEmail,
		InviterEmail: data.InviterEmail,
		InviterName:  data.InviterName,
		GroupID:      data.GroupID,
		CreatedAt:    data.CreatedAt,
	}
}
