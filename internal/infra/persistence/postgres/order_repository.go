// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
// Items live in a jsonb column; Update rewrites the whole array.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// FindByGroupID retrieves the group's orders matching the filter,
// sorted by creation time descending.
func (repo *orderRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx).Where("group_id = ?", groupID)

	switch filter {
	case repository.OrderFilterActive:
		query = query.Where("is_completed = ?", false)
	case repository.OrderFilterCompleted:
		query = query.Where("is_completed = ?", true)
	case repository.OrderFilterAll:
		// no extra predicate
	}

	var orderModels []model.OrderModel
	if err := query.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by group id")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for i := range orderModels {
		order, err := toOrderDomain(&orderModels[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// FindByID retrieves a single order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM)
}

// FindByIDForUpdate retrieves an order and locks its row for the
// duration of the surrounding transaction. Used by item mutations so two
// concurrent read-modify-write calls serialize at the database.
func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&orderM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order for update")
	}

	return toOrderDomain(&orderM)
}

// Create persists a new order and its embedded items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// Update writes the order back, replacing the whole items array.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Save(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update order")
	}

	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// Delete removes an order unconditionally.
func (repo *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OrderModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain entity,
// deserializing the embedded jsonb items.
func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	if data == nil {
		return nil, nil
	}

	items := make([]entity.OrderItem, 0)
	if len(data.Items) > 0 {
		if err := json.Unmarshal(data.Items, &items); err != nil {
			return nil, errors.Wrap(err, "failed to decode order items")
		}
	}

	return &entity.Order{
		ID:          data.ID,
		GroupID:     data.GroupID,
		Title:       data.Title,
		Comment:     data.Comment,
		Items:       items,
		IsCompleted: data.IsCompleted,
		CompletedAt: data.CompletedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}, nil
}

// fromOrderDomain converts a domain entity to a GORM OrderModel,
// serializing the items array into jsonb.
func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	if data == nil {
		return nil, nil
	}

	items := data.Items
	if items == nil {
		items = []entity.OrderItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order items")
	}

	return &model.OrderModel{
		ID:          data.ID,
		GroupID:     data.GroupID,
		Title:       data.Title,
		Comment:     data.Comment,
		Items:       datatypes.JSON(raw),
		IsCompleted: data.IsCompleted,
		CompletedAt: data.CompletedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}, nil
}
