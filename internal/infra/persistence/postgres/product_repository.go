// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a single product regardless of its lifecycle state.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByGroupID retrieves every product of a group, including deleted ones.
func (repo *productRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Product, error) {
	var productModels []model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name ASC").
		Find(&productModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by group id")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for i := range productModels {
		products = append(products, toProductDomain(&productModels[i]))
	}

	return products, nil
}

// ExistsActiveByName reports whether an active product with the given
// name (case-insensitive) already exists in the group.
func (repo *productRepository) ExistsActiveByName(ctx context.Context, groupID uuid.UUID, name string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("group_id = ? AND state = ? AND LOWER(name) = LOWER(?)",
			groupID, entity.ProductStateActive.String(), name).
		Count(&count).Error

	if err != nil {
		return false, errors.Wrap(err, "failed to check product name")
	}

	return count > 0, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductAlreadyExists.WrapMessage("product name already taken")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product, including its lifecycle state.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Save(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrProductAlreadyExists.WrapMessage("product name already taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// settingsRepository implements the domain.SettingsRepository interface using GORM.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository is the constructor for settingsRepository.
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// FindSettings retrieves all units and categories.
func (repo *settingsRepository) FindSettings(ctx context.Context) (*entity.Settings, error) {
	var unitModels []model.UnitModel
	if err := repo.db.WithContext(ctx).Order("name ASC").Find(&unitModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load units")
	}

	var categoryModels []model.CategoryModel
	if err := repo.db.WithContext(ctx).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load categories")
	}

	settings := &entity.Settings{
		Units:      make([]entity.Unit, 0, len(unitModels)),
		Categories: make([]entity.Category, 0, len(categoryModels)),
	}
	for _, u := range unitModels {
		settings.Units = append(settings.Units, entity.Unit{ID: u.ID, Name: u.Name})
	}
	for _, c := range categoryModels {
		settings.Categories = append(settings.Categories, entity.Category{ID: c.ID, Name: c.Name})
	}

	return settings, nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	state := entity.ProductState(data.State)
	if !state.IsValid() {
		// Unknown states from older rows degrade to active rather than vanish.
		state = entity.ProductStateActive
	}

	return &entity.Product{
		ID:         data.ID,
		GroupID:    data.GroupID,
		Name:       data.Name,
		CategoryID: data.CategoryID,
		UnitID:     data.UnitID,
		State:      state,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromProductDomain converts a domain entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:         data.ID,
		GroupID:    data.GroupID,
		Name:       data.Name,
		CategoryID: data.CategoryID,
		UnitID:     data.UnitID,
		State:      data.State.String(),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
