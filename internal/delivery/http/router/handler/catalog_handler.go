package handler

import (
	"net/http"

	"vkladovke/internal/delivery/http/response"
	"vkladovke/internal/domain/entity"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler holds dependencies for catalog and reference data handlers.
type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// GetSettings returns the units and categories reference data.
func (h *CatalogHandler) GetSettings(c echo.Context) error {
	settings, err := h.uc.GetSettings(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, settings)
}

// productView is a catalog entry as returned to the client.
type productView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"categoryId"`
	UnitID     uuid.UUID `json:"unitId"`
	Deleted    bool      `json:"deleted"`
}

func newProductView(product *entity.Product) productView {
	return productView{
		ID:         product.ID,
		Name:       product.Name,
		CategoryID: product.CategoryID,
		UnitID:     product.UnitID,
		Deleted:    product.State == entity.ProductStateDeleted,
	}
}

// GetProducts returns every product of the actor's group, deleted ones included.
func (h *CatalogHandler) GetProducts(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	products, err := h.uc.GetProducts(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}

	return response.Success(c, http.StatusOK, views)
}

type productRequest struct {
	Name       string    `json:"name" validate:"required,max=200"`
	CategoryID uuid.UUID `json:"categoryId"`
	UnitID     uuid.UUID `json:"unitId"`
}

// AddProduct creates an active catalog product.
func (h *CatalogHandler) AddProduct(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные товара")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.uc.AddProduct(c.Request().Context(), &usecase.AddProductInput{
		ActorID:    userID,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		UnitID:     req.UnitID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newProductView(product))
}

// UpdateProduct modifies a product's name, category or unit.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_PRODUCT_ID", "Некорректный идентификатор товара")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные товара")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), &usecase.UpdateProductInput{
		ActorID:    userID,
		ProductID:  productID,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		UnitID:     req.UnitID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

// DeleteProduct marks a product deleted without removing it from storage.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_PRODUCT_ID", "Некорректный идентификатор товара")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), userID, productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Товар удалён из каталога"})
}
