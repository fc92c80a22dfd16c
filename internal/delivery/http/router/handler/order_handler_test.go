package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"vkladovke/internal/delivery/http/middleware"
	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	mockSvc "vkladovke/internal/mocks/service"
	mockUsecase "vkladovke/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// asUser is a test middleware that injects the authenticated user id.
func asUser(userID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyUserID, userID)

			return next(c)
		}
	}
}

func TestOrderHandler_ListOrders_RequiresAuthentication(t *testing.T) {
	orders := &mockUsecase.MockOrderUsecase{}
	catalog := &mockUsecase.MockCatalogUsecase{}
	h := NewOrderHandler(orders, catalog)

	tokenSvc := &mockSvc.MockTokenService{}
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	e := newTestEcho()
	e.GET("/orders", h.ListOrders, authMiddleware.Authenticate)

	rec := doJSON(e, http.MethodGet, "/orders", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "MISSING_TOKEN", resp.Error.Code)
	orders.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_ListOrders_InvalidFilter(t *testing.T) {
	orders := &mockUsecase.MockOrderUsecase{}
	catalog := &mockUsecase.MockCatalogUsecase{}
	h := NewOrderHandler(orders, catalog)

	e := newTestEcho()
	e.GET("/orders", h.ListOrders, asUser(uuid.New()))

	rec := doJSON(e, http.MethodGet, "/orders?filter=bogus", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "INVALID_FILTER", resp.Error.Code)
}

func TestOrderHandler_GetOrder_GroupsRowsByCompletion(t *testing.T) {
	orders := &mockUsecase.MockOrderUsecase{}
	catalog := &mockUsecase.MockCatalogUsecase{}
	h := NewOrderHandler(orders, catalog)

	userID := uuid.New()
	orderID := uuid.New()
	milkID := uuid.New()
	breadID := uuid.New()

	order := &entity.Order{
		ID:    orderID,
		Title: "Выходные",
		Items: []entity.OrderItem{
			{ProductID: milkID, Quantity: 2},
			{ProductID: breadID, Quantity: 1, IsCompleted: true},
		},
	}

	orders.On("GetOrder", mock.Anything, userID, orderID).Return(order, nil)
	catalog.On("ResolveProductInfo", mock.Anything, userID, mock.Anything).
		Return(map[uuid.UUID]entity.ProductInfo{
			milkID:  {ID: milkID, Name: "Молоко", Category: "Молочные продукты", Unit: "л"},
			breadID: {ID: breadID, Name: "Хлеб", Category: "Выпечка", Unit: "шт."},
		}, nil)

	e := newTestEcho()
	e.GET("/orders/:id", h.GetOrder, asUser(userID))

	rec := doJSON(e, http.MethodGet, "/orders/"+orderID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domainerrors.SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Выходные", data["title"])
	assert.Equal(t, float64(2), data["itemCount"])
	assert.Equal(t, float64(1), data["pendingCount"])

	pending, ok := data["pending"].([]any)
	require.True(t, ok)
	require.Len(t, pending, 1)
	pendingGroup := pending[0].(map[string]any)
	assert.Equal(t, "Молочные продукты", pendingGroup["category"])

	completed, ok := data["completed"].([]any)
	require.True(t, ok)
	require.Len(t, completed, 1)
	completedGroup := completed[0].(map[string]any)
	assert.Equal(t, "Выпечка", completedGroup["category"])
}

func TestOrderHandler_CompleteOrder_PendingItemsConflict(t *testing.T) {
	orders := &mockUsecase.MockOrderUsecase{}
	catalog := &mockUsecase.MockCatalogUsecase{}
	h := NewOrderHandler(orders, catalog)

	userID := uuid.New()
	orderID := uuid.New()

	orders.On("CompleteOrder", mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(domainerrors.ErrOrderHasPendingItems, "order still has pending items"))

	e := newTestEcho()
	e.POST("/orders/:id/complete", h.CompleteOrder, asUser(userID))

	rec := doJSON(e, http.MethodPost, "/orders/"+orderID.String()+"/complete", `{}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "ORDER_HAS_PENDING_ITEMS", resp.Error.Code)
	assert.Equal(t, "В списке остались некупленные товары", resp.Error.Message)
}
