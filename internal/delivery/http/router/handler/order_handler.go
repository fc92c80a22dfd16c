package handler

import (
	"net/http"
	"time"

	"vkladovke/internal/delivery/http/response"
	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/usecase"
	"vkladovke/internal/usecase/editor"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for shopping list handlers.
type OrderHandler struct {
	orders  usecase.OrderUsecase
	catalog usecase.CatalogUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(orders usecase.OrderUsecase, catalog usecase.CatalogUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, catalog: catalog}
}

// orderSummary is one row of the orders list.
type orderSummary struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Comment      string     `json:"comment,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ItemCount    int        `json:"itemCount"`
	PendingCount int        `json:"pendingCount"`
}

func newOrderSummary(order *entity.Order) orderSummary {
	return orderSummary{
		ID:           order.ID,
		Title:        order.Title,
		Comment:      order.Comment,
		IsCompleted:  order.IsCompleted,
		CompletedAt:  order.CompletedAt,
		CreatedAt:    order.CreatedAt,
		ItemCount:    len(order.Items),
		PendingCount: order.PendingCount(),
	}
}

// rowView is one resolved shopping list row.
type rowView struct {
	ProductID       uuid.UUID `json:"productId"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Unit            string    `json:"unit"`
	Deleted         bool      `json:"deleted"`
	Quantity        float64   `json:"quantity"`
	BuyOnlyByAction bool      `json:"buyOnlyByAction"`
	IsCompleted     bool      `json:"isCompleted"`
	Comment         string    `json:"comment,omitempty"`
}

func newRowView(row editor.Row) rowView {
	return rowView{
		ProductID:       row.ProductID,
		Name:            row.Name,
		Category:        row.Category,
		Unit:            row.Unit,
		Deleted:         row.Deleted,
		Quantity:        row.Quantity,
		BuyOnlyByAction: row.BuyOnlyByAction,
		IsCompleted:     row.IsCompleted,
		Comment:         row.Comment,
	}
}

// categoryGroupView is one category section of the detail view.
type categoryGroupView struct {
	Category string    `json:"category"`
	Rows     []rowView `json:"rows"`
}

func newCategoryGroupViews(groups []editor.CategoryGroup) []categoryGroupView {
	views := make([]categoryGroupView, 0, len(groups))
	for _, group := range groups {
		rows := make([]rowView, 0, len(group.Rows))
		for _, row := range group.Rows {
			rows = append(rows, newRowView(row))
		}
		views = append(views, categoryGroupView{Category: group.Category, Rows: rows})
	}

	return views
}

// orderDetail is the full order view: resolved rows split into pending
// and completed sections, each grouped by category.
type orderDetail struct {
	orderSummary
	Pending   []categoryGroupView `json:"pending"`
	Completed []categoryGroupView `json:"completed"`
}

// ListOrders returns the actor's group orders, newest first. The filter
// query parameter selects all, active or completed orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	filter := repository.OrderFilter(c.QueryParam("filter"))
	switch filter {
	case repository.OrderFilterAll, repository.OrderFilterActive, repository.OrderFilterCompleted:
	case "":
		filter = repository.OrderFilterAll
	default:
		return response.BadRequest(c, "INVALID_FILTER", "Некорректный фильтр списков")
	}

	orders, err := h.orders.ListOrders(c.Request().Context(), userID, filter)
	if err != nil {
		return errors.WithStack(err)
	}

	summaries := make([]orderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, newOrderSummary(order))
	}

	return response.Success(c, http.StatusOK, summaries)
}

// GetOrder returns the detail view of a single order.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	order, err := h.orders.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}

// renderOrderDetail resolves the order's product references and renders
// the grouped detail view.
func (h *OrderHandler) renderOrderDetail(c echo.Context, status int, userID uuid.UUID, order *entity.Order) error {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	resolved, err := h.catalog.ResolveProductInfo(c.Request().Context(), userID, productIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	pending, completed := editor.Partition(order, resolved)

	detail := orderDetail{
		orderSummary: newOrderSummary(order),
		Pending:      newCategoryGroupViews(editor.GroupByCategory(pending)),
		Completed:    newCategoryGroupViews(editor.GroupByCategory(completed)),
	}

	return response.Success(c, status, detail)
}

type orderItemRequest struct {
	ProductID       uuid.UUID `json:"productId" validate:"required"`
	Quantity        float64   `json:"quantity"`
	BuyOnlyByAction bool      `json:"buyOnlyByAction"`
	IsCompleted     bool      `json:"isCompleted"`
	Comment         string    `json:"comment"`
}

func toItemInputs(items []orderItemRequest) []usecase.OrderItemInput {
	inputs := make([]usecase.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, usecase.OrderItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			BuyOnlyByAction: item.BuyOnlyByAction,
			IsCompleted:     item.IsCompleted,
			Comment:         item.Comment,
		})
	}

	return inputs
}

type createOrderRequest struct {
	Title   string             `json:"title"`
	Comment string             `json:"comment"`
	Items   []orderItemRequest `json:"items"`
}

// CreateOrder creates a new shopping list.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные списка")
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), &usecase.CreateOrderInput{
		ActorID: userID,
		Title:   req.Title,
		Comment: req.Comment,
		Items:   toItemInputs(req.Items),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusCreated, userID, order)
}

// UpdateOrder replaces the order's title, comment and items.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные списка")
	}

	order, err := h.orders.UpdateOrder(c.Request().Context(), &usecase.UpdateOrderInput{
		ActorID: userID,
		OrderID: orderID,
		Title:   req.Title,
		Comment: req.Comment,
		Items:   toItemInputs(req.Items),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}

type completeOrderRequest struct {
	ConfirmPending bool `json:"confirmPending"`
}

// CompleteOrder marks the order done. Completing with pending items
// requires the confirmPending flag.
func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	var req completeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные завершения")
	}

	order, err := h.orders.CompleteOrder(c.Request().Context(), &usecase.CompleteOrderInput{
		ActorID:        userID,
		OrderID:        orderID,
		ConfirmPending: req.ConfirmPending,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderSummary(order))
}

// ReopenOrder clears the completion mark.
func (h *OrderHandler) ReopenOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	order, err := h.orders.ReopenOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderSummary(order))
}

// DeleteOrder removes an order unconditionally.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	if err := h.orders.DeleteOrder(c.Request().Context(), userID, orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Список удалён"})
}

// orderItemIDs parses the order and product ids from the path.
func orderItemIDs(c echo.Context) (orderID, productID uuid.UUID, err error) {
	orderID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("order id")
	}
	productID, err = uuid.Parse(c.Param("productId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("product id")
	}

	return orderID, productID, nil
}

// AddItem appends a row to an open order.
func (h *OrderHandler) AddItem(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ORDER_ID", "Некорректный идентификатор списка")
	}

	var req orderItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные товара")
	}

	order, err := h.orders.AddItem(c.Request().Context(), &usecase.AddItemInput{
		ActorID: userID,
		OrderID: orderID,
		Item: usecase.OrderItemInput{
			ProductID:       req.ProductID,
			Quantity:        req.Quantity,
			BuyOnlyByAction: req.BuyOnlyByAction,
			Comment:         req.Comment,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}

type updateItemRequest struct {
	Quantity        float64 `json:"quantity"`
	BuyOnlyByAction bool    `json:"buyOnlyByAction"`
	Comment         string  `json:"comment"`
}

// UpdateItem modifies one row; a quantity of zero removes it.
func (h *OrderHandler) UpdateItem(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, productID, err := orderItemIDs(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Некорректный идентификатор")
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные товара")
	}

	order, err := h.orders.UpdateItem(c.Request().Context(), &usecase.UpdateItemInput{
		ActorID:         userID,
		OrderID:         orderID,
		ProductID:       productID,
		Quantity:        req.Quantity,
		BuyOnlyByAction: req.BuyOnlyByAction,
		Comment:         req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}

// RemoveItem deletes one row from an open order.
func (h *OrderHandler) RemoveItem(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, productID, err := orderItemIDs(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Некорректный идентификатор")
	}

	order, err := h.orders.RemoveItem(c.Request().Context(), userID, orderID, productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}

// CompleteItem marks one row bought.
func (h *OrderHandler) CompleteItem(c echo.Context) error {
	return h.setItemCompletion(c, true)
}

// ReopenItem marks one row not bought.
func (h *OrderHandler) ReopenItem(c echo.Context) error {
	return h.setItemCompletion(c, false)
}

func (h *OrderHandler) setItemCompletion(c echo.Context, completed bool) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	orderID, productID, err := orderItemIDs(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Некорректный идентификатор")
	}

	var order *entity.Order
	if completed {
		order, err = h.orders.CompleteItem(c.Request().Context(), userID, orderID, productID)
	} else {
		order, err = h.orders.ReopenItem(c.Request().Context(), userID, orderID, productID)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderOrderDetail(c, http.StatusOK, userID, order)
}
