package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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

// defaultTitleLayout renders the date in the default order title.
const defaultTitleLayout = "02.01.2006"

// orderService implements the OrderUsecase interface. Items live embedded
// in the order row, so every item mutation loads the order under a row
// lock, transforms the items in memory and writes the whole array back.
type orderService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	orderRepo      repository.OrderRepository
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	OrderRepo      repository.OrderRepository
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		orderRepo:      params.OrderRepo,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListOrders returns the actor's group orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, actorID uuid.UUID, filter repository.OrderFilter) ([]*entity.Order, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	orders, err := srv.orderRepo.FindByGroupID(ctx, actor.GroupID, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("groupID", actor.GroupID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetOrder returns a single order of the actor's group.
func (srv *orderService) GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	if order.GroupID != actor.GroupID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another group")
	}

	return order, nil
}

// CreateOrder creates an order with a server-stamped creation time. A blank
// title defaults to the creation date; rows with quantity <= 0 are dropped
// and every row starts uncompleted, whatever the client sent.
func (srv *orderService) CreateOrder(ctx context.Context, input *usecase.CreateOrderInput) (*entity.Order, error) {
	actor, err := srv.loadActor(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = fmt.Sprintf("Список от %s", time.Now().Format(defaultTitleLayout))
	}

	order := &entity.Order{
		GroupID: actor.GroupID,
		Title:   title,
		Comment: input.Comment,
		Items:   sanitizeNewItems(input.Items),
	}

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		srv.log(ctx).Error("Failed to create order", slog.Any("groupID", actor.GroupID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.publishEvent(ctx, service.OrderEventCreated, order, actor)
	srv.log(ctx).Info("Order created", slog.Any("orderID", order.ID), slog.Any("groupID", actor.GroupID))

	return order, nil
}

// sanitizeNewItems drops rows without a positive quantity and forces every
// surviving row to start uncompleted.
func sanitizeNewItems(items []usecase.OrderItemInput) []entity.OrderItem {
	sanitized := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		sanitized = append(sanitized, entity.OrderItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			BuyOnlyByAction: item.BuyOnlyByAction,
			IsCompleted:     false,
			Comment:         item.Comment,
		})
	}

	return sanitized
}

// UpdateOrder replaces the order's title, comment and items. Completion
// state is untouched; item completion marks survive from the input because
// the editor submits the rows it was seeded with.
func (srv *orderService) UpdateOrder(ctx context.Context, input *usecase.UpdateOrderInput) (*entity.Order, error) {
	return srv.mutateOrder(ctx, input.ActorID, input.OrderID, func(order *entity.Order) error {
		if order.IsCompleted {
			return errors.Wrap(domainerrors.ErrOrderCompleted, "cannot edit a completed order")
		}

		items := make([]entity.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			if item.Quantity <= 0 {
				continue
			}
			items = append(items, entity.OrderItem{
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				BuyOnlyByAction: item.BuyOnlyByAction,
				IsCompleted:     item.IsCompleted,
				Comment:         item.Comment,
			})
		}

		order.Title = input.Title
		order.Comment = input.Comment
		order.Items = items

		return nil
	})
}

// CompleteOrder marks the order done. Completing with pending items needs
// the confirmation flag; completing an already completed order re-stamps it.
func (srv *orderService) CompleteOrder(ctx context.Context, input *usecase.CompleteOrderInput) (*entity.Order, error) {
	var completer *entity.User
	order, err := srv.mutateOrderWithActor(ctx, input.ActorID, input.OrderID, func(order *entity.Order, actor *entity.User) error {
		if order.PendingCount() > 0 && !input.ConfirmPending {
			return errors.Wrap(domainerrors.ErrOrderHasPendingItems, "order still has pending items")
		}

		now := time.Now()
		order.IsCompleted = true
		order.CompletedAt = &now
		completer = actor

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishEvent(ctx, service.OrderEventCompleted, order, completer)
	srv.log(ctx).Info("Order completed", slog.Any("orderID", order.ID))

	return order, nil
}

// ReopenOrder clears the completion mark and timestamp.
func (srv *orderService) ReopenOrder(ctx context.Context, actorID, orderID uuid.UUID) (*entity.Order, error) {
	return srv.mutateOrder(ctx, actorID, orderID, func(order *entity.Order) error {
		order.IsCompleted = false
		order.CompletedAt = nil

		return nil
	})
}

// DeleteOrder removes an order unconditionally.
func (srv *orderService) DeleteOrder(ctx context.Context, actorID, orderID uuid.UUID) error {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, findErr := orderRepo.FindByIDForUpdate(ctx, orderID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(findErr, "failed to load order for deletion")
		}
		if order.GroupID != actor.GroupID {
			return errors.Wrap(domainerrors.ErrForbidden, "order belongs to another group")
		}

		return orderRepo.Delete(ctx, orderID)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete order", slog.Any("orderID", orderID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete order transaction")
	}
	srv.log(ctx).Info("Order deleted", slog.Any("orderID", orderID))

	return nil
}

// CompleteItem marks one row bought.
func (srv *orderService) CompleteItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	return srv.mutateOpenOrderItem(ctx, actorID, orderID, productID, func(item *entity.OrderItem) {
		item.IsCompleted = true
	})
}

// ReopenItem marks one row not bought.
func (srv *orderService) ReopenItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	return srv.mutateOpenOrderItem(ctx, actorID, orderID, productID, func(item *entity.OrderItem) {
		item.IsCompleted = false
	})
}

// UpdateItem modifies one row's quantity, action flag and comment. A
// quantity of zero or less removes the row.
func (srv *orderService) UpdateItem(ctx context.Context, input *usecase.UpdateItemInput) (*entity.Order, error) {
	return srv.mutateOrder(ctx, input.ActorID, input.OrderID, func(order *entity.Order) error {
		if order.IsCompleted {
			return errors.Wrap(domainerrors.ErrOrderCompleted, "cannot modify items of a completed order")
		}

		idx := order.FindItem(input.ProductID)
		if idx < 0 {
			return errors.Wrap(domainerrors.ErrOrderItemNotFound, "item not found")
		}

		if input.Quantity <= 0 {
			order.Items = append(order.Items[:idx], order.Items[idx+1:]...)

			return nil
		}

		order.Items[idx].Quantity = input.Quantity
		order.Items[idx].BuyOnlyByAction = input.BuyOnlyByAction
		order.Items[idx].Comment = input.Comment

		return nil
	})
}

// AddItem appends a row. The product must be selected, the quantity at
// least one, and no row for the same product may already exist.
func (srv *orderService) AddItem(ctx context.Context, input *usecase.AddItemInput) (*entity.Order, error) {
	if input.Item.ProductID == uuid.Nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "product must be selected")
	}
	if input.Item.Quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be at least one")
	}

	return srv.mutateOrder(ctx, input.ActorID, input.OrderID, func(order *entity.Order) error {
		if order.IsCompleted {
			return errors.Wrap(domainerrors.ErrOrderCompleted, "cannot modify items of a completed order")
		}

		if order.FindItem(input.Item.ProductID) >= 0 {
			return errors.Wrap(domainerrors.ErrOrderItemExists, "item for this product already exists")
		}

		order.Items = append(order.Items, entity.OrderItem{
			ProductID:       input.Item.ProductID,
			Quantity:        input.Item.Quantity,
			BuyOnlyByAction: input.Item.BuyOnlyByAction,
			IsCompleted:     false,
			Comment:         input.Item.Comment,
		})

		return nil
	})
}

// RemoveItem deletes one row.
func (srv *orderService) RemoveItem(ctx context.Context, actorID, orderID, productID uuid.UUID) (*entity.Order, error) {
	return srv.mutateOrder(ctx, actorID, orderID, func(order *entity.Order) error {
		if order.IsCompleted {
			return errors.Wrap(domainerrors.ErrOrderCompleted, "cannot modify items of a completed order")
		}

		idx := order.FindItem(productID)
		if idx < 0 {
			return errors.Wrap(domainerrors.ErrOrderItemNotFound, "item not found")
		}

		order.Items = append(order.Items[:idx], order.Items[idx+1:]...)

		return nil
	})
}

// mutateOpenOrderItem applies a transform to one row of an open order.
func (srv *orderService) mutateOpenOrderItem(ctx context.Context, actorID, orderID, productID uuid.UUID, transform func(*entity.OrderItem)) (*entity.Order, error) {
	return srv.mutateOrder(ctx, actorID, orderID, func(order *entity.Order) error {
		if order.IsCompleted {
			return errors.Wrap(domainerrors.ErrOrderCompleted, "cannot modify items of a completed order")
		}

		idx := order.FindItem(productID)
		if idx < 0 {
			return errors.Wrap(domainerrors.ErrOrderItemNotFound, "item not found")
		}

		transform(&order.Items[idx])

		return nil
	})
}

// mutateOrder runs a read-transform-write cycle on an order inside one
// transaction. The row lock taken by FindByIDForUpdate serializes
// concurrent mutations of the same order, so the second writer transforms
// the first writer's result instead of a stale snapshot.
func (srv *orderService) mutateOrder(ctx context.Context, actorID, orderID uuid.UUID, transform func(*entity.Order) error) (*entity.Order, error) {
	return srv.mutateOrderWithActor(ctx, actorID, orderID, func(order *entity.Order, _ *entity.User) error {
		return transform(order)
	})
}

func (srv *orderService) mutateOrderWithActor(ctx context.Context, actorID, orderID uuid.UUID, transform func(*entity.Order, *entity.User) error) (*entity.Order, error) {
	actor, err := srv.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var mutated *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, findErr := orderRepo.FindByIDForUpdate(ctx, orderID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(findErr, "failed to load order for update")
		}
		if order.GroupID != actor.GroupID {
			return errors.Wrap(domainerrors.ErrForbidden, "order belongs to another group")
		}

		if transformErr := transform(order, actor); transformErr != nil {
			return transformErr
		}

		if updateErr := orderRepo.Update(ctx, order); updateErr != nil {
			return errors.Wrap(updateErr, "failed to write order back")
		}
		mutated = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to mutate order", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order transaction")
	}

	return mutated, nil
}

func (srv *orderService) loadActor(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	actor, err := srv.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "actor not found")
		}

		return nil, errors.Wrap(err, "failed to load actor")
	}

	return actor, nil
}

// publishEvent publishes an order event for the worker to fan out as push
// notifications. Publishing is best effort: a broker failure never fails
// the user's request.
func (srv *orderService) publishEvent(ctx context.Context, eventType string, order *entity.Order, actor *entity.User) {
	event := &service.OrderEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventType:  eventType,
		OrderID:    order.ID.String(),
		OrderTitle: order.Title,
		GroupID:    order.GroupID.String(),
		ActorID:    actor.ID.String(),
		ActorName:  actor.DisplayName,
	}

	if err := srv.eventPublisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("eventType", eventType),
			slog.Any("orderID", order.ID),
			slog.Any("error", err))
	}
}
