package service

import (
	"context"
)

// Order event types published for group members.
const (
	OrderEventCreated   = "order_created"
	OrderEventCompleted = "order_completed"
)

// OrderEvent represents a group order event to be processed by the worker
type OrderEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	EventType  string `json:"event_type"`
	OrderID    string `json:"order_id"`
	OrderTitle string `json:"order_title"`
	GroupID    string `json:"group_id"`
	ActorID    string `json:"actor_id"` // The user who triggered the event, excluded from push
	ActorName  string `json:"actor_name"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
