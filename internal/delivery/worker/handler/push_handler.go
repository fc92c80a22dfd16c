// Package handler processes Pub/Sub push deliveries for the worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"vkladovke/config"
	deliverycontext "vkladovke/internal/delivery/context"
	"vkladovke/internal/domain/constants"
	"vkladovke/internal/domain/entity"
	"vkladovke/internal/domain/repository"
	"vkladovke/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler fans an order event out as push notifications to the
// order's group members, excluding the member who triggered the event.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	userRepo        repository.UserRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	UserRepo        repository.UserRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Push requests are only signed by Google outside local development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		userRepo:        params.UserRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse order event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing order event",
		slog.String("event_type", event.EventType),
		slog.String("order_id", event.OrderID),
		slog.String("group_id", event.GroupID),
	)

	if err := h.processOrderEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process order event",
			slog.String("order_id", event.OrderID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 triggers a Pub/Sub redelivery; 200 swallows permanent failures
		// so a bad event does not retry forever.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.OrderEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processOrderEvent notifies the group members about an order event.
func (h *PushHandler) processOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	groupID, err := uuid.Parse(event.GroupID)
	if err != nil {
		return errors.Wrap(err, "invalid group id in event")
	}

	members, err := h.userRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		return newRetryableError(errors.Wrap(err, "failed to load group members"))
	}

	recipients := h.collectRecipients(members, event.ActorID)
	if len(recipients) == 0 {
		logger.Info("[Worker] No recipients with registered devices",
			slog.String("order_id", event.OrderID),
		)

		return nil
	}

	title, body, data := notificationContent(event)
	tokens := make([]string, 0, len(recipients))
	for _, member := range recipients {
		tokens = append(tokens, member.FCMToken)
	}

	sent, failed, invalidTokens, err := h.notificationSvc.SendBatchNotification(ctx, tokens, title, body, data)
	if err != nil {
		return newRetryableError(errors.Wrap(err, "failed to send batch notification"))
	}

	h.cleanupInvalidTokens(ctx, recipients, invalidTokens)

	logger.Info("[Worker] Order event processed",
		slog.String("order_id", event.OrderID),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Int("invalid_tokens", len(invalidTokens)),
	)

	return nil
}

// collectRecipients filters group members down to those with a registered
// device, excluding the member who triggered the event.
func (h *PushHandler) collectRecipients(members []*entity.User, actorID string) []*entity.User {
	recipients := make([]*entity.User, 0, len(members))
	for _, member := range members {
		if member.FCMToken == "" || member.ID.String() == actorID {
			continue
		}
		recipients = append(recipients, member)
	}

	return recipients
}

// notificationContent renders the push title, body and data payload.
func notificationContent(event *service.OrderEvent) (title, body string, data map[string]string) {
	actorName := event.ActorName
	if actorName == "" {
		actorName = "Участник группы"
	}

	switch event.EventType {
	case service.OrderEventCompleted:
		title = "Список куплен"
		body = fmt.Sprintf("%s: завершены покупки по списку «%s»", actorName, event.OrderTitle)
	default:
		title = "Новый список покупок"
		body = fmt.Sprintf("%s: создан список «%s»", actorName, event.OrderTitle)
	}

	data = map[string]string{
		"event_type": event.EventType,
		"order_id":   event.OrderID,
		"group_id":   event.GroupID,
	}

	return title, body, data
}

// cleanupInvalidTokens unregisters devices Firebase reported as invalid so
// they are not retried on the next event.
func (h *PushHandler) cleanupInvalidTokens(ctx context.Context, recipients []*entity.User, invalidTokens []string) {
	if len(invalidTokens) == 0 {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	for _, member := range recipients {
		if !slices.Contains(invalidTokens, member.FCMToken) {
			continue
		}

		member.FCMToken = ""
		if err := h.userRepo.Update(ctx, member); err != nil {
			logger.Warn("[Worker] Failed to unregister invalid device token",
				slog.String("user_id", member.ID.String()),
				slog.Any("error", err),
			)
		}
	}
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this push endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
