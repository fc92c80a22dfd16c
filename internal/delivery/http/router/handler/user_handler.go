package handler

import (
	"net/http"
	"time"

	"vkladovke/internal/delivery/http/response"
	"vkladovke/internal/domain/entity"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for profile and session handlers.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// userProfile is the account view returned to the client. The FCM token
// and internal timestamps stay server-side.
type userProfile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	GroupID       uuid.UUID `json:"groupId"`
	EmailVerified bool      `json:"emailVerified"`
}

func newUserProfile(user *entity.User) *userProfile {
	if user == nil {
		return nil
	}

	return &userProfile{
		ID:            user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		GroupID:       user.GroupID,
		EmailVerified: user.EmailVerified,
	}
}

// GetProfile returns the current user's account data.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserProfile(user))
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
}

// UpdateDisplayName changes the name shown to other group members.
func (h *UserHandler) UpdateDisplayName(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	var req updateDisplayNameRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать имя")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.UpdateDisplayName(c.Request().Context(), userID, req.DisplayName); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Имя обновлено"})
}

type updateFCMTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

// UpdateFCMToken stores the device push token. An empty token unregisters
// the device.
func (h *UserHandler) UpdateFCMToken(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	var req updateFCMTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать токен устройства")
	}

	if err := h.uc.UpdateFCMToken(c.Request().Context(), userID, req.FCMToken); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Токен устройства обновлён"})
}

// sessionView is one active session row.
type sessionView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GetActiveSessions lists the user's open sessions.
func (h *UserHandler) GetActiveSessions(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	sessions, err := h.uc.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, sessionView{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
		})
	}

	return response.Success(c, http.StatusOK, views)
}

// RevokeSession ends one specific session of the user.
func (h *UserHandler) RevokeSession(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_SESSION_ID", "Некорректный идентификатор сессии")
	}

	if err := h.uc.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Сессия завершена"})
}

// LogoutAllDevices ends every session of the user.
func (h *UserHandler) LogoutAllDevices(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	if err := h.uc.LogoutAllDevices(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Вы вышли на всех устройствах"})
}

// SendVerificationMail resends the email confirmation link.
func (h *UserHandler) SendVerificationMail(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	if err := h.uc.SendVerificationMail(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Письмо с подтверждением отправлено"})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
