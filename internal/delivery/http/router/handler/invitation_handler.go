package handler

import (
	"net/http"
	"time"

	"vkladovke/internal/delivery/http/response"
	"vkladovke/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InvitationHandler holds dependencies for group invitation handlers.
type InvitationHandler struct {
	uc usecase.InvitationUsecase
}

// NewInvitationHandler is the constructor for InvitationHandler, injected by Fx.
func NewInvitationHandler(uc usecase.InvitationUsecase) *InvitationHandler {
	return &InvitationHandler{uc: uc}
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Invite offers the actor's group to an existing user.
func (h *InvitationHandler) Invite(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать email")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.Invite(c.Request().Context(), userID, req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Приглашение отправлено"})
}

// invitationView is the pending invitation as shown to the invitee.
type invitationView struct {
	InviterEmail string    `json:"inviterEmail"`
	InviterName  string    `json:"inviterName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GetPendingInvitation returns the invitation addressed to the actor, if any.
func (h *InvitationHandler) GetPendingInvitation(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	invitation, err := h.uc.GetPendingInvitation(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, invitationView{
		InviterEmail: invitation.InviterEmail,
		InviterName:  invitation.InviterName,
		CreatedAt:    invitation.CreatedAt,
	})
}

// ApplyInvitation moves the actor into the inviter's group.
func (h *InvitationHandler) ApplyInvitation(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	user, err := h.uc.ApplyInvitation(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserProfile(user))
}

// DeclineInvitation removes the invitation addressed to the actor.
func (h *InvitationHandler) DeclineInvitation(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	if err := h.uc.DeclineInvitation(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Приглашение отклонено"})
}

// InvitationQR renders the actor's pending invitation as a QR code PNG.
func (h *InvitationHandler) InvitationQR(c echo.Context) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Требуется вход в систему")
	}

	png, err := h.uc.InvitationQR(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
