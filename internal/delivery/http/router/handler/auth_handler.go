// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"vkladovke/internal/delivery/http/middleware"
	"vkladovke/internal/delivery/http/response"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// actorID extracts the authenticated user's id set by the auth middleware.
func actorID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)

	return id, ok
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc usecase.UserUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type signUpRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *userProfile `json:"user"`
}

func newAuthResponse(output *usecase.AuthOutput) *authResponse {
	return &authResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         newUserProfile(output.User),
	}
}

// SignUp handles the user registration request.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные регистрации")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.SignUp(c.Request().Context(), &usecase.SignUpInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newAuthResponse(output))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные входа")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(output))
}

type googleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// GoogleSignIn handles authentication with a Google ID token.
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req googleSignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать токен Google")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.GoogleSignIn(c.Request().Context(), &usecase.GoogleSignInInput{IDToken: req.IDToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(output))
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshToken issues a new access token for a valid refresh token.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать токен обновления")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"accessToken": output.AccessToken})
}

// Logout ends the session identified by the refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать токен обновления")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Вы вышли из аккаунта"})
}

type confirmEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ConfirmEmail marks the email verified using the token from the mail link.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req confirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать токен подтверждения")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.ConfirmEmail(c.Request().Context(), req.Token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Email подтверждён"})
}

type requestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset mails a reset link. The response is identical
// whether or not the email is registered.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req requestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать email")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"message": "Если email зарегистрирован, мы отправили на него ссылку для сброса пароля",
	})
}

type confirmPasswordResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ConfirmPasswordReset sets a new password using the token from the mail link.
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req confirmPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Не удалось прочитать данные сброса пароля")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ConfirmPasswordReset(c.Request().Context(), &usecase.ConfirmPasswordResetInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Пароль изменён, войдите заново"})
}
