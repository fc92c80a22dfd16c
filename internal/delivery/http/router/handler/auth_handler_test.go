package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vkladovke/internal/delivery/http/middleware"
	"vkladovke/internal/delivery/http/validator"
	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"
	mockUsecase "vkladovke/internal/mocks/usecase"
	"vkladovke/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestEcho builds an echo instance with the production validator and
// error handler so tests exercise the real response envelopes.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) *domainerrors.ErrorResponse {
	t.Helper()
	var resp domainerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)

	return &resp
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	uc := &mockUsecase.MockUserUsecase{}
	h := NewAuthHandler(uc)

	e := newTestEcho()
	e.POST("/auth/signup", h.SignUp)

	user := &entity.User{ID: uuid.New(), Email: "anna@example.com", DisplayName: "Анна", GroupID: uuid.New()}
	uc.On("SignUp", mock.Anything, mock.MatchedBy(func(input *usecase.SignUpInput) bool {
		return input.Email == "anna@example.com" && input.DisplayName == "Анна"
	})).Return(&usecase.AuthOutput{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         user,
	}, nil)

	rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"displayName":"Анна","email":"anna@example.com","password":"correct-horse-1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp domainerrors.SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "access", data["accessToken"])

	userData, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "anna@example.com", userData["email"])
}

func TestAuthHandler_SignUp_InvalidEmail(t *testing.T) {
	uc := &mockUsecase.MockUserUsecase{}
	h := NewAuthHandler(uc)

	e := newTestEcho()
	e.POST("/auth/signup", h.SignUp)

	rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"displayName":"Анна","email":"not-an-email","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	uc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	uc := &mockUsecase.MockUserUsecase{}
	h := NewAuthHandler(uc)

	e := newTestEcho()
	e.POST("/auth/login", h.Login)

	uc.On("Login", mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch"))

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"anna@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	assert.Equal(t, "Неверный email или пароль", resp.Error.Message)
}

func TestAuthHandler_Login_UnknownErrorGetsGenericEnvelope(t *testing.T) {
	uc := &mockUsecase.MockUserUsecase{}
	h := NewAuthHandler(uc)

	e := newTestEcho()
	e.POST("/auth/login", h.Login)

	uc.On("Login", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"anna@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// Internals never leak into the user-facing message.
	assert.NotContains(t, resp.Error.Message, "connection refused")
}

func TestAuthHandler_RequestPasswordReset_AlwaysSameResponse(t *testing.T) {
	uc := &mockUsecase.MockUserUsecase{}
	h := NewAuthHandler(uc)

	e := newTestEcho()
	e.POST("/auth/password-reset", h.RequestPasswordReset)

	uc.On("RequestPasswordReset", mock.Anything, "known@example.com").Return(nil)
	uc.On("RequestPasswordReset", mock.Anything, "unknown@example.com").Return(nil)

	recKnown := doJSON(e, http.MethodPost, "/auth/password-reset", `{"email":"known@example.com"}`)
	recUnknown := doJSON(e, http.MethodPost, "/auth/password-reset", `{"email":"unknown@example.com"}`)

	assert.Equal(t, http.StatusOK, recKnown.Code)
	assert.Equal(t, http.StatusOK, recUnknown.Code)

	var known, unknown domainerrors.SuccessResponse
	require.NoError(t, json.Unmarshal(recKnown.Body.Bytes(), &known))
	require.NoError(t, json.Unmarshal(recUnknown.Body.Bytes(), &unknown))
	assert.Equal(t, known.Data, unknown.Data)
}
