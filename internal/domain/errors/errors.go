package errors

import (
	"net/http"

	"vkladovke/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. Messages are shown to end users as-is, so they
// are written in the product language (Russian).
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"Пользователь не найден",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"Этот email уже зарегистрирован",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"Не удалось создать пользователя",
		"",
	)

	ErrUserUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_UPDATE_FAILED",
		"Не удалось обновить данные пользователя",
		"",
	)

	// Authentication-related errors
	ErrAuthNotFound = NewBaseError(
		http.StatusUnauthorized,
		"AUTH_NOT_FOUND",
		"Способ входа не найден",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Неверный email или пароль",
		"",
	)

	ErrEmailNotVerified = NewBaseError(
		http.StatusForbidden,
		"EMAIL_NOT_VERIFIED",
		"Подтвердите email, чтобы продолжить",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Сессия недействительна, войдите заново",
		"",
	)

	ErrRefreshTokenNotFound = NewBaseError(
		http.StatusNotFound,
		"REFRESH_TOKEN_NOT_FOUND",
		"Сессия не найдена",
		"",
	)

	ErrRefreshTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_EXPIRED",
		"Сессия истекла, войдите заново",
		"",
	)

	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"Достигнуто максимальное число активных устройств",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Не удалось обработать пароль",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"Слишком простой пароль",
		"",
	)

	ErrMailTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"MAIL_TOKEN_INVALID",
		"Ссылка недействительна или устарела",
		"",
	)

	ErrMailSendFailed = NewBaseError(
		http.StatusInternalServerError,
		"MAIL_SEND_FAILED",
		"Не удалось отправить письмо",
		"",
	)

	// OAuth-related errors
	ErrOAuthFailed = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_FAILED",
		"Не удалось войти через Google",
		"",
	)

	ErrOAuthTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_TOKEN_INVALID",
		"Недействительный токен Google",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Проверьте правильность заполнения полей",
		"",
	)

	// Catalog-related errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Товар не найден",
		"",
	)

	ErrProductAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PRODUCT_ALREADY_EXISTS",
		"Такой товар уже есть в каталоге",
		"",
	)

	// Order-related errors
	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"Список не найден",
		"",
	)

	ErrOrderCompleted = NewBaseError(
		http.StatusConflict,
		"ORDER_COMPLETED",
		"Список уже завершён",
		"",
	)

	ErrOrderEmpty = NewBaseError(
		http.StatusBadRequest,
		"ORDER_EMPTY",
		"Добавьте хотя бы один товар",
		"",
	)

	ErrOrderItemExists = NewBaseError(
		http.StatusConflict,
		"ORDER_ITEM_EXISTS",
		"Этот товар уже есть в списке",
		"",
	)

	ErrOrderItemNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_ITEM_NOT_FOUND",
		"Товара нет в списке",
		"",
	)

	ErrOrderHasPendingItems = NewBaseError(
		http.StatusConflict,
		"ORDER_HAS_PENDING_ITEMS",
		"В списке остались некупленные товары",
		"",
	)

	// Invitation-related errors
	ErrInvitationNotFound = NewBaseError(
		http.StatusNotFound,
		"INVITATION_NOT_FOUND",
		"Приглашение не найдено",
		"",
	)

	ErrInviteeNotFound = NewBaseError(
		http.StatusNotFound,
		"INVITEE_NOT_FOUND",
		"Пользователь с таким email не зарегистрирован",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Что-то пошло не так. Попробуйте ещё раз",
		"",
	)

	// General errors. ErrInternalError carries the generic fallback message
	// shown for any failure without a dedicated mapping.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Что-то пошло не так. Попробуйте ещё раз",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Нет доступа",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Не найдено",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Конфликт данных",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Что-то пошло не так. Попробуйте ещё раз"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
