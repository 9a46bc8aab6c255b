package session

import (
	"errors"
	"fmt"
	"net/http"
)

// Ошибки сессии.
var (
	// ErrReauthRequired означает, что сессию нельзя восстановить и нужен повторный вход.
	ErrReauthRequired = errors.New("session expired: re-authentication required")
	// ErrNoRefreshToken возвращается, когда на момент 401 нет refresh токена.
	ErrNoRefreshToken = fmt.Errorf("%w: no refresh token", ErrReauthRequired)
	// ErrRefreshFailed возвращается, когда эндпоинт обновления отклонил токен или недоступен.
	ErrRefreshFailed = fmt.Errorf("%w: token refresh failed", ErrReauthRequired)
	// ErrLoggedOut получают запросы, ждавшие обновления, во время которого был выполнен выход.
	ErrLoggedOut = fmt.Errorf("%w: logged out during token refresh", ErrReauthRequired)
	// ErrTransport оборачивает сетевые ошибки, когда ответ от сервера не получен.
	ErrTransport = errors.New("transport failure")
	// ErrInvalidRefreshResponse - ответ обновления без access токена.
	ErrInvalidRefreshResponse = errors.New("refresh response has no access token")
	// ErrRelativeBaseURL - базовый адрес API должен быть абсолютным.
	ErrRelativeBaseURL = errors.New("base url must be absolute")
)

// APIError - ответ API с кодом вне диапазона 2xx.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), truncate(e.Body, 256))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus сообщает, что err содержит APIError с указанным кодом.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
