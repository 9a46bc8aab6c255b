// Package api - типизированный клиент Doomscrollr API поверх аутентифицированной сессии.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"doomscrollr/internal/client/session"
)

// ErrInvalidInput возвращается, если входные данные не прошли проверку до отправки запроса.
var ErrInvalidInput = errors.New("invalid input")

// Client вызывает эндпоинты Doomscrollr через Session.
type Client struct {
	session  *session.Session
	validate *validator.Validate
}

// New создает клиент API.
func New(s *session.Session) *Client {
	return &Client{
		session:  s,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Session возвращает сессию клиента.
func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) check(in any) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}

func (c *Client) checkID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.session.Get(ctx, path, query, out)
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}
