package cli

import (
	"context"
	"errors"
	"net/http"

	"doomscrollr/internal/client/api"
	"doomscrollr/internal/client/session"
)

// Ошибки команд входа.
var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// RegisterCmd создает учетную запись.
type RegisterCmd struct {
	command
	Username string `long:"username" short:"u" required:"yes" description:"user name"`
	Email    string `long:"email" short:"e" required:"yes" description:"email address"`
	Password string `long:"password" short:"p" required:"yes" description:"password" env:"DOOMSCROLLR_PASSWORD"`
}

func (c *RegisterCmd) run(ctx context.Context, e *env) error {
	user, err := e.client.Register(ctx, api.RegisterRequest{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
	})
	if err != nil {
		return err
	}
	return e.print(user, func() {
		e.printf("registered @%s, now run: doomscrollr login -u %s\n", user.Username, c.Username)
	})
}

// LoginCmd выполняет вход.
type LoginCmd struct {
	command
	Username string `long:"username" short:"u" required:"yes" description:"user name"`
	Password string `long:"password" short:"p" required:"yes" description:"password" env:"DOOMSCROLLR_PASSWORD"`
}

func (c *LoginCmd) run(ctx context.Context, e *env) error {
	err := e.client.Login(ctx, api.LoginRequest{Username: c.Username, Password: c.Password})
	// Эндпоинт входа отвечает 401 на неверный пароль, сессия при этом завершается.
	if errors.Is(err, session.ErrReauthRequired) || session.IsStatus(err, http.StatusUnauthorized) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	e.printf("logged in as %s\n", c.Username)
	return nil
}

// LogoutCmd удаляет сохраненные токены.
type LogoutCmd struct {
	command
}

func (c *LogoutCmd) run(ctx context.Context, e *env) error {
	if err := e.client.Logout(ctx); err != nil {
		return err
	}
	e.printf("logged out\n")
	return nil
}

// WhoamiCmd показывает текущего пользователя.
type WhoamiCmd struct {
	command
}

func (c *WhoamiCmd) run(ctx context.Context, e *env) error {
	if !e.client.Session().Authenticated() {
		return ErrNotLoggedIn
	}
	user, err := e.client.Me(ctx)
	if err != nil {
		return err
	}
	return e.print(user, func() { e.printUser(*user) })
}
