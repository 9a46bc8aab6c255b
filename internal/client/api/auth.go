package api

import (
	"context"
	"errors"
	"fmt"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/session"
)

// ErrEmptyTokenPair - эндпоинт входа не вернул токены.
var ErrEmptyTokenPair = errors.New("login response has no token pair")

// Register создает учетную запись. Токены при этом не выдаются.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*entities.User, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}

	var user entities.User
	if err := c.session.Post(ctx, "auth/register/", req, &user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &user, nil
}

// Login выполняет вход и сохраняет пару токенов в сессии.
func (c *Client) Login(ctx context.Context, req LoginRequest) error {
	if err := c.check(req); err != nil {
		return err
	}

	var pair TokenPair
	if err := c.session.Post(ctx, "auth/login/", req, &pair); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		return ErrEmptyTokenPair
	}

	return c.session.SetCredentials(ctx, entities.Credentials{Access: pair.Access, Refresh: pair.Refresh})
}

// Logout удаляет учетные данные сессии.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// CurrentUser возвращает пользователя, которому принадлежит access токен.
func (c *Client) CurrentUser(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := c.get(ctx, "auth/user/", nil, &user); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &user, nil
}

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := c.get(ctx, "me/", nil, &user); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile меняет имя, описание и изображение профиля.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*entities.User, error) {
	if err := c.check(update); err != nil {
		return nil, err
	}

	var user entities.User
	if err := c.session.PutMultipart(ctx, "me/", update.form(), &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// UpdateProfileImage загружает новое изображение профиля, не трогая остальные поля.
func (c *Client) UpdateProfileImage(ctx context.Context, image Upload) (*entities.User, error) {
	if image.FileName == "" || len(image.Content) == 0 {
		return nil, fmt.Errorf("%w: image file is required", ErrInvalidInput)
	}

	form := &session.Multipart{}
	attach(form, "profile_image", &image)

	var user entities.User
	if err := c.session.PatchMultipart(ctx, "profile/update/", form, &user); err != nil {
		return nil, fmt.Errorf("update profile image: %w", err)
	}
	return &user, nil
}

// ChangePassword меняет пароль текущего пользователя.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	if err := c.session.Post(ctx, "me/change-password/", req, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
