package api

import (
	"context"
	"fmt"

	"doomscrollr/internal/client/domain/entities"
)

// Users возвращает список пользователей.
func (c *Client) Users(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := c.get(ctx, "users/", nil, &users); err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return users, nil
}

// User возвращает профиль пользователя.
func (c *Client) User(ctx context.Context, id int64) (*entities.User, error) {
	if err := c.checkID("user id", id); err != nil {
		return nil, err
	}

	var user entities.User
	if err := c.get(ctx, idPath("users/%s/", id), nil, &user); err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &user, nil
}

// UserProjects возвращает проекты пользователя.
func (c *Client) UserProjects(ctx context.Context, id int64) ([]entities.Project, error) {
	return c.userProjects(ctx, id, "users/%s/projects/")
}

// FundedProjects возвращает проекты, которые поддержал пользователь.
func (c *Client) FundedProjects(ctx context.Context, id int64) ([]entities.Project, error) {
	return c.userProjects(ctx, id, "users/%s/funded-projects/")
}

func (c *Client) userProjects(ctx context.Context, id int64, format string) ([]entities.Project, error) {
	if err := c.checkID("user id", id); err != nil {
		return nil, err
	}

	var projects []entities.Project
	if err := c.get(ctx, idPath(format, id), nil, &projects); err != nil {
		return nil, fmt.Errorf("projects of user %d: %w", id, err)
	}
	return projects, nil
}

// Follow подписывает текущего пользователя на id.
func (c *Client) Follow(ctx context.Context, id int64) error {
	return c.follow(ctx, id, "users/%s/follow/")
}

// Unfollow отменяет подписку на id.
func (c *Client) Unfollow(ctx context.Context, id int64) error {
	return c.follow(ctx, id, "users/%s/unfollow/")
}

func (c *Client) follow(ctx context.Context, id int64, format string) error {
	if err := c.checkID("user id", id); err != nil {
		return err
	}
	if err := c.session.Post(ctx, idPath(format, id), nil, nil); err != nil {
		return fmt.Errorf("follow user %d: %w", id, err)
	}
	return nil
}
