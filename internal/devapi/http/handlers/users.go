package handlers

import (
	"github.com/gofiber/fiber/v3"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/devapi/http/middleware"
)

// Ответы подписки.
const (
	MsgFollowed   = "followed"
	MsgUnfollowed = "unfollowed"
)

// Users возвращает всех пользователей.
func (h *Handler) Users(ctx fiber.Ctx) error {
	return ctx.JSON(h.store.Users(middleware.UserID(ctx)))
}

// User возвращает профиль пользователя.
func (h *Handler) User(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	user, err := h.store.User(middleware.UserID(ctx), id)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(user)
}

// UserProjects возвращает проекты пользователя.
func (h *Handler) UserProjects(ctx fiber.Ctx) error {
	return h.userProjects(ctx, func(id int64) []entities.Project { return h.store.Projects(id) })
}

// FundedProjects возвращает проекты, которые поддержал пользователь.
func (h *Handler) FundedProjects(ctx fiber.Ctx) error {
	return h.userProjects(ctx, h.store.FundedProjects)
}

func (h *Handler) userProjects(ctx fiber.Ctx, list func(int64) []entities.Project) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}
	if _, err := h.store.User(id, id); err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(list(id))
}

// Follow подписывает текущего пользователя.
func (h *Handler) Follow(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}
	if err := h.store.Follow(middleware.UserID(ctx), id); err != nil {
		return h.storeError(ctx, err)
	}
	return detail(ctx, fiber.StatusOK, MsgFollowed)
}

// Unfollow отменяет подписку.
func (h *Handler) Unfollow(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}
	if err := h.store.Unfollow(middleware.UserID(ctx), id); err != nil {
		return h.storeError(ctx, err)
	}
	return detail(ctx, fiber.StatusOK, MsgUnfollowed)
}
