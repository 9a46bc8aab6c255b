package handlers

import (
	"github.com/gofiber/fiber/v3"

	"doomscrollr/internal/devapi/http/middleware"
)

// ErrorContentRequired - пост без текста.
const ErrorContentRequired = "content is required"

// Feed возвращает все посты от новых к старым.
func (h *Handler) Feed(ctx fiber.Ctx) error {
	return ctx.JSON(h.store.Posts(0))
}

// Like отмечает пост.
func (h *Handler) Like(ctx fiber.Ctx) error {
	postID, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	likes, err := h.store.Like(middleware.UserID(ctx), postID)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"likes": likes})
}

// Comment добавляет комментарий к посту.
func (h *Handler) Comment(ctx fiber.Ctx) error {
	postID, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	var req textRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	comment, err := h.store.AddComment(middleware.UserID(ctx), postID, req.Text)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(comment)
}

// SocialPosts возвращает посты, при наличии ?author= только этого автора.
func (h *Handler) SocialPosts(ctx fiber.Ctx) error {
	author, ok := queryID(ctx, "author")
	if !ok {
		return invalidID(ctx)
	}
	return ctx.JSON(h.store.Posts(author))
}

// CreatePost публикует пост из multipart формы.
func (h *Handler) CreatePost(ctx fiber.Ctx) error {
	content := ctx.FormValue("content")
	if content == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"content": []string{ErrorContentRequired}})
	}

	post, err := h.store.CreatePost(middleware.UserID(ctx), ctx.FormValue("title"), content, h.upload(ctx, "image"))
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(post)
}
