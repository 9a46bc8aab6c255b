package handlers

import (
	"github.com/gofiber/fiber/v3"

	"doomscrollr/internal/devapi/http/middleware"
)

// Conversations возвращает диалоги текущего пользователя.
func (h *Handler) Conversations(ctx fiber.Ctx) error {
	return ctx.JSON(h.store.Conversations(middleware.UserID(ctx)))
}

// StartConversation открывает диалог с пользователем.
func (h *Handler) StartConversation(ctx fiber.Ctx) error {
	var req conversationRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	conv, err := h.store.StartConversation(middleware.UserID(ctx), req.User)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(conv)
}

// Messages возвращает сообщения диалога.
func (h *Handler) Messages(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	msgs, err := h.store.Messages(middleware.UserID(ctx), id)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(msgs)
}

// SendMessage добавляет сообщение в диалог.
func (h *Handler) SendMessage(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	var req textRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	msg, err := h.store.SendMessage(middleware.UserID(ctx), id, req.Text)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(msg)
}
