package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"doomscrollr/internal/devapi/http/middleware"
)

// Ошибки формы проекта.
const (
	ErrorTitleRequired   = "title is required"
	ErrorInvalidAmount   = "target_amount must be a positive number"
	ErrorDescriptionMiss = "description is required"
)

// Projects возвращает проекты, при наличии ?owner= только этого владельца.
func (h *Handler) Projects(ctx fiber.Ctx) error {
	owner, ok := queryID(ctx, "owner")
	if !ok {
		return invalidID(ctx)
	}
	return ctx.JSON(h.store.Projects(owner))
}

// Project возвращает проект.
func (h *Handler) Project(ctx fiber.Ctx) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return invalidID(ctx)
	}

	project, err := h.store.Project(id)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(project)
}

// CreateProject создает проект из multipart формы.
func (h *Handler) CreateProject(ctx fiber.Ctx) error {
	title := ctx.FormValue("title")
	if title == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"title": []string{ErrorTitleRequired}})
	}
	description := ctx.FormValue("description")
	if description == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"description": []string{ErrorDescriptionMiss}})
	}
	goal, err := strconv.ParseFloat(ctx.FormValue("target_amount"), 64)
	if err != nil || goal <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"target_amount": []string{ErrorInvalidAmount}})
	}

	project, err := h.store.CreateProject(middleware.UserID(ctx), title, description, goal, h.upload(ctx, "image"))
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// Fund записывает перевод текущего пользователя владельцу проекта.
func (h *Handler) Fund(ctx fiber.Ctx) error {
	var req fundRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	tx, err := h.store.Fund(middleware.UserID(ctx), req.Receiver, req.Project, req.Amount)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(tx)
}

// Transactions возвращает переводы текущего пользователя.
func (h *Handler) Transactions(ctx fiber.Ctx) error {
	return ctx.JSON(h.store.Transactions(middleware.UserID(ctx)))
}
