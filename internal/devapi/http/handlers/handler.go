// Package handlers содержит HTTP обработчики локального Doomscrollr API.
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"doomscrollr/internal/devapi/http/middleware"
	"doomscrollr/internal/devapi/services"
	"doomscrollr/internal/devapi/storage"
	"doomscrollr/pkg/logger"
)

// Общие сообщения обработчиков.
const (
	ErrorInvalidRequest       = "invalid request"
	ErrorInvalidID            = "invalid id"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorNotFound             = "Not found."
	ErrorForbidden            = "You do not have permission to perform this action."

	mediaPrefix = "/media/uploads/"
)

// Handler содержит обработчики всех эндпоинтов.
type Handler struct {
	store    *storage.Memory
	tokens   *services.TokenIssuer
	hasher   *services.PasswordHasher
	validate *validator.Validate
	rotate   bool
}

// NewHandler создает обработчики. rotate включает выдачу нового refresh токена при обновлении.
func NewHandler(store *storage.Memory, tokens *services.TokenIssuer, hasher *services.PasswordHasher, rotate bool) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		store:    store,
		tokens:   tokens,
		hasher:   hasher,
		validate: validate,
		rotate:   rotate,
	}
}

// bind разбирает JSON тело и проверяет его. Ошибка уже отправлена клиенту, если sent == true.
func (h *Handler) bind(ctx fiber.Ctx, req any) (sent bool, err error) {
	if err := ctx.Bind().JSON(req); err != nil {
		requestCtx := middleware.Context(ctx)
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return true, detail(ctx, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	return h.check(ctx, req)
}

func (h *Handler) check(ctx fiber.Ctx, req any) (bool, error) {
	err := h.validate.Struct(req)
	if err == nil {
		return false, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return true, detail(ctx, fiber.StatusBadRequest, err.Error())
	}

	fields := fiber.Map{}
	for _, fe := range verrs {
		fields[fe.Field()] = []string{fmt.Sprintf("failed on '%s'", fe.Tag())}
	}
	return true, ctx.Status(fiber.StatusBadRequest).JSON(fields)
}

// storeError переводит ошибку хранилища в ответ.
func (h *Handler) storeError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return detail(ctx, fiber.StatusNotFound, ErrorNotFound)
	case errors.Is(err, storage.ErrNotParticipant):
		return detail(ctx, fiber.StatusForbidden, ErrorForbidden)
	case errors.Is(err, storage.ErrUsernameTaken):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"username": []string{err.Error()}})
	case errors.Is(err, storage.ErrSelfFollow), errors.Is(err, storage.ErrSelfChat), errors.Is(err, storage.ErrInvalidFunding):
		return detail(ctx, fiber.StatusBadRequest, err.Error())
	default:
		requestCtx := middleware.Context(ctx)
		logger.Log(requestCtx).Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}
}

// upload возвращает путь загруженного файла или пустую строку, если файла нет.
// Содержимое файла не сохраняется.
func (h *Handler) upload(ctx fiber.Ctx, field string) string {
	fh, err := ctx.FormFile(field)
	if err != nil || fh == nil {
		return ""
	}
	return mediaPrefix + uuid.NewString() + "-" + filepath.Base(fh.Filename)
}

func paramID(ctx fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	return id, err == nil && id > 0
}

// queryID разбирает необязательный идентификатор из строки запроса. Пустое значение дает 0.
func queryID(ctx fiber.Ctx, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func detail(ctx fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{"detail": msg})
}

func invalidID(ctx fiber.Ctx) error {
	return detail(ctx, fiber.StatusBadRequest, ErrorInvalidID)
}
