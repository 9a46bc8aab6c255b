// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"doomscrollr/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

const localRequestID = "requestID"

// NewRequestIDMiddleware берет идентификатор запроса из заголовка или создает новый
// и возвращает его в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := ctx.Get(HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		ctx.Locals(localRequestID, id)
		ctx.Set(HeaderRequestID, id)
		return ctx.Next()
	}
}

// Context возвращает контекст запроса с идентификатором запроса для логирования.
func Context(ctx fiber.Ctx) context.Context {
	var requestCtx context.Context = ctx
	if id, ok := ctx.Locals(localRequestID).(string); ok {
		return logger.NewRequestIDContext(requestCtx, id)
	}
	return requestCtx
}
