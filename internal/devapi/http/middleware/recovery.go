package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"doomscrollr/pkg/logger"
)

// Сообщения восстановления после паники.
const (
	LogServerPanic         = "server panic"
	ErrorPanicResponse     = "failed to send error response after panic"
	ErrorInternalServerMsg = "Internal Server Error"
)

// NewRecoveryMiddleware создает новое промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := Context(ctx)
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				err = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"detail": ErrorInternalServerMsg,
				})
				if err != nil {
					log.Error(requestCtx, ErrorPanicResponse, zap.Error(err))
				}
			}
		}()

		return ctx.Next()
	}
}
