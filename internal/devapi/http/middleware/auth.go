package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"doomscrollr/internal/devapi/services"
	"doomscrollr/pkg/logger"
)

// Сообщения проверки аутентификации.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "Authentication credentials were not provided."
	ErrorInvalidTokenFormat = "Authorization header must contain two space-delimited values"
	ErrorTokenNotValid      = "Given token not valid for any token type"
)

const (
	localUserID = "userID"
	bearer      = "Bearer"
)

// AccessTokenValidator проверяет access токен.
type AccessTokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*services.Claims, error)
}

// NewAuthMiddleware пропускает только запросы с действительным Bearer токеном.
// Истекший или недействительный токен дает 401.
func NewAuthMiddleware(tokens AccessTokenValidator) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := Context(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != bearer || token == "" {
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		claims, err := tokens.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorTokenNotValid, zap.Error(err))
			return unauthorized(ctx, ErrorTokenNotValid)
		}

		ctx.Locals(localUserID, claims.UserID)
		return ctx.Next()
	}
}

// UserID возвращает идентификатор аутентифицированного пользователя или 0.
func UserID(ctx fiber.Ctx) int64 {
	id, _ := ctx.Locals(localUserID).(int64)
	return id
}

func unauthorized(ctx fiber.Ctx, detail string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, bearer+` realm="api"`)
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}
