package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"doomscrollr/internal/devapi/http/middleware"
	"doomscrollr/internal/devapi/services"
	"doomscrollr/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister       = "auth handler: register"
	LogHandlerLogin          = "auth handler: login"
	LogHandlerRefresh        = "auth handler: refresh token" // #nosec G101 - not a credential
	LogHandlerChangePassword = "auth handler: change password"
	LogUserLoggedIn          = "user logged in"

	ErrorInvalidCredentials = "No active account found with the given credentials"
	ErrorRefreshNotValid    = "Token is invalid or expired"
	ErrorWrongPassword      = "Wrong password."
	ErrorNoFileSubmitted    = "No file was submitted."
	MsgPasswordUpdated      = "Password updated successfully."
)

// Register создает пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req registerRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, services.ErrInvalidPassword) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"password": []string{err.Error()}})
	}
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	user, err := h.store.CreateUser(req.Username, req.Email, hash)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(user)
}

// Login проверяет пароль и выдает пару токенов.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req loginRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	user, hash, err := h.store.Credentials(req.Username)
	if err != nil {
		return detail(ctx, fiber.StatusUnauthorized, ErrorInvalidCredentials)
	}
	ok, err := h.hasher.Verify(req.Password, hash)
	if err != nil || !ok {
		return detail(ctx, fiber.StatusUnauthorized, ErrorInvalidCredentials)
	}

	access, err := h.tokens.GenerateAccessToken(requestCtx, user.ID, user.Username)
	if err != nil {
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}
	refresh, err := h.tokens.GenerateRefreshToken(requestCtx, user.ID)
	if err != nil {
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	log.Info(requestCtx, LogUserLoggedIn, zap.Int64("user_id", user.ID))
	return ctx.Status(fiber.StatusOK).JSON(tokenPair{Access: access, Refresh: refresh})
}

// Refresh выдает новый access токен по refresh токену.
func (h *Handler) Refresh(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefresh)

	var req refreshRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	claims, err := h.tokens.ValidateRefreshToken(requestCtx, req.Refresh)
	if err != nil {
		return refreshRejected(ctx)
	}
	user, err := h.store.User(claims.UserID, claims.UserID)
	if err != nil {
		return refreshRejected(ctx)
	}

	var pair tokenPair
	if pair.Access, err = h.tokens.GenerateAccessToken(requestCtx, user.ID, user.Username); err != nil {
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}
	if h.rotate {
		if pair.Refresh, err = h.tokens.GenerateRefreshToken(requestCtx, user.ID); err != nil {
			return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(pair)
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(ctx fiber.Ctx) error {
	uid := middleware.UserID(ctx)
	user, err := h.store.User(uid, uid)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(user)
}

// UpdateMe меняет профиль по multipart форме.
func (h *Handler) UpdateMe(ctx fiber.Ctx) error {
	uid := middleware.UserID(ctx)

	username := ctx.FormValue("username")
	if username != "" && (len(username) < 3 || len(username) > 150) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"username": []string{"failed on 'min'"}})
	}

	user, err := h.store.UpdateUser(uid, username, ctx.FormValue("bio"), h.upload(ctx, "image"))
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(user)
}

// UpdateProfileImage заменяет только изображение профиля.
func (h *Handler) UpdateProfileImage(ctx fiber.Ctx) error {
	image := h.upload(ctx, "profile_image")
	if image == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"profile_image": []string{ErrorNoFileSubmitted}})
	}

	user, err := h.store.UpdateUser(middleware.UserID(ctx), "", "", image)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(user)
}

// ChangePassword меняет пароль после проверки старого.
func (h *Handler) ChangePassword(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerChangePassword)

	var req changePasswordRequest
	if sent, err := h.bind(ctx, &req); sent {
		return err
	}

	uid := middleware.UserID(ctx)
	hash, err := h.store.PasswordHash(uid)
	if err != nil {
		return h.storeError(ctx, err)
	}
	if ok, err := h.hasher.Verify(req.OldPassword, hash); err != nil || !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"old_password": []string{ErrorWrongPassword}})
	}

	newHash, err := h.hasher.Hash(req.NewPassword)
	if errors.Is(err, services.ErrInvalidPassword) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"new_password": []string{err.Error()}})
	}
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return detail(ctx, fiber.StatusInternalServerError, ErrorFailedToServeRequest)
	}
	if err := h.store.SetPasswordHash(uid, newHash); err != nil {
		return h.storeError(ctx, err)
	}

	return detail(ctx, fiber.StatusOK, MsgPasswordUpdated)
}

func refreshRejected(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"detail": ErrorRefreshNotValid,
		"code":   "token_not_valid",
	})
}
