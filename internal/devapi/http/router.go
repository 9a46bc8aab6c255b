// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doomscrollr/internal/devapi/http/handlers"
	"doomscrollr/internal/devapi/http/middleware"
)

// ErrorRouteNotFound - ответ для несуществующих маршрутов.
const ErrorRouteNotFound = "Route not found"

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, h *handlers.Handler, tokens middleware.AccessTokenValidator, reg *prometheus.Registry) {
	metrics := middleware.NewMetrics(reg)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	api := app.Group("/api")

	// Публичные маршруты.
	api.Post("/auth/register/", h.Register)
	api.Post("/auth/login/", h.Login)
	api.Post("/auth/token/refresh/", h.Refresh)

	// Защищенные маршруты.
	auth := middleware.NewAuthMiddleware(tokens)

	api.Get("/auth/user/", auth, h.Me)
	api.Get("/me/", auth, h.Me)
	api.Put("/me/", auth, h.UpdateMe)
	api.Post("/me/change-password/", auth, h.ChangePassword)
	api.Patch("/profile/update/", auth, h.UpdateProfileImage)

	api.Get("/feed/", auth, h.Feed)
	api.Post("/feed/:id/like/", auth, h.Like)
	api.Post("/feed/:id/comment/", auth, h.Comment)
	api.Get("/social-posts/", auth, h.SocialPosts)
	api.Post("/social-posts/", auth, h.CreatePost)

	api.Get("/projects/", auth, h.Projects)
	api.Post("/projects/", auth, h.CreateProject)
	api.Get("/projects/:id/", auth, h.Project)
	api.Post("/transactions/", auth, h.Fund)
	api.Get("/user-transactions/", auth, h.Transactions)

	api.Get("/users/", auth, h.Users)
	api.Get("/users/:id/", auth, h.User)
	api.Get("/users/:id/projects/", auth, h.UserProjects)
	api.Get("/users/:id/funded-projects/", auth, h.FundedProjects)
	api.Post("/users/:id/follow/", auth, h.Follow)
	api.Post("/users/:id/unfollow/", auth, h.Unfollow)

	api.Get("/conversations/", auth, h.Conversations)
	api.Post("/conversations/", auth, h.StartConversation)
	api.Get("/conversations/:id/messages/", auth, h.Messages)
	api.Post("/conversations/:id/messages/", auth, h.SendMessage)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": ErrorRouteNotFound,
		})
	})
}
