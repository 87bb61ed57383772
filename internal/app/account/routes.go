// Package account предоставляет сборку и маршруты сервиса учётных записей.
package account

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminstats "github.com/anonchat/account-service/internal/http/handlers/admin/stats"
	"github.com/anonchat/account-service/internal/http/handlers/account/resolve"
	"github.com/anonchat/account-service/internal/http/handlers/upgrade/confirm"
	"github.com/anonchat/account-service/internal/http/handlers/upgrade/start"
	"github.com/anonchat/account-service/internal/http/middlewarectx"
	"github.com/anonchat/account-service/internal/lib/jwt"
)

// UpgradeService объединяет операции запуска и подтверждения апгрейда.
type UpgradeService interface {
	start.Service
	confirm.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokens jwt.Maker, identityService resolve.Service, upgradeService UpgradeService, statsService adminstats.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/resolve", resolve.New(logger, identityService).ServeHTTP)

		// Группа с проверкой сессионного токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(tokens, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/upgrade", start.New(logger, upgradeService).ServeHTTP)
			r.Post("/upgrade/confirm", confirm.New(logger, upgradeService).ServeHTTP)
			r.Get("/admin/stats", adminstats.New(logger, statsService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
