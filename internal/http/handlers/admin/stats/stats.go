// Package stats реализует HTTP-обработчик административной статистики.
//
// Доступ разрешён только настроенному администратору: имя вызывающего
// берётся из контекста запроса и проверяется сервисом stats при каждом вызове.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/anonchat/account-service/internal/http/middlewarectx"
	"github.com/anonchat/account-service/internal/http/response"
	"github.com/anonchat/account-service/internal/lib/sl"
	"github.com/anonchat/account-service/internal/models"
	"github.com/anonchat/account-service/internal/services/stats"
)

// Handler обрабатывает HTTP-запросы статистики.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис административной статистики
}

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	GetStats(ctx context.Context, caller string) (*models.AdminStats, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Административная статистика
// @Description Возвращает количество пользователей, премиальных пользователей и выручку. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Агрегированные счётчики"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	result, err := h.service.GetStats(r.Context(), username)
	switch {
	case errors.Is(err, stats.ErrUnauthorized):
		log.Error("admin stats access denied", slog.String("username", username))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	case err != nil:
		log.Error("failed to collect stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("admin stats collected", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"total_users":   result.TotalUsers,
		"premium_users": result.PremiumUsers,
		"revenue":       result.Revenue,
	}))
}
