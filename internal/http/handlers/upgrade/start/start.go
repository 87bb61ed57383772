// Package start реализует HTTP-обработчик запуска премиум-апгрейда.
//
// Имя пользователя берётся из контекста запроса (сессионный токен),
// тело запроса не требуется. Обработчик делегирует создание платёжной
// ссылки сервису upgrade и возвращает её клиенту.
package start

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
	"github.com/anonchat/account-service/internal/services/upgrade"
)

// Handler обрабатывает HTTP-запросы запуска апгрейда.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис премиум-апгрейда
}

// Service описывает интерфейс бизнес-логики апгрейда.
type Service interface {
	Start(ctx context.Context, username string) (*upgrade.Attempt, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запуск премиум-апгрейда
// @Description Создаёт платёжную ссылку для перевода учётной записи в премиум. Ссылку нужно оплатить, затем подтвердить оплату.
// @Tags Upgrade
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Платёжная ссылка создана"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Учётная запись уже премиальная"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.start"

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

	attempt, err := h.service.Start(r.Context(), username)
	switch {
	case errors.Is(err, upgrade.ErrUserNotFound):
		log.Error("account not found", slog.String("username", username))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, upgrade.ErrAlreadyPremium):
		log.Info("account is already premium", slog.String("username", username))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("account is already premium"))
		return
	case err != nil:
		log.Error("failed to create payment link", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to create payment link"))
		return
	}

	log.Info("payment link created",
		slog.String("username", username),
		slog.String("link_id", attempt.LinkID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"link_id":  attempt.LinkID,
		"url":      attempt.URL,
		"amount":   attempt.Amount,
		"currency": attempt.Currency,
	}))
}
