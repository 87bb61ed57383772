// Package confirm реализует HTTP-обработчик подтверждения оплаты апгрейда.
//
// Обработчик принимает идентификатор платёжной ссылки, проверяет её
// принадлежность вызывающему и делегирует сверку статуса сервису upgrade.
// Подтверждение идемпотентно: повторный запрос по оплаченной ссылке
// возвращает тот же результат без повторной выдачи премиума.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anonchat/account-service/internal/http/middlewarectx"
	"github.com/anonchat/account-service/internal/http/response"
	"github.com/anonchat/account-service/internal/lib/sl"
	"github.com/anonchat/account-service/internal/services/upgrade"
)

// Request — структура входных данных для подтверждения оплаты.
type Request struct {
	LinkID string `json:"link_id" validate:"required"`
}

// Handler обрабатывает HTTP-запросы подтверждения оплаты.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис премиум-апгрейда
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики апгрейда.
type Service interface {
	Confirm(ctx context.Context, username, linkID string) (*upgrade.Result, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтверждение оплаты апгрейда
// @Description Сверяет статус платёжной ссылки со шлюзом и при вердикте "paid" переводит учётную запись в премиум. Идемпотентно.
// @Tags Upgrade
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Идентификатор платёжной ссылки"
// @Success 200 {object} response.Response "Статус ссылки и признак премиума"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Ссылка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Платёжная ссылка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Оплата получена, выдача премиума не записана"
// @Router /upgrade/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.confirm"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("link_id", req.LinkID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Confirm(r.Context(), username, req.LinkID)
	switch {
	case errors.Is(err, upgrade.ErrAttemptNotFound):
		log.Error("payment attempt not found", slog.String("link_id", req.LinkID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("payment link not found"))
		return
	case errors.Is(err, upgrade.ErrNotAttemptOwner):
		log.Error("payment link belongs to another user",
			slog.String("username", username), slog.String("link_id", req.LinkID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("payment link belongs to another user"))
		return
	case errors.Is(err, upgrade.ErrGrantNotPersisted):
		log.Error("premium grant was not persisted", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("payment received, retry confirmation"))
		return
	case err != nil:
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("payment confirmation finished",
		slog.String("username", username),
		slog.String("link_id", req.LinkID),
		slog.String("status", result.Status),
		slog.Bool("premium", result.Premium))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":  result.Status,
		"premium": result.Premium,
	}))
}
