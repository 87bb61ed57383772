// Package resolve реализует HTTP-обработчик разрешения имени в учётную запись.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка и валидация полей, а также делегирование операции сервису identity.
// При успехе возвращается JSON с данными учётной записи и сессионным токеном;
// в случае ошибок формируются соответствующие HTTP-ответы.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/anonchat/account-service/internal/http/response"
	"github.com/anonchat/account-service/internal/lib/sl"
	"github.com/anonchat/account-service/internal/models"
	"github.com/anonchat/account-service/internal/services/identity"
)

// Request — структура входных данных для разрешения имени.
//
// Username должен быть строкой длиной от 3 до 50 символов.
// Pin опционален: от 4 до 8 цифр, проверяется только для защищённых записей.
// Register разрешает завести новую запись, если имя свободно.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Pin      string `json:"pin,omitempty" validate:"omitempty,numeric,min=4,max=8"`
	Register bool   `json:"register,omitempty"`
}

// Handler обрабатывает HTTP-запросы разрешения имени.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис разрешения и регистрации учётных записей
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики учётных записей.
type Service interface {
	ResolveOrRegister(ctx context.Context, username, pin string, register bool) (*models.User, bool, string, error)
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
// @Summary Разрешение имени пользователя
// @Description Находит учётную запись по имени или регистрирует новую, если имя свободно и register=true. Возвращает сессионный токен.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя пользователя и параметры регистрации"
// @Success 200 {object} response.Response "Учётная запись найдена"
// @Success 201 {object} response.Response "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный PIN"
// @Failure 404 {object} response.ErrorResponse "Имя не зарегистрировано"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resolve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.resolve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, created, token, err := h.service.ResolveOrRegister(r.Context(), req.Username, req.Pin, req.Register)
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		log.Info("username is not registered", slog.String("username", req.Username))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, identity.ErrInvalidPin):
		log.Error("pin mismatch", slog.String("username", req.Username))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid pin"))
		return
	case err != nil:
		log.Error("failed to resolve account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if created {
		log.Info("account registered", slog.String("username", user.Username))
		w.WriteHeader(http.StatusCreated)
	} else {
		log.Info("account resolved", slog.String("username", user.Username))
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username":   user.Username,
		"is_premium": user.IsPremium,
		"created":    created,
		"token":      token,
	}))
}
