// Package identity содержит бизнес-логику разрешения и регистрации учётных записей.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anonchat/account-service/internal/lib/jwt"
	"github.com/anonchat/account-service/internal/lib/password"
	"github.com/anonchat/account-service/internal/models"
)

// ErrUserNotFound возвращается, когда имя не зарегистрировано, а регистрация
// не запрошена. Ошибка восстановимая: вызывающий может предложить регистрацию.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidPin возвращается, когда запись защищена PIN-кодом,
// а предъявленный PIN не совпадает или отсутствует.
var ErrInvalidPin = errors.New("invalid pin")

// UserRepository описывает контракт хранилища для работы с пользователями.
type UserRepository interface {
	// FindUserByUsername возвращает пользователя по имени, false — если не найден.
	FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error)
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, username, pinHash string) (string, error)
}

// Service отвечает за разрешение имени в учётную запись и выпуск сессионных токенов.
type Service struct {
	users  UserRepository
	tokens jwt.Maker
	log    *slog.Logger
}

// New создаёт новый Service.
func New(users UserRepository, tokens jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// ResolveOrRegister находит пользователя по имени или, если имя свободно
// и register установлен, создаёт новую запись со сброшенным признаком премиума.
//
// Если найденная запись защищена PIN-кодом, предъявленный pin обязан совпасть.
// При отказе от регистрации (register=false) возвращается ErrUserNotFound,
// и вызывающий не должен продолжать поток, требующий идентификатор.
//
// При успехе выпускается сессионный токен: дальнейшие операции доверяют
// имени из токена, а не имени, набранному в запросе.
func (s *Service) ResolveOrRegister(ctx context.Context, username, pin string, register bool) (*models.User, bool, string, error) {
	const op = "identity.ResolveOrRegister"

	user, found, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, false, "", fmt.Errorf("%s: %w", op, err)
	}

	if found {
		if user.PinHash != "" {
			if err := password.CompareHash(user.PinHash, pin); err != nil {
				return nil, false, "", ErrInvalidPin
			}
		}
		token, err := s.tokens.GenerateToken(user.Username, user.UID)
		if err != nil {
			return nil, false, "", fmt.Errorf("%s: %w", op, err)
		}
		return user, false, token, nil
	}

	if !register {
		return nil, false, "", ErrUserNotFound
	}

	var pinHash string
	if pin != "" {
		pinHash, err = password.GetHash(pin)
		if err != nil {
			return nil, false, "", fmt.Errorf("%s: %w", op, err)
		}
	}

	uid, err := s.users.CreateUser(ctx, username, pinHash)
	if err != nil {
		return nil, false, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered new user",
		slog.String("username", username), slog.String("uid", uid))

	token, err := s.tokens.GenerateToken(username, uid)
	if err != nil {
		return nil, false, "", fmt.Errorf("%s: %w", op, err)
	}

	newUser := &models.User{
		UID:       uid,
		Username:  username,
		IsPremium: false,
		PinHash:   pinHash,
	}
	return newUser, true, token, nil
}
