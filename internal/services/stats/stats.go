// Package stats реализует административную статистику сервиса.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anonchat/account-service/internal/models"
)

// ErrUnauthorized возвращается при любом несовпадении личности вызывающего
// с настроенным администратором. Никакие данные при этом не раскрываются.
var ErrUnauthorized = errors.New("access denied")

// Authorizer решает, разрешён ли доступ к статистике для данной личности.
// Предикат подключаемый: политику на равенстве имени можно заменить
// ролями или токенами, не трогая сам сервис.
type Authorizer func(identity string) bool

// NewEqualityAuthorizer возвращает предикат точного совпадения
// с именем администратора. Регистр и пробелы значимы.
func NewEqualityAuthorizer(adminUsername string) Authorizer {
	return func(identity string) bool {
		return identity == adminUsername
	}
}

// Repository описывает контракт хранилища для подсчёта статистики.
type Repository interface {
	// CountAllUsers возвращает общее количество пользователей.
	CountAllUsers(ctx context.Context) (int, error)
	// CountPremiumUsers возвращает количество премиальных пользователей.
	CountPremiumUsers(ctx context.Context) (int, error)
}

// Service отдаёт агрегированные счётчики администратору.
type Service struct {
	repo      Repository
	authorize Authorizer
	log       *slog.Logger
	price     int64 // цена премиума в минорных единицах валюты
}

// New создаёт новый Service.
func New(repo Repository, authorize Authorizer, log *slog.Logger, price int64) *Service {
	return &Service{
		repo:      repo,
		authorize: authorize,
		log:       log,
		price:     price,
	}
}

// GetStats возвращает агрегированную статистику, если вызывающий — администратор.
//
// Проверка выполняется при каждом вызове и не кешируется.
// Выручка считается как premium_users * цена в основных единицах валюты.
func (s *Service) GetStats(ctx context.Context, caller string) (*models.AdminStats, error) {
	const op = "stats.GetStats"

	if !s.authorize(caller) {
		s.log.Warn("admin stats access denied", slog.String("caller", caller))
		return nil, ErrUnauthorized
	}

	total, err := s.repo.CountAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	premium, err := s.repo.CountPremiumUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.AdminStats{
		TotalUsers:   total,
		PremiumUsers: premium,
		Revenue:      int64(premium) * s.price / 100,
	}, nil
}
