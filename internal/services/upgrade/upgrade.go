// Package upgrade реализует машину состояний покупки премиума.
//
// Поток разбит на две операции, связанные идентификатором платёжной ссылки:
// Start создаёт ссылку у шлюза и фиксирует попытку, Confirm по требованию
// сверяет статус у шлюза и при подтверждённой оплате выдаёт премиум.
// Блокирующего ожидания человека внутри сервиса нет: Confirm можно вызывать
// сколько угодно раз и когда угодно, таймаут не предусмотрен.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonchat/account-service/internal/lib/sl"
	"github.com/anonchat/account-service/internal/models"
	"github.com/anonchat/account-service/internal/paymentprovider"
)

// Время жизни записи о попытке в кеше. Ограничивает только кеш:
// строка в payment_links остаётся, позднее подтверждение всё ещё возможно.
const attemptCacheTTL = 24 * time.Hour

const upgradeDescription = "AnonChat Premium Upgrade"

// Repository описывает контракт хранилища для машины состояний.
type Repository interface {
	// FindUserByUsername возвращает пользователя по имени, false — если не найден.
	FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error)
	// SetPremium условно выставляет признак премиума, false — если строка уже премиальная.
	SetPremium(ctx context.Context, userUID string) (bool, error)
	// CreatePaymentAttempt сохраняет запись о созданной ссылке.
	CreatePaymentAttempt(ctx context.Context, attempt models.PaymentAttempt) error
	// FindPaymentAttempt возвращает попытку по идентификатору ссылки.
	FindPaymentAttempt(ctx context.Context, linkID string) (*models.PaymentAttempt, bool, error)
	// ConsumePaymentAttempt помечает попытку использованной, false — если уже помечена.
	ConsumePaymentAttempt(ctx context.Context, linkID string) (bool, error)
}

// Gateway описывает контракт платёжного шлюза.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, amount int64, currency, description, payerName string) (*paymentprovider.PaymentLink, error)
	FetchPaymentLink(ctx context.Context, linkID string) (*paymentprovider.PaymentLink, error)
}

// Cache описывает методы для кэширования незавершённых попыток.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// PremiumGrantedEvent публикуется после успешной выдачи премиума.
type PremiumGrantedEvent struct {
	UserUID   string    `json:"user_uid"`
	Username  string    `json:"username"`
	LinkID    string    `json:"link_id"`
	Amount    int64     `json:"amount"`
	GrantedAt time.Time `json:"granted_at"`
}

// EventPublisher публикует события сервиса. Может быть nil —
// тогда события не публикуются.
type EventPublisher interface {
	PremiumGranted(event PremiumGrantedEvent) error
}

// Attempt результат запуска покупки: ссылка, которую нужно оплатить.
type Attempt struct {
	LinkID   string `json:"link_id"`
	URL      string `json:"url"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Result итог подтверждения: вердикт по живому статусу шлюза.
type Result struct {
	// Status — статус ссылки, как его сообщил шлюз ("paid", "created",
	// "expired"...), либо "error", если опрос шлюза не удался.
	Status string `json:"status"`
	// Premium — признак премиума пользователя после подтверждения.
	Premium bool `json:"premium"`
}

// Service управляет покупкой премиума.
type Service struct {
	repo     Repository
	gateway  Gateway
	cache    Cache
	events   EventPublisher
	log      *slog.Logger
	price    int64
	currency string
}

// New создаёт новый Service. events может быть nil.
func New(repo Repository, gateway Gateway, cache Cache, events EventPublisher, log *slog.Logger, price int64, currency string) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		cache:    cache,
		events:   events,
		log:      log,
		price:    price,
		currency: currency,
	}
}

// Start начинает покупку премиума для пользователя.
//
// Если пользователь уже премиальный, возвращается ErrAlreadyPremium без
// единого обращения к шлюзу. Иначе у шлюза создаётся платёжная ссылка на
// настроенную цену, попытка фиксируется за пользователем, и ссылка
// возвращается для оплаты. Неудача шлюза оставляет пользователя на
// стандартном тарифе; повторный Start всегда разрешён и создаёт
// независимую попытку.
func (s *Service) Start(ctx context.Context, username string) (*Attempt, error) {
	const op = "upgrade.Start"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, found, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	if user.IsPremium {
		return nil, ErrAlreadyPremium
	}

	link, err := s.gateway.CreatePaymentLink(ctx, s.price, s.currency, upgradeDescription, username)
	if err != nil {
		return nil, fmt.Errorf("%s: create payment link: %w", op, err)
	}
	log.Info("payment link created", slog.String("link_id", link.ID))

	attempt := models.PaymentAttempt{
		LinkID:   link.ID,
		UserUID:  user.UID,
		Username: user.Username,
		Amount:   s.price,
		State:    models.AttemptStatePending,
	}
	if err := s.repo.CreatePaymentAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey(link.ID), attempt, attemptCacheTTL); err != nil {
		log.Warn("failed to cache payment attempt", sl.Err(err))
	}

	return &Attempt{
		LinkID:   link.ID,
		URL:      link.ShortURL,
		Amount:   s.price,
		Currency: s.currency,
	}, nil
}

// Confirm сверяет статус платёжной ссылки со шлюзом и при вердикте "paid"
// выдаёт премиум владельцу попытки.
//
// Статус запрашивается у шлюза заново при каждом вызове, локальный "paid"
// на веру не принимается. Ссылка обязана принадлежать подтверждающему
// пользователю. По одной ссылке премиум выдаётся не более одного раза:
// повторный Confirm по уже использованной ссылке возвращает тот же итог
// без нового обращения к шлюзу и без повторной записи.
func (s *Service) Confirm(ctx context.Context, username, linkID string) (*Result, error) {
	const op = "upgrade.Confirm"
	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
		slog.String("link_id", linkID),
	)

	attempt, err := s.loadAttempt(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if attempt.Username != username {
		log.Warn("confirm rejected: attempt owned by another user",
			slog.String("owner", attempt.Username))
		return nil, ErrNotAttemptOwner
	}

	if attempt.State == models.AttemptStateConsumed {
		log.Info("attempt already consumed, premium granted earlier")
		return &Result{Status: paymentprovider.StatusPaid, Premium: true}, nil
	}

	link, err := s.gateway.FetchPaymentLink(ctx, linkID)
	if err != nil {
		// Сбой опроса — не вердикт об оплате: выдачи нет, человек может
		// повторить подтверждение той же ссылки.
		log.Error("failed to fetch payment link status", sl.Err(err))
		return &Result{Status: "error", Premium: false}, nil
	}
	log.Info("payment link status fetched", slog.String("status", link.Status))

	if link.Status != paymentprovider.StatusPaid {
		return &Result{Status: link.Status, Premium: false}, nil
	}

	updated, err := s.repo.SetPremium(ctx, attempt.UserUID)
	if err != nil {
		// Оплата подтверждена, но запись не прошла: это не "не оплачено",
		// повторять нужно только выдачу.
		return nil, errors.Join(ErrGrantNotPersisted, err)
	}
	if updated {
		log.Info("premium granted", slog.String("user_uid", attempt.UserUID))
	} else {
		log.Info("premium flag already set, grant is a no-op")
	}

	if _, err := s.repo.ConsumePaymentAttempt(ctx, linkID); err != nil {
		// Выдача уже в базе; незакрытая попытка не даст второй выдачи
		// из-за условного SetPremium.
		log.Warn("failed to mark attempt consumed", sl.Err(err))
	}
	if err := s.cache.Invalidate(cacheKey(linkID)); err != nil {
		log.Warn("failed to invalidate attempt cache", sl.Err(err))
	}

	if s.events != nil && updated {
		event := PremiumGrantedEvent{
			UserUID:   attempt.UserUID,
			Username:  attempt.Username,
			LinkID:    linkID,
			Amount:    attempt.Amount,
			GrantedAt: time.Now().UTC(),
		}
		if err := s.events.PremiumGranted(event); err != nil {
			log.Warn("failed to publish premium granted event", sl.Err(err))
		}
	}

	return &Result{Status: paymentprovider.StatusPaid, Premium: true}, nil
}

// loadAttempt достаёт попытку из кеша, при промахе — из хранилища.
func (s *Service) loadAttempt(ctx context.Context, linkID string) (*models.PaymentAttempt, error) {
	const op = "upgrade.loadAttempt"

	var cached models.PaymentAttempt
	found, err := s.cache.Get(cacheKey(linkID), &cached)
	if err != nil {
		s.log.Warn("failed to read attempt cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	attempt, found, err := s.repo.FindPaymentAttempt(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

func cacheKey(linkID string) string {
	return "upgrade:" + linkID
}
