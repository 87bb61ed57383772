package upgrade

import "errors"

var (
	// ErrUserNotFound — имя не зарегистрировано в хранилище.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyPremium — пользователь уже на платном тарифе;
	// новая платёжная ссылка не создаётся, чтобы не взять деньги повторно.
	ErrAlreadyPremium = errors.New("user is already premium")

	// ErrAttemptNotFound — платёжная попытка с таким идентификатором неизвестна сервису.
	ErrAttemptNotFound = errors.New("payment attempt not found")

	// ErrNotAttemptOwner — ссылка принадлежит другому пользователю.
	ErrNotAttemptOwner = errors.New("payment attempt belongs to another user")

	// ErrGrantNotPersisted — шлюз подтвердил оплату, но запись признака премиума
	// в хранилище не удалась. Повторять нужно выдачу (Confirm ещё раз), не оплату.
	ErrGrantNotPersisted = errors.New("payment confirmed but grant was not persisted")
)
