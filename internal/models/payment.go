package models

import "time"

// Состояния записи о платёжной попытке в хранилище.
const (
	// AttemptStatePending — ссылка создана, подтверждение ещё не получено.
	AttemptStatePending = "pending"
	// AttemptStateConsumed — по ссылке уже выдан премиум, повторная выдача невозможна.
	AttemptStateConsumed = "consumed"
)

// PaymentAttempt описывает одну попытку покупки премиума: платёжную ссылку,
// выданную шлюзом, и её владельца. Запись нужна для проверки принадлежности
// ссылки при подтверждении и для защиты от повторной выдачи.
//
// Актуальный статус оплаты здесь не хранится — он всегда запрашивается у шлюза.
type PaymentAttempt struct {
	LinkID    string    `json:"link_id"`  // Идентификатор ссылки, выданный шлюзом
	UserUID   string    `json:"user_uid"` // Владелец попытки
	Username  string    `json:"username"`
	Amount    int64     `json:"amount"` // Цена в минорных единицах валюты
	State     string    `json:"state"`  // pending | consumed
	CreatedAt time.Time `json:"created_at"`
}

// AdminStats агрегированная статистика для административной панели.
type AdminStats struct {
	TotalUsers   int   `json:"total_users"`
	PremiumUsers int   `json:"premium_users"`
	Revenue      int64 `json:"revenue"` // premium_users * цена, в основных единицах валюты
}
