package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/anonchat/account-service/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, pinHash string, isPremium bool) string {
	uid := uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, is_premium, pin_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''))`,
		uid, username, isPremium, pinHash)
	require.NoError(t, err)
	return uid
}

// CreateAttempt создает тестовую платёжную попытку
func (f *TestDataFactory) CreateAttempt(t *testing.T, linkID, userUID, username string, amount int64, state string) {
	_, err := f.storage.DB.Exec(`INSERT INTO payment_links (link_id, user_uid, username, amount, state)
		VALUES ($1, $2, $3, $4, $5)`,
		linkID, userUID, username, amount, state)
	require.NoError(t, err)
}

// AttemptState читает состояние платёжной попытки напрямую из таблицы
func (f *TestDataFactory) AttemptState(t *testing.T, linkID string) string {
	var state string
	err := f.storage.DB.QueryRow(`SELECT state FROM payment_links WHERE link_id = $1`, linkID).Scan(&state)
	require.NoError(t, err)
	return state
}

// UserPremium читает признак премиума напрямую из таблицы
func (f *TestDataFactory) UserPremium(t *testing.T, uid string) bool {
	var isPremium bool
	err := f.storage.DB.QueryRow(`SELECT is_premium FROM users WHERE uid = $1`, uid).Scan(&isPremium)
	require.NoError(t, err)
	return isPremium
}

// PendingAttempt возвращает попытку в состоянии pending для тестов
func PendingAttempt(linkID, userUID, username string, amount int64) models.PaymentAttempt {
	return models.PaymentAttempt{
		LinkID:   linkID,
		UserUID:  userUID,
		Username: username,
		Amount:   amount,
		State:    models.AttemptStatePending,
	}
}
