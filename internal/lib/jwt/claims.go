// Package jwt реализует выпуск и разбор сессионных JWT токенов.
//
// Токен выдаётся при разрешении имени пользователя и подтверждает, что
// последующие запросы выполняет именно тот, кто проходил регистрацию,
// а не произвольный носитель чужого имени.
package jwt

import (
	"time"
)

// Maker описывает интерфейс выпуска и проверки сессионных токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанным именем и UID.
	GenerateToken(username, userUID string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на основе секретного ключа и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
