// Package password реализует хеширование и проверку PIN-кодов учётных записей.
//
// Имя в анонимном чате объявляется самим пользователем, поэтому запись можно
// защитить PIN-кодом: GetHash создаёт bcrypt-хэш для хранения, CompareHash
// сверяет введённый PIN с хэшем.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает PIN и возвращает его bcrypt-хэш для хранения в базе.
func GetHash(pin string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым PIN.
//
// Возвращает nil при совпадении, иначе ошибку.
func CompareHash(originalHash, externalPin string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPin)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
