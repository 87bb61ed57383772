// Package models содержит структуры данных, общие для всех слоёв сервиса.
package models

import "time"

// User представляет учётную запись пользователя анонимного чата.
//
// Поле IsPremium меняется только в одну сторону: false -> true.
type User struct {
	UID       string    `json:"uid"`        // Уникальный идентификатор (UUID), выдаётся при регистрации
	Username  string    `json:"username"`   // Уникальное имя, ключ поиска, не меняется после создания
	IsPremium bool      `json:"is_premium"` // Признак платного тарифа
	PinHash   string    `json:"-"`          // bcrypt-хэш PIN-кода, пустая строка если PIN не задан
	CreatedAt time.Time `json:"created_at"`
}
