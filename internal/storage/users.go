package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anonchat/account-service/internal/models"
)

// FindUserByUsername возвращает пользователя по имени.
// Второй результат false, если пользователь не найден.
func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	const op = "storage.FindUserByUsername"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, is_premium, pin_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	var pinHash sql.NullString
	if err := row.Scan(&u.UID, &u.Username, &u.IsPremium, &pinHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if pinHash.Valid {
		u.PinHash = pinHash.String
	}
	return u, true, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Новая запись всегда создаётся со сброшенным признаком премиума.
func (s *Storage) CreateUser(ctx context.Context, username, pinHash string) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, pin_hash)
			  VALUES ($1, NULLIF($2, ''))
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query, username, pinHash).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// SetPremium выставляет признак премиума для пользователя.
//
// Обновление условное: повторный вызов для уже премиального пользователя
// не меняет строку и возвращает updated=false. Это единственная операция,
// меняющая is_premium, и только в сторону true.
func (s *Storage) SetPremium(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.SetPremium"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = TRUE
			  WHERE uid = $1 AND is_premium = FALSE`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// CountAllUsers возвращает общее количество пользователей.
func (s *Storage) CountAllUsers(ctx context.Context) (int, error) {
	const op = "storage.CountAllUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CountPremiumUsers возвращает количество премиальных пользователей.
func (s *Storage) CountPremiumUsers(ctx context.Context) (int, error) {
	const op = "storage.CountPremiumUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_premium = TRUE`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
