package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anonchat/account-service/internal/models"
)

// CreatePaymentAttempt сохраняет запись о созданной платёжной ссылке.
func (s *Storage) CreatePaymentAttempt(ctx context.Context, attempt models.PaymentAttempt) error {
	const op = "storage.CreatePaymentAttempt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_links (link_id, user_uid, username, amount, state)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		attempt.LinkID, attempt.UserUID, attempt.Username, attempt.Amount, attempt.State)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindPaymentAttempt возвращает запись о платёжной попытке по идентификатору ссылки.
// Второй результат false, если запись не найдена.
func (s *Storage) FindPaymentAttempt(ctx context.Context, linkID string) (*models.PaymentAttempt, bool, error) {
	const op = "storage.FindPaymentAttempt"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT link_id, user_uid, username, amount, state, created_at
			  FROM payment_links
			  WHERE link_id = $1`
	a := &models.PaymentAttempt{}
	row := s.DB.QueryRowContext(ctx, query, linkID)
	if err := row.Scan(&a.LinkID, &a.UserUID, &a.Username, &a.Amount, &a.State, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return a, true, nil
}

// ConsumePaymentAttempt помечает попытку использованной.
//
// Условное обновление: по одной ссылке премиум выдаётся не более одного раза,
// повторный вызов возвращает consumed=false.
func (s *Storage) ConsumePaymentAttempt(ctx context.Context, linkID string) (bool, error) {
	const op = "storage.ConsumePaymentAttempt"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_links
			  SET state = $1
			  WHERE link_id = $2 AND state = $3`
	res, err := s.DB.ExecContext(ctx, query,
		models.AttemptStateConsumed, linkID, models.AttemptStatePending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}
