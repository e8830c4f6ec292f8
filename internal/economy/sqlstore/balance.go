package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"study-app/internal/economy"
)

// credit adds amount to the balance and bumps the completed-exercise counter.
// A missing row inside a completion means the store is inconsistent.
func (s *Store) credit(ctx context.Context, q querier, userID string, amount int64, exercises int) (int64, error) {
	var balance int64
	err := s.queryRow(ctx, q,
		`UPDATE users
		 SET tokens = tokens + ?, total_exercises = total_exercises + ?, updated_at_unix = ?
		 WHERE id = ?
		 RETURNING tokens`,
		amount,
		exercises,
		s.nowUnix(),
		userID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, economy.ErrUserNotFound
	}
	return balance, err
}

// conditionalDebit subtracts amount only if the balance covers it, in a
// single statement. ok is false when no row matched.
func (s *Store) conditionalDebit(ctx context.Context, q querier, userID string, amount int64) (balance int64, ok bool, err error) {
	err = s.queryRow(ctx, q,
		`UPDATE users
		 SET tokens = tokens - ?, updated_at_unix = ?
		 WHERE id = ? AND tokens >= ?
		 RETURNING tokens`,
		amount,
		s.nowUnix(),
		userID,
		amount,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// debit wraps conditionalDebit and names the failure. The follow-up read only
// classifies; it never decides whether the debit happens.
func (s *Store) debit(ctx context.Context, q querier, userID string, amount int64) (int64, error) {
	balance, ok, err := s.conditionalDebit(ctx, q, userID, amount)
	if err != nil {
		return 0, err
	}
	if ok {
		return balance, nil
	}

	var current int64
	err = s.queryRow(ctx, q, `SELECT tokens FROM users WHERE id = ?`, userID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, economy.ErrUserNotFound
	case err != nil:
		return 0, err
	default:
		return 0, economy.ErrInsufficientFunds
	}
}
