package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"study-app/internal/economy"
)

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// CompleteExercise runs the completion recipe in one transaction:
//   - flip the attempt to completed, conditionally on it still being started
//   - read the reward from the catalog row
//   - stamp the reward on the attempt
//   - credit the balance
//
// Any failure rolls back the whole unit, so a user is paid at most once per
// attempt and only the catalog reward.
func (s *Store) CompleteExercise(ctx context.Context, userID, attemptID string, repsCompleted int) (economy.CompletionResult, error) {
	var result economy.CompletionResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		attempt, err := s.completeAttempt(ctx, tx, userID, attemptID, repsCompleted)
		if err != nil {
			return err
		}

		var reward int64
		err = s.queryRow(ctx, tx, `SELECT token_reward FROM exercises WHERE id = ?`, attempt.ExerciseID).Scan(&reward)
		if errors.Is(err, sql.ErrNoRows) {
			return economy.ErrExerciseCatalogMissing
		}
		if err != nil {
			return err
		}

		if err := s.stampTokensEarned(ctx, tx, attempt.ID, reward); err != nil {
			return err
		}
		balance, err := s.credit(ctx, tx, userID, reward, 1)
		if err != nil {
			return err
		}

		attempt.TokensEarned = reward
		result = economy.CompletionResult{
			Attempt:      attempt,
			TokensEarned: reward,
			NewBalance:   balance,
		}
		return nil
	})
	if err != nil {
		return economy.CompletionResult{}, err
	}
	return result, nil
}

// PurchaseSolution grants the solution and debits the catalog cost in one
// transaction. The grant goes first so an owner is told AlreadyOwned even
// when the balance no longer covers the cost; a failed debit rolls the grant
// back.
func (s *Store) PurchaseSolution(ctx context.Context, userID, solutionID, problemID string) (economy.PurchaseResult, error) {
	var result economy.PurchaseResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var cost int64
		err := s.queryRow(ctx, tx, `SELECT token_cost FROM solutions WHERE id = ?`, solutionID).Scan(&cost)
		if errors.Is(err, sql.ErrNoRows) {
			return economy.ErrSolutionNotFound
		}
		if err != nil {
			return err
		}

		if err := s.grantSolution(ctx, tx, userID, solutionID, problemID, cost); err != nil {
			return err
		}
		balance, err := s.debit(ctx, tx, userID, cost)
		if err != nil {
			return err
		}

		result = economy.PurchaseResult{NewBalance: balance, TokensSpent: cost}
		return nil
	})
	if err != nil {
		return economy.PurchaseResult{}, err
	}
	return result, nil
}

// PurchaseShopItem has the same shape as PurchaseSolution. The price comes
// from item, which the service resolves from the server-side catalog.
func (s *Store) PurchaseShopItem(ctx context.Context, userID string, item economy.ShopItem) (economy.PurchaseResult, error) {
	var result economy.PurchaseResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.grantShopItem(ctx, tx, userID, item); err != nil {
			return err
		}
		balance, err := s.debit(ctx, tx, userID, item.TokenCost)
		if err != nil {
			return err
		}

		result = economy.PurchaseResult{NewBalance: balance, TokensSpent: item.TokenCost}
		return nil
	})
	if err != nil {
		return economy.PurchaseResult{}, err
	}
	return result, nil
}
