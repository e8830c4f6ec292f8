package sqlstore

import (
	"context"
	"database/sql"

	"study-app/internal/economy"
)

// CreateProblem stores the problem and bumps the owner's problem counter in
// the same transaction.
func (s *Store) CreateProblem(ctx context.Context, problem economy.Problem) (economy.Problem, error) {
	problem.ID = idOrNew(problem.ID)
	problem.CreatedAt = fromUnix(s.nowUnix())

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := s.exec(ctx, tx,
			`UPDATE users
			 SET total_problems = total_problems + 1, updated_at_unix = ?
			 WHERE id = ?`,
			problem.CreatedAt.UnixNano(),
			problem.UserID,
		)
		if err != nil {
			return err
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if updated == 0 {
			return economy.ErrUserNotFound
		}

		_, err = s.exec(ctx, tx,
			`INSERT INTO problems (id, user_id, image_url, ocr_text, created_at_unix)
			 VALUES (?, ?, ?, ?, ?)`,
			problem.ID,
			problem.UserID,
			problem.ImageURL,
			problem.OCRText,
			problem.CreatedAt.UnixNano(),
		)
		return err
	})
	if err != nil {
		return economy.Problem{}, err
	}
	return problem, nil
}

func (s *Store) ListProblems(ctx context.Context, userID string) ([]economy.Problem, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT id, user_id, image_url, ocr_text, created_at_unix
		 FROM problems
		 WHERE user_id = ?
		 ORDER BY created_at_unix DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.Problem, 0)
	for rows.Next() {
		var (
			problem   economy.Problem
			createdNs int64
		)
		if err := rows.Scan(&problem.ID, &problem.UserID, &problem.ImageURL, &problem.OCRText, &createdNs); err != nil {
			return nil, err
		}
		problem.CreatedAt = fromUnix(createdNs)
		out = append(out, problem)
	}
	return out, rows.Err()
}

// SpendingTotals sums what the user has spent per entitlement kind.
func (s *Store) SpendingTotals(ctx context.Context, userID string) ([]economy.SpendingCategory, error) {
	sources := []struct {
		category string
		query    string
	}{
		{economy.SpendingSolutions, `SELECT COALESCE(SUM(tokens_spent), 0), COUNT(*) FROM user_solutions WHERE user_id = ?`},
		{economy.SpendingShopItems, `SELECT COALESCE(SUM(tokens_spent), 0), COUNT(*) FROM shop_purchases WHERE user_id = ?`},
	}

	out := make([]economy.SpendingCategory, 0, len(sources))
	for _, source := range sources {
		total := economy.SpendingCategory{Category: source.category}
		if err := s.queryRow(ctx, s.db, source.query, userID).Scan(&total.Amount, &total.Count); err != nil {
			return nil, err
		}
		out = append(out, total)
	}
	return out, nil
}
