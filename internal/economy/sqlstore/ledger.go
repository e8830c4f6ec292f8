package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"study-app/internal/economy"
)

// grantSolution records ownership. The (user_id, solution_id) unique
// constraint is the only duplicate guard.
func (s *Store) grantSolution(ctx context.Context, q querier, userID, solutionID, problemID string, cost int64) error {
	var problem sql.NullString
	if problemID != "" {
		problem = sql.NullString{String: problemID, Valid: true}
	}

	_, err := s.exec(ctx, q,
		`INSERT INTO user_solutions (id, user_id, solution_id, problem_id, tokens_spent, accessed_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		userID,
		solutionID,
		problem,
		cost,
		s.nowUnix(),
	)
	if isUniqueViolation(err) {
		return economy.ErrAlreadyOwned
	}
	return err
}

func (s *Store) grantShopItem(ctx context.Context, q querier, userID string, item economy.ShopItem) error {
	_, err := s.exec(ctx, q,
		`INSERT INTO shop_purchases (id, user_id, item_id, item_title, tokens_spent, purchased_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		userID,
		item.ID,
		item.Title,
		item.TokenCost,
		s.nowUnix(),
	)
	if isUniqueViolation(err) {
		return economy.ErrAlreadyOwned
	}
	return err
}

func (s *Store) GetEntitlements(ctx context.Context, userID string) (economy.Entitlements, error) {
	solutions, err := s.listSolutionEntitlements(ctx, userID)
	if err != nil {
		return economy.Entitlements{}, err
	}
	items, err := s.ListShopPurchases(ctx, userID)
	if err != nil {
		return economy.Entitlements{}, err
	}
	return economy.Entitlements{Solutions: solutions, ShopItems: items}, nil
}

func (s *Store) listSolutionEntitlements(ctx context.Context, userID string) ([]economy.SolutionEntitlement, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT id, user_id, solution_id, problem_id, tokens_spent, accessed_at_unix
		 FROM user_solutions
		 WHERE user_id = ?
		 ORDER BY accessed_at_unix DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.SolutionEntitlement, 0)
	for rows.Next() {
		var (
			entitlement economy.SolutionEntitlement
			problemID   sql.NullString
			accessedNs  int64
		)
		if err := rows.Scan(
			&entitlement.ID,
			&entitlement.UserID,
			&entitlement.SolutionID,
			&problemID,
			&entitlement.TokensSpent,
			&accessedNs,
		); err != nil {
			return nil, err
		}
		entitlement.ProblemID = problemID.String
		entitlement.AccessedAt = fromUnix(accessedNs)
		out = append(out, entitlement)
	}
	return out, rows.Err()
}

func (s *Store) ListShopPurchases(ctx context.Context, userID string) ([]economy.ShopPurchase, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT id, user_id, item_id, item_title, tokens_spent, purchased_at_unix
		 FROM shop_purchases
		 WHERE user_id = ?
		 ORDER BY purchased_at_unix DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.ShopPurchase, 0)
	for rows.Next() {
		var (
			purchase    economy.ShopPurchase
			purchasedNs int64
		)
		if err := rows.Scan(
			&purchase.ID,
			&purchase.UserID,
			&purchase.ItemID,
			&purchase.ItemTitle,
			&purchase.TokensSpent,
			&purchasedNs,
		); err != nil {
			return nil, err
		}
		purchase.PurchasedAt = fromUnix(purchasedNs)
		out = append(out, purchase)
	}
	return out, rows.Err()
}

func (s *Store) OwnsSolution(ctx context.Context, userID, solutionID string) (bool, error) {
	var count int
	if err := s.queryRow(ctx, s.db,
		`SELECT COUNT(*) FROM user_solutions WHERE user_id = ? AND solution_id = ?`,
		userID,
		solutionID,
	).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListOwnedSolutions returns the full rows, content included, of every
// solution the user has unlocked.
func (s *Store) ListOwnedSolutions(ctx context.Context, userID string) ([]economy.Solution, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT s.id, s.title, s.description, s.difficulty, s.token_cost, s.content,
			s.category, s.similarity, s.created_at_unix
		 FROM user_solutions us
		 JOIN solutions s ON s.id = us.solution_id
		 WHERE us.user_id = ?
		 ORDER BY us.accessed_at_unix DESC, s.id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.Solution, 0)
	for rows.Next() {
		solution, err := scanSolution(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, solution)
	}
	return out, rows.Err()
}
