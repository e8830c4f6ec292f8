package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"study-app/internal/economy"
)

// StartExercise records a new attempt in the started state. The exercise
// must exist in the catalog at this point.
func (s *Store) StartExercise(ctx context.Context, userID, exerciseID string) (economy.Attempt, error) {
	attempt := economy.Attempt{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExerciseID: exerciseID,
		CreatedAt:  fromUnix(s.nowUnix()),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := s.queryRow(ctx, tx, `SELECT 1 FROM exercises WHERE id = ?`, exerciseID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return economy.ErrExerciseNotFound
		}
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, tx,
			`INSERT INTO user_exercises (id, user_id, exercise_id, completed, reps_completed,
				tokens_earned, completed_at_unix, created_at_unix)
			 VALUES (?, ?, ?, 0, 0, 0, NULL, ?)`,
			attempt.ID,
			attempt.UserID,
			attempt.ExerciseID,
			attempt.CreatedAt.UnixNano(),
		)
		return err
	})
	if err != nil {
		return economy.Attempt{}, err
	}
	return attempt, nil
}

// completeAttempt flips a started attempt owned by userID to completed. Zero
// matching rows covers a missing attempt, a foreign attempt and a repeat
// completion alike, and all three are reported the same way.
func (s *Store) completeAttempt(ctx context.Context, q querier, userID, attemptID string, reps int) (economy.Attempt, error) {
	completedNs := s.nowUnix()
	attempt := economy.Attempt{
		ID:            attemptID,
		UserID:        userID,
		Completed:     true,
		RepsCompleted: reps,
	}

	var createdNs int64
	err := s.queryRow(ctx, q,
		`UPDATE user_exercises
		 SET completed = 1, reps_completed = ?, completed_at_unix = ?
		 WHERE id = ? AND user_id = ? AND completed = 0
		 RETURNING exercise_id, created_at_unix`,
		reps,
		completedNs,
		attemptID,
		userID,
	).Scan(&attempt.ExerciseID, &createdNs)
	if errors.Is(err, sql.ErrNoRows) {
		return economy.Attempt{}, economy.ErrNotFoundOrAlreadyCompleted
	}
	if err != nil {
		return economy.Attempt{}, err
	}

	completedAt := fromUnix(completedNs)
	attempt.CompletedAt = &completedAt
	attempt.CreatedAt = fromUnix(createdNs)
	return attempt, nil
}

func (s *Store) stampTokensEarned(ctx context.Context, q querier, attemptID string, tokens int64) error {
	_, err := s.exec(ctx, q,
		`UPDATE user_exercises SET tokens_earned = ? WHERE id = ?`,
		tokens,
		attemptID,
	)
	return err
}

// ListAttempts returns the user's attempts, newest first.
func (s *Store) ListAttempts(ctx context.Context, userID string) ([]economy.Attempt, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT id, user_id, exercise_id, completed, reps_completed, tokens_earned,
			completed_at_unix, created_at_unix
		 FROM user_exercises
		 WHERE user_id = ?
		 ORDER BY created_at_unix DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.Attempt, 0)
	for rows.Next() {
		var (
			attempt     economy.Attempt
			completed   int
			completedNs sql.NullInt64
			createdNs   int64
		)
		if err := rows.Scan(
			&attempt.ID,
			&attempt.UserID,
			&attempt.ExerciseID,
			&completed,
			&attempt.RepsCompleted,
			&attempt.TokensEarned,
			&completedNs,
			&createdNs,
		); err != nil {
			return nil, err
		}
		attempt.Completed = completed == 1
		if completedNs.Valid {
			completedAt := fromUnix(completedNs.Int64)
			attempt.CompletedAt = &completedAt
		}
		attempt.CreatedAt = fromUnix(createdNs)
		out = append(out, attempt)
	}
	return out, rows.Err()
}

// CompletedAttempts feeds the statistics view. Attempts whose exercise row is
// gone are left out.
func (s *Store) CompletedAttempts(ctx context.Context, userID string) ([]economy.CompletedAttempt, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT ue.exercise_id, e.name, ue.tokens_earned, ue.completed_at_unix
		 FROM user_exercises ue
		 JOIN exercises e ON e.id = ue.exercise_id
		 WHERE ue.user_id = ? AND ue.completed = 1
		 ORDER BY ue.completed_at_unix ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.CompletedAttempt, 0)
	for rows.Next() {
		var (
			completion  economy.CompletedAttempt
			completedNs int64
		)
		if err := rows.Scan(
			&completion.ExerciseID,
			&completion.ExerciseName,
			&completion.TokensEarned,
			&completedNs,
		); err != nil {
			return nil, err
		}
		completion.CompletedAt = fromUnix(completedNs)
		out = append(out, completion)
	}
	return out, rows.Err()
}
