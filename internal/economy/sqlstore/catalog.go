package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"study-app/internal/economy"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const exerciseColumns = `id, name, description, reps, token_reward, difficulty,
	estimated_time, instructions_json, created_at_unix`

func (s *Store) ListExercises(ctx context.Context) ([]economy.Exercise, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 ORDER BY difficulty ASC, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exercise)
	}
	return out, rows.Err()
}

func (s *Store) GetExercise(ctx context.Context, exerciseID string) (economy.Exercise, error) {
	exercise, err := scanExercise(s.queryRow(ctx, s.db,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`,
		exerciseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return economy.Exercise{}, economy.ErrExerciseNotFound
	}
	return exercise, err
}

func scanExercise(row rowScanner) (economy.Exercise, error) {
	var (
		exercise         economy.Exercise
		instructionsJSON string
		createdNs        int64
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.Description,
		&exercise.Reps,
		&exercise.TokenReward,
		&exercise.Difficulty,
		&exercise.EstimatedTime,
		&instructionsJSON,
		&createdNs,
	); err != nil {
		return economy.Exercise{}, err
	}
	if err := json.Unmarshal([]byte(instructionsJSON), &exercise.Instructions); err != nil {
		return economy.Exercise{}, fmt.Errorf("decode instructions for exercise %s: %w", exercise.ID, err)
	}
	exercise.CreatedAt = fromUnix(createdNs)
	return exercise, nil
}

// ListSolutions never selects the content column. An empty category lists
// the whole catalog.
func (s *Store) ListSolutions(ctx context.Context, category string) ([]economy.Solution, error) {
	query := `SELECT id, title, description, difficulty, token_cost, category, similarity, created_at_unix
		 FROM solutions`
	args := make([]any, 0, 1)
	if category = strings.TrimSpace(category); category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY similarity DESC, title ASC`

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]economy.Solution, 0)
	for rows.Next() {
		solution, err := scanSolution(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, solution)
	}
	return out, rows.Err()
}

func (s *Store) GetSolution(ctx context.Context, solutionID string) (economy.Solution, error) {
	solution, err := scanSolution(s.queryRow(ctx, s.db,
		`SELECT id, title, description, difficulty, token_cost, content, category, similarity, created_at_unix
		 FROM solutions WHERE id = ?`,
		solutionID,
	), true)
	if errors.Is(err, sql.ErrNoRows) {
		return economy.Solution{}, economy.ErrSolutionNotFound
	}
	return solution, err
}

func scanSolution(row rowScanner, withContent bool) (economy.Solution, error) {
	var (
		solution  economy.Solution
		createdNs int64
	)
	dest := []any{
		&solution.ID,
		&solution.Title,
		&solution.Description,
		&solution.Difficulty,
		&solution.TokenCost,
	}
	if withContent {
		dest = append(dest, &solution.Content)
	}
	dest = append(dest, &solution.Category, &solution.Similarity, &createdNs)

	if err := row.Scan(dest...); err != nil {
		return economy.Solution{}, err
	}
	solution.CreatedAt = fromUnix(createdNs)
	return solution, nil
}

// SeedCatalog inserts exercises and solutions keyed by their natural unique
// names. Existing rows are left as they are, so seeding twice is harmless.
func (s *Store) SeedCatalog(ctx context.Context, exercises []economy.Exercise, solutions []economy.Solution) (economy.SeedReport, error) {
	var report economy.SeedReport
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.nowUnix()

		for _, exercise := range exercises {
			instructions := exercise.Instructions
			if instructions == nil {
				instructions = []string{}
			}
			instructionsJSON, err := json.Marshal(instructions)
			if err != nil {
				return err
			}

			result, err := s.exec(ctx, tx,
				`INSERT INTO exercises (id, name, description, reps, token_reward, difficulty,
					estimated_time, instructions_json, created_at_unix)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (name) DO NOTHING`,
				idOrNew(exercise.ID),
				exercise.Name,
				exercise.Description,
				exercise.Reps,
				exercise.TokenReward,
				exercise.Difficulty,
				exercise.EstimatedTime,
				string(instructionsJSON),
				now,
			)
			if err != nil {
				return fmt.Errorf("seed exercise %q: %w", exercise.Name, err)
			}
			inserted, err := result.RowsAffected()
			if err != nil {
				return err
			}
			report.ExercisesInserted += int(inserted)
		}

		for _, solution := range solutions {
			result, err := s.exec(ctx, tx,
				`INSERT INTO solutions (id, title, description, difficulty, token_cost, content,
					category, similarity, created_at_unix)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (title) DO NOTHING`,
				idOrNew(solution.ID),
				solution.Title,
				solution.Description,
				solution.Difficulty,
				solution.TokenCost,
				solution.Content,
				solution.Category,
				solution.Similarity,
				now,
			)
			if err != nil {
				return fmt.Errorf("seed solution %q: %w", solution.Title, err)
			}
			inserted, err := result.RowsAffected()
			if err != nil {
				return err
			}
			report.SolutionsInserted += int(inserted)
		}
		return nil
	})
	if err != nil {
		return economy.SeedReport{}, err
	}
	return report, nil
}

func idOrNew(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.NewString()
}
