package sqlstore

import "context"

func (s *Store) initSchema(ctx context.Context) error {
	// No foreign keys: every write path is controlled by the store's own
	// transactions, and attempts must survive a catalog row being removed.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			tokens BIGINT NOT NULL DEFAULT 100 CHECK (tokens >= 0),
			total_exercises INTEGER NOT NULL DEFAULT 0,
			total_problems INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at_unix BIGINT NOT NULL,
			updated_at_unix BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exercises (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL,
			reps INTEGER NOT NULL,
			token_reward BIGINT NOT NULL CHECK (token_reward >= 0),
			difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 3),
			estimated_time TEXT NOT NULL,
			instructions_json TEXT NOT NULL,
			created_at_unix BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_exercises (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			reps_completed INTEGER NOT NULL DEFAULT 0,
			tokens_earned BIGINT NOT NULL DEFAULT 0,
			completed_at_unix BIGINT,
			created_at_unix BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solutions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			token_cost BIGINT NOT NULL CHECK (token_cost >= 0),
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			similarity INTEGER NOT NULL CHECK (similarity BETWEEN 0 AND 100),
			created_at_unix BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_solutions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			solution_id TEXT NOT NULL,
			problem_id TEXT,
			tokens_spent BIGINT NOT NULL,
			accessed_at_unix BIGINT NOT NULL,
			UNIQUE (user_id, solution_id)
		);`,
		`CREATE TABLE IF NOT EXISTS shop_purchases (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			item_title TEXT NOT NULL,
			tokens_spent BIGINT NOT NULL,
			purchased_at_unix BIGINT NOT NULL,
			UNIQUE (user_id, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS problems (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			ocr_text TEXT NOT NULL,
			created_at_unix BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_user_exercises_user ON user_exercises(user_id, created_at_unix);`,
		`CREATE INDEX IF NOT EXISTS idx_solutions_category ON solutions(category);`,
		`CREATE INDEX IF NOT EXISTS idx_problems_user ON problems(user_id, created_at_unix);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
