package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"study-app/internal/economy"
)

const userColumns = `id, email, first_name, last_name, profile_image_url, tokens,
	total_exercises, total_problems, streak, created_at_unix, updated_at_unix`

// EnsureUser inserts user if no row with its id exists and returns the stored
// row. An existing balance is never reset.
func (s *Store) EnsureUser(ctx context.Context, user economy.User) (economy.User, error) {
	tokens := user.Tokens
	if tokens <= 0 {
		tokens = economy.StartingTokens
	}
	now := s.nowUnix()

	if _, err := s.exec(ctx, s.db,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url, tokens,
			total_exercises, total_problems, streak, created_at_unix, updated_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		tokens,
		now,
		now,
	); err != nil {
		return economy.User{}, err
	}

	return s.GetUser(ctx, user.ID)
}

func (s *Store) GetUser(ctx context.Context, userID string) (economy.User, error) {
	user, err := scanUser(s.queryRow(ctx, s.db,
		`SELECT `+userColumns+` FROM users WHERE id = ?`,
		userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return economy.User{}, economy.ErrUserNotFound
	}
	return user, err
}

func scanUser(row *sql.Row) (economy.User, error) {
	var (
		user      economy.User
		createdNs int64
		updatedNs int64
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.ProfileImageURL,
		&user.Tokens,
		&user.TotalExercises,
		&user.TotalProblems,
		&user.Streak,
		&createdNs,
		&updatedNs,
	); err != nil {
		return economy.User{}, err
	}
	user.CreatedAt = fromUnix(createdNs)
	user.UpdatedAt = fromUnix(updatedNs)
	return user, nil
}
