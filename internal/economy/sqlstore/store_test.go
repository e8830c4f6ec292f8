package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-app/internal/economy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()

	store := newTestStore(t)
	_, err := store.SeedCatalog(context.Background(), economy.SeedExercises(), economy.SeedSolutions())
	require.NoError(t, err)
	return store
}

func createUser(t *testing.T, store *Store, tokens int64) string {
	t.Helper()

	userID := uuid.NewString()
	_, err := store.EnsureUser(context.Background(), economy.User{
		ID:    userID,
		Email: userID + "@example.test",
	})
	require.NoError(t, err)
	if tokens != economy.StartingTokens {
		setBalance(t, store, userID, tokens)
	}
	return userID
}

func setBalance(t *testing.T, store *Store, userID string, tokens int64) {
	t.Helper()
	_, err := store.db.Exec(store.dialect.rebind(`UPDATE users SET tokens = ? WHERE id = ?`), tokens, userID)
	require.NoError(t, err)
}

func balanceOf(t *testing.T, store *Store, userID string) int64 {
	t.Helper()
	user, err := store.GetUser(context.Background(), userID)
	require.NoError(t, err)
	return user.Tokens
}

func exerciseByName(t *testing.T, store *Store, name string) economy.Exercise {
	t.Helper()
	exercises, err := store.ListExercises(context.Background())
	require.NoError(t, err)
	for _, exercise := range exercises {
		if exercise.Name == name {
			return exercise
		}
	}
	t.Fatalf("exercise %q not seeded", name)
	return economy.Exercise{}
}

func solutionByTitle(t *testing.T, store *Store, title string) economy.Solution {
	t.Helper()
	solutions, err := store.ListSolutions(context.Background(), "")
	require.NoError(t, err)
	for _, solution := range solutions {
		if solution.Title == title {
			return solution
		}
	}
	t.Fatalf("solution %q not seeded", title)
	return economy.Solution{}
}

func countRows(t *testing.T, store *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow(store.dialect.rebind(query), args...).Scan(&n))
	return n
}

func TestOpenRejectsUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")

	_, err = Open(DriverPostgres, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn is required")
}

func TestEnsureUserKeepsExistingBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	userID := uuid.NewString()
	user, err := store.EnsureUser(ctx, economy.User{ID: userID, Email: "a@example.test", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(economy.StartingTokens), user.Tokens)
	assert.Equal(t, "Ada", user.FirstName)

	setBalance(t, store, userID, 42)

	again, err := store.EnsureUser(ctx, economy.User{ID: userID, Email: "a@example.test"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), again.Tokens)
	assert.Equal(t, "Ada", again.FirstName)

	_, err = store.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, economy.ErrUserNotFound)
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report, err := store.SeedCatalog(ctx, economy.SeedExercises(), economy.SeedSolutions())
	require.NoError(t, err)
	assert.Equal(t, len(economy.SeedExercises()), report.ExercisesInserted)
	assert.Equal(t, len(economy.SeedSolutions()), report.SolutionsInserted)

	report, err = store.SeedCatalog(ctx, economy.SeedExercises(), economy.SeedSolutions())
	require.NoError(t, err)
	assert.Zero(t, report.ExercisesInserted)
	assert.Zero(t, report.SolutionsInserted)

	exercises, err := store.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, exercises, len(economy.SeedExercises()))

	pushUps := exerciseByName(t, store, "Push-ups")
	got, err := store.GetExercise(ctx, pushUps.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.TokenReward)
	assert.Len(t, got.Instructions, 4)

	_, err = store.GetExercise(ctx, uuid.NewString())
	assert.ErrorIs(t, err, economy.ErrExerciseNotFound)
}

func TestListSolutionsOmitsContent(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	solutions, err := store.ListSolutions(ctx, "algebra")
	require.NoError(t, err)
	require.Len(t, solutions, 3)
	for _, solution := range solutions {
		assert.Empty(t, solution.Content)
	}
	// highest similarity first
	assert.Equal(t, "Quadratic Equation Solution", solutions[0].Title)

	none, err := store.ListSolutions(ctx, "geometry")
	require.NoError(t, err)
	assert.Empty(t, none)

	full, err := store.GetSolution(ctx, solutions[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, full.Content)

	_, err = store.GetSolution(ctx, uuid.NewString())
	assert.ErrorIs(t, err, economy.ErrSolutionNotFound)
}

func TestCompleteExerciseCreditsCatalogReward(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)
	pike := exerciseByName(t, store, "Pike Push-ups")
	require.Equal(t, int64(15), pike.TokenReward)

	attempt, err := store.StartExercise(ctx, userID, pike.ID)
	require.NoError(t, err)
	assert.False(t, attempt.Completed)

	result, err := store.CompleteExercise(ctx, userID, attempt.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(15), result.TokensEarned)
	assert.Equal(t, int64(115), result.NewBalance)
	assert.True(t, result.Attempt.Completed)
	assert.Equal(t, int64(15), result.Attempt.TokensEarned)
	assert.Equal(t, 8, result.Attempt.RepsCompleted)
	require.NotNil(t, result.Attempt.CompletedAt)

	attempts, err := store.ListAttempts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Completed)
	assert.Equal(t, int64(15), attempts[0].TokensEarned)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(115), user.Tokens)
	assert.Equal(t, 1, user.TotalExercises)
}

func TestCompleteExerciseRejectsRepeatAndForeignAttempts(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	owner := createUser(t, store, 100)
	other := createUser(t, store, 100)
	squats := exerciseByName(t, store, "Squats")

	attempt, err := store.StartExercise(ctx, owner, squats.ID)
	require.NoError(t, err)

	_, err = store.CompleteExercise(ctx, other, attempt.ID, 15)
	assert.ErrorIs(t, err, economy.ErrNotFoundOrAlreadyCompleted)
	assert.Equal(t, int64(100), balanceOf(t, store, other))

	_, err = store.CompleteExercise(ctx, owner, attempt.ID, 15)
	require.NoError(t, err)

	_, err = store.CompleteExercise(ctx, owner, attempt.ID, 15)
	assert.ErrorIs(t, err, economy.ErrNotFoundOrAlreadyCompleted)
	assert.Equal(t, int64(112), balanceOf(t, store, owner))

	_, err = store.CompleteExercise(ctx, owner, uuid.NewString(), 1)
	assert.ErrorIs(t, err, economy.ErrNotFoundOrAlreadyCompleted)
}

func TestStartExerciseRequiresCatalogEntry(t *testing.T) {
	store := newSeededStore(t)
	userID := createUser(t, store, 100)

	_, err := store.StartExercise(context.Background(), userID, uuid.NewString())
	assert.ErrorIs(t, err, economy.ErrExerciseNotFound)
	assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM user_exercises`))
}

func TestCompleteExerciseMissingCatalogRollsBack(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)
	plank := exerciseByName(t, store, "Plank")

	attempt, err := store.StartExercise(ctx, userID, plank.ID)
	require.NoError(t, err)

	_, err = store.db.Exec(`DELETE FROM exercises WHERE id = ?`, plank.ID)
	require.NoError(t, err)

	_, err = store.CompleteExercise(ctx, userID, attempt.ID, 30)
	assert.ErrorIs(t, err, economy.ErrExerciseCatalogMissing)

	attempts, err := store.ListAttempts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Completed, "attempt transition must roll back")
	assert.Nil(t, attempts[0].CompletedAt)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Tokens)
	assert.Zero(t, user.TotalExercises)
}

func TestPurchaseSolutionDebitsOnce(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)
	solution := solutionByTitle(t, store, "Quadratic Equation Solution")
	problemID := uuid.NewString()

	result, err := store.PurchaseSolution(ctx, userID, solution.ID, problemID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), result.NewBalance)
	assert.Equal(t, int64(10), result.TokensSpent)

	_, err = store.PurchaseSolution(ctx, userID, solution.ID, "")
	assert.ErrorIs(t, err, economy.ErrAlreadyOwned)
	assert.Equal(t, int64(90), balanceOf(t, store, userID))

	owned, err := store.OwnsSolution(ctx, userID, solution.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	entitlements, err := store.GetEntitlements(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entitlements.Solutions, 1)
	assert.Equal(t, problemID, entitlements.Solutions[0].ProblemID)
	assert.Equal(t, int64(10), entitlements.Solutions[0].TokensSpent)
	assert.Empty(t, entitlements.ShopItems)

	ownedSolutions, err := store.ListOwnedSolutions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, ownedSolutions, 1)
	assert.NotEmpty(t, ownedSolutions[0].Content)
}

func TestPurchaseSolutionInsufficientFunds(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 5)
	solution := solutionByTitle(t, store, "Quadratic Equation Solution")

	_, err := store.PurchaseSolution(ctx, userID, solution.ID, "")
	assert.ErrorIs(t, err, economy.ErrInsufficientFunds)
	assert.Equal(t, int64(5), balanceOf(t, store, userID))
	assert.Zero(t, countRows(t, store, `SELECT COUNT(*) FROM user_solutions WHERE user_id = ?`, userID))
}

func TestPurchaseSolutionOwnedBelowCostReportsAlreadyOwned(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 15)
	solution := solutionByTitle(t, store, "Quadratic Equation Solution")

	result, err := store.PurchaseSolution(ctx, userID, solution.ID, "")
	require.NoError(t, err)
	require.Equal(t, int64(5), result.NewBalance)

	_, err = store.PurchaseSolution(ctx, userID, solution.ID, "")
	assert.ErrorIs(t, err, economy.ErrAlreadyOwned)
	assert.Equal(t, int64(5), balanceOf(t, store, userID))
	assert.Equal(t, 1, countRows(t, store, `SELECT COUNT(*) FROM user_solutions WHERE user_id = ?`, userID))

	other := solutionByTitle(t, store, "Basic Quadratic Concepts")
	_, err = store.PurchaseSolution(ctx, userID, other.ID, "")
	assert.ErrorIs(t, err, economy.ErrInsufficientFunds)
	assert.Equal(t, 1, countRows(t, store, `SELECT COUNT(*) FROM user_solutions WHERE user_id = ?`, userID))
}

func TestPurchaseSolutionUnknownReferences(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	solution := solutionByTitle(t, store, "Basic Quadratic Concepts")

	_, err := store.PurchaseSolution(ctx, uuid.NewString(), solution.ID, "")
	assert.ErrorIs(t, err, economy.ErrUserNotFound)

	userID := createUser(t, store, 100)
	_, err = store.PurchaseSolution(ctx, userID, uuid.NewString(), "")
	assert.ErrorIs(t, err, economy.ErrSolutionNotFound)
	assert.Equal(t, int64(100), balanceOf(t, store, userID))
}

func TestPurchaseShopItemTwice(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 50)
	item, ok := economy.LookupShopItem("2")
	require.True(t, ok)
	require.Equal(t, int64(30), item.TokenCost)

	result, err := store.PurchaseShopItem(ctx, userID, item)
	require.NoError(t, err)
	assert.Equal(t, int64(20), result.NewBalance)

	_, err = store.PurchaseShopItem(ctx, userID, item)
	assert.ErrorIs(t, err, economy.ErrAlreadyOwned)
	assert.Equal(t, int64(20), balanceOf(t, store, userID))

	purchases, err := store.ListShopPurchases(ctx, userID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Avatar Skin", purchases[0].ItemTitle)

	expensive, _ := economy.LookupShopItem("1")
	_, err = store.PurchaseShopItem(ctx, userID, expensive)
	assert.ErrorIs(t, err, economy.ErrInsufficientFunds)
	assert.Equal(t, int64(20), balanceOf(t, store, userID))
}

func TestCreateProblemCountsPerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)

	first, err := store.CreateProblem(ctx, economy.Problem{UserID: userID, OCRText: "x^2 - 5x + 6 = 0"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = store.CreateProblem(ctx, economy.Problem{UserID: userID, OCRText: "2x + 3 = 7", ImageURL: "https://img.example/1.png"})
	require.NoError(t, err)

	problems, err := store.ListProblems(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, problems, 2)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, user.TotalProblems)

	_, err = store.CreateProblem(ctx, economy.Problem{UserID: uuid.NewString(), OCRText: "orphan"})
	assert.ErrorIs(t, err, economy.ErrUserNotFound)
	assert.Equal(t, 2, countRows(t, store, `SELECT COUNT(*) FROM problems`))
}

func TestSpendingTotalsAndCompletedAttempts(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "stats.db")
	store, err := Open(DriverSQLite, path, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err = store.SeedCatalog(ctx, economy.SeedExercises(), economy.SeedSolutions())
	require.NoError(t, err)
	userID := createUser(t, store, 100)

	burpees := exerciseByName(t, store, "Burpees")
	attempt, err := store.StartExercise(ctx, userID, burpees.ID)
	require.NoError(t, err)
	_, err = store.CompleteExercise(ctx, userID, attempt.ID, 8)
	require.NoError(t, err)

	solution := solutionByTitle(t, store, "Advanced Quadratic Methods")
	_, err = store.PurchaseSolution(ctx, userID, solution.ID, "")
	require.NoError(t, err)

	totals, err := store.SpendingTotals(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []economy.SpendingCategory{
		{Category: economy.SpendingSolutions, Amount: 15, Count: 1},
		{Category: economy.SpendingShopItems, Amount: 0, Count: 0},
	}, totals)

	completed, err := store.CompletedAttempts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Burpees", completed[0].ExerciseName)
	assert.Equal(t, int64(25), completed[0].TokensEarned)
	assert.True(t, completed[0].CompletedAt.Equal(now))

	_, err = store.db.Exec(`DELETE FROM exercises WHERE id = ?`, burpees.ID)
	require.NoError(t, err)
	completed, err = store.CompletedAttempts(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, completed, "completions of removed exercises are not reported")
}
