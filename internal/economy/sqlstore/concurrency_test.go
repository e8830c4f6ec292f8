package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-app/internal/economy"
)

const racers = 12

func TestConcurrentCompletionPaysOnce(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)
	burpees := exerciseByName(t, store, "Burpees")

	attempt, err := store.StartExercise(ctx, userID, burpees.ID)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.CompleteExercise(ctx, userID, attempt.ID, 8)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, economy.ErrNotFoundOrAlreadyCompleted):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, conflicts)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(125), user.Tokens)
	assert.Equal(t, 1, user.TotalExercises)
}

func TestConcurrentDuplicatePurchaseGrantsOnce(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)
	solution := solutionByTitle(t, store, "Basic Quadratic Concepts")
	item, _ := economy.LookupShopItem("3")

	var (
		wg                   sync.WaitGroup
		mu                   sync.Mutex
		solutionOK, itemOK   int
		solutionDup, itemDup int
		unexpected           []error
	)
	record := func(err error, ok, dup *int) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			*ok++
		case errors.Is(err, economy.ErrAlreadyOwned):
			*dup++
		default:
			unexpected = append(unexpected, err)
		}
	}

	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.PurchaseSolution(ctx, userID, solution.ID, "")
			record(err, &solutionOK, &solutionDup)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, err := store.PurchaseShopItem(ctx, userID, item)
			record(err, &itemOK, &itemDup)
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 1, solutionOK)
	assert.Equal(t, racers-1, solutionDup)
	assert.Equal(t, 1, itemOK)
	assert.Equal(t, racers-1, itemDup)

	// 100 - 8 (solution) - 20 (theme); losers are refunded by rollback
	assert.Equal(t, int64(72), balanceOf(t, store, userID))
	assert.Equal(t, 1, countRows(t, store, `SELECT COUNT(*) FROM user_solutions WHERE user_id = ?`, userID))
	assert.Equal(t, 1, countRows(t, store, `SELECT COUNT(*) FROM shop_purchases WHERE user_id = ?`, userID))
}

func TestConcurrentPurchasesNeverOverdraw(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)

	items := economy.ShopCatalog()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		spent   int64
		refused int
	)
	start := make(chan struct{})
	for _, item := range items {
		wg.Add(1)
		go func(item economy.ShopItem) {
			defer wg.Done()
			<-start
			_, err := store.PurchaseShopItem(ctx, userID, item)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				spent += item.TokenCost
			case errors.Is(err, economy.ErrInsufficientFunds):
				refused++
			default:
				t.Errorf("unexpected purchase error: %v", err)
			}
		}(item)
	}
	close(start)
	wg.Wait()

	// The full catalog costs 140, so at least one purchase must be refused.
	assert.Positive(t, refused)
	balance := balanceOf(t, store, userID)
	assert.GreaterOrEqual(t, balance, int64(0))
	assert.Equal(t, int64(100)-spent, balance)
}

// The balance must always equal the starting grant plus earnings minus
// spending recorded in the ledger.
func TestBalanceMatchesLedger(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	userID := createUser(t, store, 100)

	var wg sync.WaitGroup
	for _, name := range []string{"Push-ups", "Squats", "Lunges", "Plank"} {
		exercise := exerciseByName(t, store, name)
		attempt, err := store.StartExercise(ctx, userID, exercise.ID)
		require.NoError(t, err)

		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, _ = store.CompleteExercise(ctx, userID, id, 10)
		}(attempt.ID)
		go func(id string) {
			defer wg.Done()
			_, _ = store.CompleteExercise(ctx, userID, id, 10)
		}(attempt.ID)
	}
	for _, solution := range economy.SeedSolutions() {
		seeded := solutionByTitle(t, store, solution.Title)
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = store.PurchaseSolution(ctx, userID, id, "")
		}(seeded.ID)
	}
	for _, item := range economy.ShopCatalog() {
		wg.Add(1)
		go func(item economy.ShopItem) {
			defer wg.Done()
			_, _ = store.PurchaseShopItem(ctx, userID, item)
		}(item)
	}
	wg.Wait()

	var earned, spentSolutions, spentItems int64
	require.NoError(t, store.db.QueryRow(
		`SELECT COALESCE(SUM(tokens_earned), 0) FROM user_exercises WHERE user_id = ? AND completed = 1`, userID,
	).Scan(&earned))
	require.NoError(t, store.db.QueryRow(
		`SELECT COALESCE(SUM(tokens_spent), 0) FROM user_solutions WHERE user_id = ?`, userID,
	).Scan(&spentSolutions))
	require.NoError(t, store.db.QueryRow(
		`SELECT COALESCE(SUM(tokens_spent), 0) FROM shop_purchases WHERE user_id = ?`, userID,
	).Scan(&spentItems))

	// Push-ups 10 + Squats 12 + Lunges 14 + Plank 15
	assert.Equal(t, int64(51), earned)
	balance := balanceOf(t, store, userID)
	assert.GreaterOrEqual(t, balance, int64(0))
	assert.Equal(t, economy.StartingTokens+earned-spentSolutions-spentItems, balance)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, user.TotalExercises)
}
