package economy

import (
	"context"
	"sync"
	"time"
)

// fakeStore is an in-memory Repository that records calls. It is only as
// faithful as the service tests need; ledger atomicity is covered by the
// sqlstore tests against a real database.
type fakeStore struct {
	mu sync.Mutex

	users     map[string]User
	exercises []Exercise
	solutions map[string]Solution
	owned     map[string]bool

	completions []CompletedAttempt
	spending    []SpendingCategory

	completeResult CompletionResult
	completeErr    error
	purchaseResult PurchaseResult
	purchaseErr    error

	calls           map[string]int
	lastShopItem    ShopItem
	lastProblemID   string
	lastReps        int
	lastCategory    string
	seededExercises int
	seededSolutions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]User),
		solutions: make(map[string]Solution),
		owned:     make(map[string]bool),
		calls:     make(map[string]int),
	}
}

func (f *fakeStore) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeStore) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeStore) EnsureUser(_ context.Context, user User) (User, error) {
	f.called("EnsureUser")
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.users[user.ID]; ok {
		return existing, nil
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (User, error) {
	f.called("GetUser")
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) ListExercises(context.Context) ([]Exercise, error) {
	f.called("ListExercises")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Exercise(nil), f.exercises...), nil
}

func (f *fakeStore) GetExercise(_ context.Context, exerciseID string) (Exercise, error) {
	f.called("GetExercise")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, exercise := range f.exercises {
		if exercise.ID == exerciseID {
			return exercise, nil
		}
	}
	return Exercise{}, ErrExerciseNotFound
}

// ListSolutions deliberately leaks content so the service's stripping is
// observable.
func (f *fakeStore) ListSolutions(_ context.Context, category string) ([]Solution, error) {
	f.called("ListSolutions")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCategory = category
	out := make([]Solution, 0, len(f.solutions))
	for _, solution := range f.solutions {
		if category == "" || solution.Category == category {
			out = append(out, solution)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSolution(_ context.Context, solutionID string) (Solution, error) {
	f.called("GetSolution")
	f.mu.Lock()
	defer f.mu.Unlock()
	solution, ok := f.solutions[solutionID]
	if !ok {
		return Solution{}, ErrSolutionNotFound
	}
	return solution, nil
}

func (f *fakeStore) SeedCatalog(_ context.Context, exercises []Exercise, solutions []Solution) (SeedReport, error) {
	f.called("SeedCatalog")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seededExercises += len(exercises)
	f.seededSolutions += len(solutions)
	return SeedReport{ExercisesInserted: len(exercises), SolutionsInserted: len(solutions)}, nil
}

func (f *fakeStore) StartExercise(_ context.Context, userID, exerciseID string) (Attempt, error) {
	f.called("StartExercise")
	return Attempt{
		ID:         "00000000-0000-4000-8000-000000000001",
		UserID:     userID,
		ExerciseID: exerciseID,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}, nil
}

func (f *fakeStore) CompleteExercise(_ context.Context, _, _ string, reps int) (CompletionResult, error) {
	f.called("CompleteExercise")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReps = reps
	return f.completeResult, f.completeErr
}

func (f *fakeStore) PurchaseSolution(_ context.Context, _, _, problemID string) (PurchaseResult, error) {
	f.called("PurchaseSolution")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastProblemID = problemID
	return f.purchaseResult, f.purchaseErr
}

func (f *fakeStore) PurchaseShopItem(_ context.Context, _ string, item ShopItem) (PurchaseResult, error) {
	f.called("PurchaseShopItem")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastShopItem = item
	if f.purchaseErr != nil {
		return PurchaseResult{}, f.purchaseErr
	}
	return PurchaseResult{NewBalance: f.purchaseResult.NewBalance, TokensSpent: item.TokenCost}, nil
}

func (f *fakeStore) ListAttempts(context.Context, string) ([]Attempt, error) {
	f.called("ListAttempts")
	return []Attempt{}, nil
}

func (f *fakeStore) CompletedAttempts(context.Context, string) ([]CompletedAttempt, error) {
	f.called("CompletedAttempts")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completions, nil
}

func (f *fakeStore) GetEntitlements(context.Context, string) (Entitlements, error) {
	f.called("GetEntitlements")
	return Entitlements{Solutions: []SolutionEntitlement{}, ShopItems: []ShopPurchase{}}, nil
}

func (f *fakeStore) OwnsSolution(_ context.Context, userID, solutionID string) (bool, error) {
	f.called("OwnsSolution")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned[userID+"|"+solutionID], nil
}

func (f *fakeStore) ListOwnedSolutions(context.Context, string) ([]Solution, error) {
	f.called("ListOwnedSolutions")
	return []Solution{}, nil
}

func (f *fakeStore) ListShopPurchases(context.Context, string) ([]ShopPurchase, error) {
	f.called("ListShopPurchases")
	return []ShopPurchase{}, nil
}

func (f *fakeStore) SpendingTotals(context.Context, string) ([]SpendingCategory, error) {
	f.called("SpendingTotals")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spending, nil
}

func (f *fakeStore) CreateProblem(_ context.Context, problem Problem) (Problem, error) {
	f.called("CreateProblem")
	problem.ID = "00000000-0000-4000-8000-0000000000aa"
	return problem, nil
}

func (f *fakeStore) ListProblems(context.Context, string) ([]Problem, error) {
	f.called("ListProblems")
	return []Problem{}, nil
}
