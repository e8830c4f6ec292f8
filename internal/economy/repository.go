package economy

import "context"

type UserRepository interface {
	EnsureUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
}

type CatalogRepository interface {
	ListExercises(ctx context.Context) ([]Exercise, error)
	GetExercise(ctx context.Context, exerciseID string) (Exercise, error)
	// ListSolutions never returns Content.
	ListSolutions(ctx context.Context, category string) ([]Solution, error)
	GetSolution(ctx context.Context, solutionID string) (Solution, error)
	SeedCatalog(ctx context.Context, exercises []Exercise, solutions []Solution) (SeedReport, error)
}

// LedgerRepository owns every mutation of balances, attempt state and
// entitlement rows. Each mutating method is a single atomic unit.
type LedgerRepository interface {
	StartExercise(ctx context.Context, userID, exerciseID string) (Attempt, error)
	CompleteExercise(ctx context.Context, userID, attemptID string, repsCompleted int) (CompletionResult, error)
	PurchaseSolution(ctx context.Context, userID, solutionID, problemID string) (PurchaseResult, error)
	// PurchaseShopItem charges item.TokenCost, which callers must take from
	// the server catalog.
	PurchaseShopItem(ctx context.Context, userID string, item ShopItem) (PurchaseResult, error)

	ListAttempts(ctx context.Context, userID string) ([]Attempt, error)
	CompletedAttempts(ctx context.Context, userID string) ([]CompletedAttempt, error)
	GetEntitlements(ctx context.Context, userID string) (Entitlements, error)
	OwnsSolution(ctx context.Context, userID, solutionID string) (bool, error)
	ListOwnedSolutions(ctx context.Context, userID string) ([]Solution, error)
	ListShopPurchases(ctx context.Context, userID string) ([]ShopPurchase, error)
	SpendingTotals(ctx context.Context, userID string) ([]SpendingCategory, error)
}

type ProblemRepository interface {
	CreateProblem(ctx context.Context, problem Problem) (Problem, error)
	ListProblems(ctx context.Context, userID string) ([]Problem, error)
}

type Repository interface {
	UserRepository
	CatalogRepository
	LedgerRepository
	ProblemRepository
}
