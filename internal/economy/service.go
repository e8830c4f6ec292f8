package economy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"study-app/internal/metrics"
)

const (
	OpEnsureUser       = "ensure_user"
	OpStartExercise    = "start_exercise"
	OpCompleteExercise = "complete_exercise"
	OpPurchaseSolution = "purchase_solution"
	OpPurchaseShopItem = "purchase_shop_item"
	OpViewSolution     = "view_solution"
	OpCreateProblem    = "create_problem"
	OpSeedCatalog      = "seed_catalog"
)

const (
	anonymousFirstName = "Anonymous"
	anonymousLastName  = "User"
)

// Service validates requests and delegates every balance-affecting step to
// the repository, which runs each one as a single transaction. Rewards and
// costs are never taken from callers.
type Service struct {
	store   Repository
	logger  *slog.Logger
	metrics *metrics.EconomyMetrics
	now     func() time.Time

	cacheMu           sync.RWMutex
	cacheGeneration   uint64
	exerciseCache     []Exercise
	exerciseCacheSet  bool
	solutionsByFilter map[string][]Solution
}

func NewService(store Repository, logger *slog.Logger, m *metrics.EconomyMetrics) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:             store,
		logger:            logger.With("component", "economy"),
		metrics:           m,
		now:               func() time.Time { return time.Now().UTC() },
		solutionsByFilter: make(map[string][]Solution),
	}
}

// EnsureUser returns the user, creating an anonymous account with the
// starting balance on first sight.
func (s *Service) EnsureUser(ctx context.Context, userID string) (User, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return User{}, err
	}

	user, err := s.store.EnsureUser(ctx, anonymousUser(userID))
	s.observe(ctx, OpEnsureUser, userID, err)
	return user, err
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return User{}, err
	}
	return s.store.GetUser(ctx, userID)
}

func (s *Service) CreateProblem(ctx context.Context, userID, ocrText, imageURL string) (Problem, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return Problem{}, err
	}
	ocrText = strings.TrimSpace(ocrText)
	if ocrText == "" {
		return Problem{}, invalidf("ocrText is required")
	}

	if _, err := s.store.EnsureUser(ctx, anonymousUser(userID)); err != nil {
		return Problem{}, err
	}

	problem, err := s.store.CreateProblem(ctx, Problem{
		UserID:   userID,
		OCRText:  ocrText,
		ImageURL: strings.TrimSpace(imageURL),
	})
	s.observe(ctx, OpCreateProblem, userID, err)
	return problem, err
}

func (s *Service) ListProblems(ctx context.Context, userID string) ([]Problem, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListProblems(ctx, userID)
}

// ListSolutions returns catalog solutions without their gated content.
func (s *Service) ListSolutions(ctx context.Context, category string) ([]Solution, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if solutions, ok := s.getCachedSolutions(category); ok {
		return solutions, nil
	}

	generation := s.catalogGeneration()
	solutions, err := s.store.ListSolutions(ctx, category)
	if err != nil {
		return nil, err
	}
	for idx := range solutions {
		solutions[idx].Content = ""
	}
	s.setCachedSolutions(generation, category, solutions)
	return cloneSolutions(solutions), nil
}

// GetSolutionContent returns the full solution only to a user holding an
// entitlement for it.
func (s *Service) GetSolutionContent(ctx context.Context, userID, solutionID string) (Solution, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return Solution{}, err
	}
	solutionID, err = normalizeID("solutionId", solutionID)
	if err != nil {
		return Solution{}, err
	}

	solution, err := s.store.GetSolution(ctx, solutionID)
	if err != nil {
		s.observe(ctx, OpViewSolution, userID, err)
		return Solution{}, err
	}

	owned, err := s.store.OwnsSolution(ctx, userID, solutionID)
	if err == nil && !owned {
		err = ErrNotOwned
	}
	s.observe(ctx, OpViewSolution, userID, err, "solution_id", solutionID)
	if err != nil {
		return Solution{}, err
	}
	return solution, nil
}

func (s *Service) PurchaseSolution(ctx context.Context, userID, solutionID, problemID string) (PurchaseResult, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return PurchaseResult{}, err
	}
	solutionID, err = normalizeID("solutionId", solutionID)
	if err != nil {
		return PurchaseResult{}, err
	}
	problemID, err = normalizeOptionalID("problemId", problemID)
	if err != nil {
		return PurchaseResult{}, err
	}

	result, err := s.store.PurchaseSolution(ctx, userID, solutionID, problemID)
	s.observe(ctx, OpPurchaseSolution, userID, err, "solution_id", solutionID, "new_balance", result.NewBalance)
	if err == nil {
		s.metrics.AddTokensDebited(result.TokensSpent)
	}
	return result, err
}

func (s *Service) ListOwnedSolutions(ctx context.Context, userID string) ([]Solution, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListOwnedSolutions(ctx, userID)
}

func (s *Service) GetEntitlements(ctx context.Context, userID string) (Entitlements, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return Entitlements{}, err
	}
	return s.store.GetEntitlements(ctx, userID)
}

func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	if exercises, ok := s.getCachedExercises(); ok {
		return exercises, nil
	}

	generation := s.catalogGeneration()
	exercises, err := s.store.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	s.setCachedExercises(generation, exercises)
	return cloneExercises(exercises), nil
}

func (s *Service) GetExercise(ctx context.Context, exerciseID string) (Exercise, error) {
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return Exercise{}, invalidf("exerciseId is required")
	}
	return s.store.GetExercise(ctx, exerciseID)
}

// StartExercise records a new attempt. Unknown users are created on demand
// so an anonymous client can start working straight away.
func (s *Service) StartExercise(ctx context.Context, userID, exerciseID string) (Attempt, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return Attempt{}, err
	}
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return Attempt{}, invalidf("exerciseId is required")
	}

	if _, err := s.store.EnsureUser(ctx, anonymousUser(userID)); err != nil {
		s.observe(ctx, OpStartExercise, userID, err)
		return Attempt{}, err
	}

	attempt, err := s.store.StartExercise(ctx, userID, exerciseID)
	s.observe(ctx, OpStartExercise, userID, err, "exercise_id", exerciseID, "attempt_id", attempt.ID)
	return attempt, err
}

// CompleteExercise pays out the catalog reward for attemptID at most once.
func (s *Service) CompleteExercise(ctx context.Context, userID, attemptID string, repsCompleted int) (CompletionResult, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return CompletionResult{}, err
	}
	attemptID, err = normalizeID("userExerciseId", attemptID)
	if err != nil {
		return CompletionResult{}, err
	}
	if repsCompleted < 0 {
		return CompletionResult{}, invalidf("repsCompleted must not be negative")
	}

	result, err := s.store.CompleteExercise(ctx, userID, attemptID, repsCompleted)
	s.observe(ctx, OpCompleteExercise, userID, err,
		"attempt_id", attemptID,
		"tokens_earned", result.TokensEarned,
		"new_balance", result.NewBalance,
	)
	if err == nil {
		s.metrics.AddTokensCredited(result.TokensEarned)
	}
	return result, err
}

func (s *Service) ListAttempts(ctx context.Context, userID string) ([]Attempt, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListAttempts(ctx, userID)
}

func (s *Service) ShopCatalog() []ShopItem {
	return ShopCatalog()
}

// PurchaseShopItem charges the server-side catalog price for itemID.
func (s *Service) PurchaseShopItem(ctx context.Context, userID, itemID string) (PurchaseResult, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return PurchaseResult{}, err
	}
	itemID, err = normalizeItemID(itemID)
	if err != nil {
		return PurchaseResult{}, err
	}

	item, ok := LookupShopItem(itemID)
	if !ok {
		s.observe(ctx, OpPurchaseShopItem, userID, ErrItemNotFound, "item_id", itemID)
		return PurchaseResult{}, ErrItemNotFound
	}

	result, err := s.store.PurchaseShopItem(ctx, userID, item)
	s.observe(ctx, OpPurchaseShopItem, userID, err, "item_id", itemID, "new_balance", result.NewBalance)
	if err == nil {
		s.metrics.AddTokensDebited(result.TokensSpent)
	}
	return result, err
}

func (s *Service) ListShopPurchases(ctx context.Context, userID string) ([]ShopPurchase, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListShopPurchases(ctx, userID)
}

// Seed inserts the development catalog. Rows that already exist by name or
// title are left untouched.
func (s *Service) Seed(ctx context.Context) (SeedReport, error) {
	report, err := s.store.SeedCatalog(ctx, SeedExercises(), SeedSolutions())
	s.invalidateCatalogCache()
	s.observe(ctx, OpSeedCatalog, "", err,
		"exercises_inserted", report.ExercisesInserted,
		"solutions_inserted", report.SolutionsInserted,
	)
	return report, err
}

func (s *Service) Statistics(ctx context.Context, userID string) (Statistics, error) {
	userID, err := normalizeID("userId", userID)
	if err != nil {
		return Statistics{}, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	completions, err := s.store.CompletedAttempts(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	spending, err := s.store.SpendingTotals(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	return BuildStatistics(user, completions, spending, s.now()), nil
}

func (s *Service) observe(ctx context.Context, operation, userID string, err error, attrs ...any) {
	outcome := Outcome(err)
	s.metrics.ObserveOperation(operation, outcome)

	args := make([]any, 0, len(attrs)+6)
	args = append(args, "operation", operation, "outcome", outcome)
	if userID != "" {
		args = append(args, "user_id", userID)
	}
	args = append(args, attrs...)

	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "economy operation", args...)
	case IsBusinessError(err):
		s.logger.InfoContext(ctx, "economy operation rejected", append(args, "reason", err.Error())...)
	case errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "economy operation canceled", args...)
	default:
		s.logger.ErrorContext(ctx, "economy operation failed", append(args, "error", err)...)
	}
}

func anonymousUser(userID string) User {
	return User{
		ID:        userID,
		Email:     "anonymous-" + userID + "@local",
		FirstName: anonymousFirstName,
		LastName:  anonymousLastName,
		Tokens:    StartingTokens,
	}
}
