package economy

import "time"

// StartingTokens is the balance every new user is created with.
const StartingTokens = 100

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	Tokens          int64     `json:"tokens"`
	TotalExercises  int       `json:"totalExercises"`
	TotalProblems   int       `json:"totalProblems"`
	Streak          int       `json:"streak"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Exercise is read-only catalog data. TokenReward is the only source of
// truth for what a completed attempt pays out.
type Exercise struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Reps          int       `json:"reps"`
	TokenReward   int64     `json:"tokenReward"`
	Difficulty    int       `json:"difficulty"`
	EstimatedTime string    `json:"estimatedTime"`
	Instructions  []string  `json:"instructions"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Attempt is one "start" of an exercise by a user. Completed flips to true
// at most once and TokensEarned is written in the same transaction.
type Attempt struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	ExerciseID    string     `json:"exerciseId"`
	Completed     bool       `json:"completed"`
	RepsCompleted int        `json:"repsCompleted"`
	TokensEarned  int64      `json:"tokensEarned"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Solution is catalog data. Content is gated and left empty by every
// listing path.
type Solution struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	TokenCost   int64     `json:"tokenCost"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category"`
	Similarity  int       `json:"similarity"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SolutionEntitlement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SolutionID  string    `json:"solutionId"`
	ProblemID   string    `json:"problemId,omitempty"`
	TokensSpent int64     `json:"tokensSpent"`
	AccessedAt  time.Time `json:"accessedAt"`
}

type ShopItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TokenCost   int64  `json:"tokenCost"`
	Description string `json:"description"`
}

type ShopPurchase struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ItemID      string    `json:"itemId"`
	ItemTitle   string    `json:"itemTitle"`
	TokensSpent int64     `json:"tokensSpent"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// Problem is a photographed problem after OCR.
type Problem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	OCRText   string    `json:"ocrText"`
	CreatedAt time.Time `json:"createdAt"`
}

type Entitlements struct {
	Solutions []SolutionEntitlement `json:"solutions"`
	ShopItems []ShopPurchase        `json:"shopItems"`
}

type CompletionResult struct {
	Attempt      Attempt `json:"attempt"`
	TokensEarned int64   `json:"tokensEarned"`
	NewBalance   int64   `json:"newBalance"`
}

type PurchaseResult struct {
	NewBalance  int64 `json:"newBalance"`
	TokensSpent int64 `json:"-"`
}

type SeedReport struct {
	ExercisesInserted int `json:"exercisesInserted"`
	SolutionsInserted int `json:"solutionsInserted"`
}

// CompletedAttempt is the projection the statistics view aggregates over.
type CompletedAttempt struct {
	ExerciseID   string
	ExerciseName string
	TokensEarned int64
	CompletedAt  time.Time
}
