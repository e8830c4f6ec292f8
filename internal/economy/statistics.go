package economy

import (
	"sort"
	"time"
)

const (
	historyWindow = 7 * 24 * time.Hour
	dateLayout    = "2006-01-02"

	SpendingSolutions = "Solutions"
	SpendingShopItems = "Shop Items"
)

type UserSummary struct {
	Tokens         int64 `json:"tokens"`
	TotalExercises int   `json:"totalExercises"`
	TotalProblems  int   `json:"totalProblems"`
	Streak         int   `json:"streak"`
}

type DailyExercises struct {
	Date               string `json:"date"`
	ExercisesCompleted int    `json:"exercisesCompleted"`
	TokensEarned       int64  `json:"tokensEarned"`
}

type SpendingCategory struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Count    int    `json:"count"`
}

type ExerciseTypeStats struct {
	Name         string `json:"name"`
	Completed    int    `json:"completed"`
	TokensEarned int64  `json:"tokensEarned"`
}

type Statistics struct {
	User            UserSummary         `json:"user"`
	ExerciseHistory []DailyExercises    `json:"exerciseHistory"`
	TokenSpending   []SpendingCategory  `json:"tokenSpending"`
	ExerciseTypes   []ExerciseTypeStats `json:"exerciseTypes"`
}

// BuildStatistics aggregates raw ledger rows into the statistics view.
// History covers the seven days before now, grouped by UTC date.
func BuildStatistics(user User, completions []CompletedAttempt, spending []SpendingCategory, now time.Time) Statistics {
	stats := Statistics{
		User: UserSummary{
			Tokens:         user.Tokens,
			TotalExercises: user.TotalExercises,
			TotalProblems:  user.TotalProblems,
			Streak:         user.Streak,
		},
		ExerciseHistory: buildExerciseHistory(completions, now),
		TokenSpending:   make([]SpendingCategory, 0, len(spending)),
		ExerciseTypes:   buildExerciseTypes(completions),
	}

	for _, category := range spending {
		if category.Amount > 0 {
			stats.TokenSpending = append(stats.TokenSpending, category)
		}
	}
	return stats
}

func buildExerciseHistory(completions []CompletedAttempt, now time.Time) []DailyExercises {
	cutoff := now.Add(-historyWindow)
	byDate := make(map[string]*DailyExercises)
	for _, completion := range completions {
		if completion.CompletedAt.Before(cutoff) {
			continue
		}
		date := completion.CompletedAt.UTC().Format(dateLayout)
		day, ok := byDate[date]
		if !ok {
			day = &DailyExercises{Date: date}
			byDate[date] = day
		}
		day.ExercisesCompleted++
		day.TokensEarned += completion.TokensEarned
	}

	history := make([]DailyExercises, 0, len(byDate))
	for _, day := range byDate {
		history = append(history, *day)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history
}

func buildExerciseTypes(completions []CompletedAttempt) []ExerciseTypeStats {
	byExercise := make(map[string]*ExerciseTypeStats)
	for _, completion := range completions {
		entry, ok := byExercise[completion.ExerciseID]
		if !ok {
			entry = &ExerciseTypeStats{Name: completion.ExerciseName}
			byExercise[completion.ExerciseID] = entry
		}
		entry.Completed++
		entry.TokensEarned += completion.TokensEarned
	}

	types := make([]ExerciseTypeStats, 0, len(byExercise))
	for _, entry := range byExercise {
		types = append(types, *entry)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Completed != types[j].Completed {
			return types[i].Completed > types[j].Completed
		}
		return types[i].Name < types[j].Name
	})
	return types
}
