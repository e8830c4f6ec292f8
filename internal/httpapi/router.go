package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"study-app/internal/economy"
)

type RouterOptions struct {
	Logger *slog.Logger
	// Identity enables bearer-token authentication; nil trusts the body userId.
	Identity *IdentityVerifier
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// Health is probed by /healthz, typically the datastore ping.
	Health func(context.Context) error
}

func NewRouter(service *economy.Service, opts RouterOptions) http.Handler {
	api := NewAPI(service, opts.Identity, opts.Logger)
	api.health = opts.Health

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", api.HandleHealth)

	mux.HandleFunc("/api/auth/user", api.HandleAuthUser)
	mux.HandleFunc("/api/problems", api.HandleCreateProblem)
	mux.HandleFunc("/api/problems/user", api.HandleUserProblems)

	mux.HandleFunc("/api/solutions", api.HandleSolutions)
	mux.HandleFunc("/api/solutions/purchase", api.HandlePurchaseSolution)
	mux.HandleFunc("/api/solutions/{solution_id}", api.HandleSolutionDetail)
	mux.HandleFunc("/api/user/solutions", api.HandleOwnedSolutions)
	mux.HandleFunc("/api/entitlements", api.HandleEntitlements)

	mux.HandleFunc("/api/exercises", api.HandleExercises)
	mux.HandleFunc("/api/exercises/start", api.HandleStartExercise)
	mux.HandleFunc("/api/exercises/complete", api.HandleCompleteExercise)
	mux.HandleFunc("/api/exercises/{exercise_id}", api.HandleExercise)
	mux.HandleFunc("/api/user/exercises", api.HandleUserExercises)

	mux.HandleFunc("/api/shop/catalog", api.HandleShopCatalog)
	mux.HandleFunc("/api/shop/purchase", api.HandleShopPurchase)
	mux.HandleFunc("/api/shop/purchases", api.HandleShopPurchases)

	mux.HandleFunc("/api/statistics", api.HandleStatistics)
	mux.HandleFunc("/api/seed", api.HandleSeed)

	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return withRecovery(api.logger, withRequestLogging(api.logger, mux))
}
