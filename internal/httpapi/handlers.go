package httpapi

import (
	"errors"
	"net/http"
	"strings"
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if a.health != nil {
		if err := a.health(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// decodeUserRequest handles the many endpoints whose body is just {userId}.
func (a *API) decodeUserRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return "", false
	}

	var request userRequest
	err := decodeJSON(w, r, &request)
	if errors.Is(err, errEmptyBody) && a.identity != nil {
		// the token alone identifies the caller
		err = nil
	}
	if err != nil {
		writeBadRequest(w, err)
		return "", false
	}

	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return "", false
	}
	return userID, true
}

func (a *API) HandleAuthUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	user, err := a.service.EnsureUser(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) HandleCreateProblem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request createProblemRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	problem, err := a.service.CreateProblem(r.Context(), userID, request.OCRText, request.ImageURL)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, problem)
}

func (a *API) HandleUserProblems(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	problems, err := a.service.ListProblems(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, problems)
}

func (a *API) HandleSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	solutions, err := a.service.ListSolutions(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solutions)
}

func (a *API) HandlePurchaseSolution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request purchaseSolutionRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	result, err := a.service.PurchaseSolution(r.Context(), userID, request.SolutionID, request.ProblemID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSolutionDetail returns gated content to owners only.
func (a *API) HandleSolutionDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	solution, err := a.service.GetSolutionContent(r.Context(), userID, strings.TrimSpace(r.PathValue("solution_id")))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solution)
}

func (a *API) HandleOwnedSolutions(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	solutions, err := a.service.ListOwnedSolutions(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solutions)
}

func (a *API) HandleEntitlements(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	entitlements, err := a.service.GetEntitlements(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entitlements)
}

func (a *API) HandleExercises(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	exercises, err := a.service.ListExercises(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (a *API) HandleExercise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	exercise, err := a.service.GetExercise(r.Context(), r.PathValue("exercise_id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (a *API) HandleStartExercise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request startExerciseRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	attempt, err := a.service.StartExercise(r.Context(), userID, request.ExerciseID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

// HandleCompleteExercise pays the catalog reward. The body carries no reward
// field; one sent by a client is rejected as unsupported.
func (a *API) HandleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request completeExerciseRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	if request.RepsCompleted == nil {
		writeBadRequest(w, errors.New("repsCompleted is required"))
		return
	}
	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	result, err := a.service.CompleteExercise(r.Context(), userID, request.UserExerciseID, *request.RepsCompleted)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleUserExercises(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	attempts, err := a.service.ListAttempts(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (a *API) HandleShopCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, a.service.ShopCatalog())
}

func (a *API) HandleShopPurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request shopPurchaseRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	userID, err := a.resolveUser(r, request.UserID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	result, err := a.service.PurchaseShopItem(r.Context(), userID, request.ItemID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleShopPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	purchases, err := a.service.ListShopPurchases(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (a *API) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.decodeUserRequest(w, r)
	if !ok {
		return
	}

	stats, err := a.service.Statistics(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if a.identity != nil {
		if _, err := a.identity.Subject(r); err != nil {
			a.writeServiceError(w, r, err)
			return
		}
	}

	report, err := a.service.Seed(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
