package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"study-app/internal/economy"
)

var ErrServiceUnavailable = errors.New("study service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the study service JSON API. Every economic value it
// shows comes from the server; requests carry identifiers only.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type userRequest struct {
	UserID string `json:"userId,omitempty"`
}

type startExerciseRequest struct {
	UserID     string `json:"userId,omitempty"`
	ExerciseID string `json:"exerciseId"`
}

type completeExerciseRequest struct {
	UserID         string `json:"userId,omitempty"`
	UserExerciseID string `json:"userExerciseId"`
	RepsCompleted  int    `json:"repsCompleted"`
}

type purchaseSolutionRequest struct {
	UserID     string `json:"userId,omitempty"`
	SolutionID string `json:"solutionId"`
}

type shopPurchaseRequest struct {
	UserID string `json:"userId,omitempty"`
	ItemID string `json:"itemId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPClient builds a client for baseURL. A non-empty token is sent as a
// bearer credential on every request.
func NewHTTPClient(baseURL, token string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

func (c *HTTPClient) EnsureUser(ctx context.Context, userID string) (economy.User, error) {
	var user economy.User
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/user", userRequest{UserID: userID}, &user)
	return user, err
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]economy.Exercise, error) {
	var exercises []economy.Exercise
	err := c.doJSON(ctx, http.MethodGet, "/api/exercises", nil, &exercises)
	return exercises, err
}

func (c *HTTPClient) StartExercise(ctx context.Context, userID, exerciseID string) (economy.Attempt, error) {
	if strings.TrimSpace(exerciseID) == "" {
		return economy.Attempt{}, errors.New("exercise id is required")
	}

	var attempt economy.Attempt
	err := c.doJSON(ctx, http.MethodPost, "/api/exercises/start", startExerciseRequest{
		UserID:     userID,
		ExerciseID: exerciseID,
	}, &attempt)
	return attempt, err
}

func (c *HTTPClient) CompleteExercise(ctx context.Context, userID, attemptID string, reps int) (economy.CompletionResult, error) {
	var result economy.CompletionResult
	err := c.doJSON(ctx, http.MethodPost, "/api/exercises/complete", completeExerciseRequest{
		UserID:         userID,
		UserExerciseID: attemptID,
		RepsCompleted:  reps,
	}, &result)
	return result, err
}

func (c *HTTPClient) ListAttempts(ctx context.Context, userID string) ([]economy.Attempt, error) {
	var attempts []economy.Attempt
	err := c.doJSON(ctx, http.MethodPost, "/api/user/exercises", userRequest{UserID: userID}, &attempts)
	return attempts, err
}

func (c *HTTPClient) ShopCatalog(ctx context.Context) ([]economy.ShopItem, error) {
	var items []economy.ShopItem
	err := c.doJSON(ctx, http.MethodGet, "/api/shop/catalog", nil, &items)
	return items, err
}

func (c *HTTPClient) PurchaseShopItem(ctx context.Context, userID, itemID string) (economy.PurchaseResult, error) {
	var result economy.PurchaseResult
	err := c.doJSON(ctx, http.MethodPost, "/api/shop/purchase", shopPurchaseRequest{
		UserID: userID,
		ItemID: itemID,
	}, &result)
	return result, err
}

func (c *HTTPClient) ListSolutions(ctx context.Context, category string) ([]economy.Solution, error) {
	path := "/api/solutions"
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		query := url.Values{}
		query.Set("category", trimmed)
		path += "?" + query.Encode()
	}

	var solutions []economy.Solution
	err := c.doJSON(ctx, http.MethodGet, path, nil, &solutions)
	return solutions, err
}

func (c *HTTPClient) PurchaseSolution(ctx context.Context, userID, solutionID string) (economy.PurchaseResult, error) {
	var result economy.PurchaseResult
	err := c.doJSON(ctx, http.MethodPost, "/api/solutions/purchase", purchaseSolutionRequest{
		UserID:     userID,
		SolutionID: solutionID,
	}, &result)
	return result, err
}

func (c *HTTPClient) SolutionContent(ctx context.Context, userID, solutionID string) (economy.Solution, error) {
	if strings.TrimSpace(solutionID) == "" {
		return economy.Solution{}, errors.New("solution id is required")
	}

	var solution economy.Solution
	path := "/api/solutions/" + url.PathEscape(solutionID)
	err := c.doJSON(ctx, http.MethodPost, path, userRequest{UserID: userID}, &solution)
	return solution, err
}

func (c *HTTPClient) OwnedSolutions(ctx context.Context, userID string) ([]economy.Solution, error) {
	var solutions []economy.Solution
	err := c.doJSON(ctx, http.MethodPost, "/api/user/solutions", userRequest{UserID: userID}, &solutions)
	return solutions, err
}

func (c *HTTPClient) Statistics(ctx context.Context, userID string) (economy.Statistics, error) {
	var stats economy.Statistics
	err := c.doJSON(ctx, http.MethodPost, "/api/statistics", userRequest{UserID: userID}, &stats)
	return stats, err
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
