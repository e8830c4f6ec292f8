package httpapi

// Request bodies are decoded with unknown fields disallowed, so a client
// cannot smuggle reward or cost values past these shapes.

type userRequest struct {
	UserID string `json:"userId"`
}

type createProblemRequest struct {
	UserID   string `json:"userId"`
	OCRText  string `json:"ocrText"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type purchaseSolutionRequest struct {
	UserID     string `json:"userId"`
	SolutionID string `json:"solutionId"`
	ProblemID  string `json:"problemId,omitempty"`
}

type startExerciseRequest struct {
	UserID     string `json:"userId"`
	ExerciseID string `json:"exerciseId"`
}

type completeExerciseRequest struct {
	UserID         string `json:"userId"`
	UserExerciseID string `json:"userExerciseId"`
	RepsCompleted  *int   `json:"repsCompleted"`
}

type shopPurchaseRequest struct {
	UserID string `json:"userId"`
	ItemID string `json:"itemId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}
