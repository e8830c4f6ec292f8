package economy

// SeedSolutions is the development solution catalog. Titles are the natural
// key used to keep seeding idempotent.
func SeedSolutions() []Solution {
	return []Solution{
		{
			Title:       "Quadratic Equation Solution",
			Description: "Solving quadratic equations using factorization method",
			Difficulty:  "intermediate",
			TokenCost:   10,
			Content:     "To solve x² - 5x + 6 = 0, we factor: (x-2)(x-3) = 0, so x = 2 or x = 3",
			Category:    "algebra",
			Similarity:  95,
		},
		{
			Title:       "Basic Quadratic Concepts",
			Description: "Introduction to quadratic equations and the quadratic formula",
			Difficulty:  "beginner",
			TokenCost:   8,
			Content:     "Basic concepts and quadratic formula application",
			Category:    "algebra",
			Similarity:  87,
		},
		{
			Title:       "Advanced Quadratic Methods",
			Description: "Complex quadratic equations with multiple methods and graphical interpretation",
			Difficulty:  "advanced",
			TokenCost:   15,
			Content:     "Advanced methods including completing the square and graphical analysis",
			Category:    "algebra",
			Similarity:  82,
		},
	}
}

// SeedExercises is the development exercise catalog, keyed by name.
func SeedExercises() []Exercise {
	return []Exercise{
		// Upper body
		{Name: "Push-ups", Description: "Classic upper body strengthening exercise", Reps: 10, TokenReward: 10, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Place hands shoulder-width apart", "Keep body in straight line", "Lower chest to floor", "Push back up maintaining form"}},
		{Name: "Wall Push-ups", Description: "Beginner-friendly upper body exercise", Reps: 15, TokenReward: 8, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Stand arm's length from wall", "Place palms flat against wall", "Lean in and push back out", "Keep body straight throughout"}},
		{Name: "Pike Push-ups", Description: "Advanced shoulder and tricep exercise", Reps: 8, TokenReward: 15, Difficulty: 3, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Start in downward dog position", "Walk feet closer to hands", "Lower head toward floor", "Push back up focusing on shoulders"}},

		// Lower body
		{Name: "Squats", Description: "Fundamental lower body strengthening", Reps: 15, TokenReward: 12, Difficulty: 2, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Stand with feet shoulder-width apart", "Lower down as if sitting", "Keep knees behind toes", "Drive through heels to stand"}},
		{Name: "Lunges", Description: "Single-leg strength and balance exercise", Reps: 10, TokenReward: 14, Difficulty: 2, EstimatedTime: "4-5 minutes",
			Instructions: []string{"Step forward into lunge position", "Lower back knee toward ground", "Keep front knee over ankle", "Alternate legs each rep"}},
		{Name: "Calf Raises", Description: "Lower leg strengthening exercise", Reps: 20, TokenReward: 8, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Stand with feet hip-width apart", "Rise up onto toes", "Hold briefly at the top", "Lower slowly with control"}},
		{Name: "Jump Squats", Description: "Explosive lower body power exercise", Reps: 12, TokenReward: 18, Difficulty: 3, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Start in squat position", "Jump up explosively", "Land softly back in squat", "Maintain good form throughout"}},

		// Core
		{Name: "Plank", Description: "Core stability and strength hold", Reps: 30, TokenReward: 15, Difficulty: 2, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Start in push-up position", "Lower to forearms", "Keep body straight", "Hold for specified seconds"}},
		{Name: "Mountain Climbers", Description: "Dynamic core and cardio exercise", Reps: 20, TokenReward: 16, Difficulty: 2, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Start in plank position", "Bring one knee to chest", "Quickly switch legs", "Keep hips level throughout"}},
		{Name: "Russian Twists", Description: "Rotational core strengthening", Reps: 16, TokenReward: 12, Difficulty: 2, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Sit with knees bent", "Lean back slightly", "Rotate torso side to side", "Keep core engaged throughout"}},

		// Full body and cardio
		{Name: "Jumping Jacks", Description: "Full body cardio and coordination", Reps: 20, TokenReward: 10, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Start with feet together", "Jump while spreading legs", "Raise arms overhead", "Return to starting position"}},
		{Name: "Burpees", Description: "Ultimate full-body conditioning exercise", Reps: 8, TokenReward: 25, Difficulty: 3, EstimatedTime: "4-5 minutes",
			Instructions: []string{"Start standing", "Drop to squat, hands on floor", "Jump feet back to plank", "Do push-up, jump feet forward, jump up"}},
		{Name: "High Knees", Description: "Cardio exercise for leg strength and endurance", Reps: 30, TokenReward: 12, Difficulty: 2, EstimatedTime: "3-4 minutes",
			Instructions: []string{"Run in place", "Bring knees up to waist height", "Pump arms naturally", "Land on balls of feet"}},

		// Mobility
		{Name: "Arm Circles", Description: "Shoulder mobility and warm-up exercise", Reps: 20, TokenReward: 6, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Extend arms to sides", "Make small circles forward", "Then make circles backward", "Keep movements controlled"}},
		{Name: "Leg Swings", Description: "Hip mobility and warm-up exercise", Reps: 15, TokenReward: 7, Difficulty: 1, EstimatedTime: "2-3 minutes",
			Instructions: []string{"Hold onto wall for support", "Swing one leg forward and back", "Keep movements controlled", "Switch legs after completing reps"}},
	}
}
