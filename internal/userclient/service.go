package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
)

type Config struct {
	// UserID may be empty when Token identifies the caller.
	UserID      string
	ServerURL   string
	Token       string
	HTTPTimeout time.Duration
}

// session remembers the last listings so commands can refer to entries by
// number, and the attempt started most recently.
type session struct {
	client      *HTTPClient
	out         io.Writer
	userID      string
	serverURL   string
	exerciseIDs []string
	solutionIDs []string
	attemptID   string
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	userID := strings.TrimSpace(cfg.UserID)
	token := strings.TrimSpace(cfg.Token)
	if userID == "" && token == "" {
		return errors.New("user id or token is required")
	}

	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	s := &session{
		client:    NewHTTPClient(serverURL, token, &http.Client{Timeout: timeout}),
		out:       out,
		userID:    userID,
		serverURL: serverURL,
	}

	user, err := s.client.EnsureUser(ctx, userID)
	if err != nil {
		return describeClientError(err, serverURL)
	}
	s.userID = user.ID

	fmt.Fprintf(out, "study-cli\nuser=%s\nserver=%s\ntokens=%d\n\n", user.ID, serverURL, user.Tokens)
	printHelp(out)

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])
		if command == "exit" || command == "quit" {
			return nil
		}
		if err := s.dispatch(ctx, command, args[1:]); err != nil {
			fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
		}
	}
}

func (s *session) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		printHelp(s.out)
		return nil
	case "me":
		return s.runMe(ctx)
	case "exercises":
		return s.runExercises(ctx)
	case "start":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: start <exercise # or id>")
			return nil
		}
		return s.runStart(ctx, args[0])
	case "complete":
		if len(args) < 1 || len(args) > 2 {
			fmt.Fprintln(s.out, "usage: complete <reps> [attempt_id]")
			return nil
		}
		reps, err := parseReps(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "invalid reps: %v\n", err)
			return nil
		}
		attemptID := s.attemptID
		if len(args) == 2 {
			attemptID = args[1]
		}
		if attemptID == "" {
			fmt.Fprintln(s.out, "no exercise started. use 'start' first.")
			return nil
		}
		return s.runComplete(ctx, attemptID, reps)
	case "history":
		return s.runHistory(ctx)
	case "shop":
		return s.runShop(ctx)
	case "buy":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: buy <item_id>")
			return nil
		}
		return s.runBuy(ctx, args[0])
	case "solutions":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		return s.runSolutions(ctx, category)
	case "unlock":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: unlock <solution # or id>")
			return nil
		}
		return s.runUnlock(ctx, args[0])
	case "view":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: view <solution # or id>")
			return nil
		}
		return s.runView(ctx, args[0])
	case "owned":
		return s.runOwned(ctx)
	case "stats":
		return s.runStats(ctx)
	default:
		fmt.Fprintln(s.out, "unknown command. type 'help' for usage.")
		return nil
	}
}

func (s *session) runMe(ctx context.Context) error {
	user, err := s.client.EnsureUser(ctx, s.userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Fprintf(s.out, "tokens=%d exercises=%d problems=%d\n", user.Tokens, user.TotalExercises, user.TotalProblems)
	return nil
}

func (s *session) runExercises(ctx context.Context) error {
	exercises, err := s.client.ListExercises(ctx)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		fmt.Fprintln(s.out, "No exercises available.")
		return nil
	}

	s.exerciseIDs = s.exerciseIDs[:0]
	fmt.Fprintln(s.out, "Exercises:")
	for idx, exercise := range exercises {
		s.exerciseIDs = append(s.exerciseIDs, exercise.ID)
		fmt.Fprintf(s.out, "%d. %s x%d (+%d tokens, difficulty %d, %s)\n",
			idx+1,
			exercise.Name,
			exercise.Reps,
			exercise.TokenReward,
			exercise.Difficulty,
			exercise.EstimatedTime,
		)
	}
	return nil
}

func (s *session) runStart(ctx context.Context, arg string) error {
	exerciseID, err := resolveListed(arg, s.exerciseIDs)
	if err != nil {
		return err
	}

	attempt, err := s.client.StartExercise(ctx, s.userID, exerciseID)
	if err != nil {
		return err
	}
	s.attemptID = attempt.ID
	fmt.Fprintf(s.out, "started attempt %s. run 'complete <reps>' when done.\n", attempt.ID)
	return nil
}

func (s *session) runComplete(ctx context.Context, attemptID string, reps int) error {
	result, err := s.client.CompleteExercise(ctx, s.userID, attemptID, reps)
	if err != nil {
		return err
	}
	if attemptID == s.attemptID {
		s.attemptID = ""
	}
	fmt.Fprintf(s.out, "Completed! +%d tokens, balance %d\n", result.TokensEarned, result.NewBalance)
	return nil
}

func (s *session) runHistory(ctx context.Context) error {
	attempts, err := s.client.ListAttempts(ctx, s.userID)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintln(s.out, "No exercise attempts yet.")
		return nil
	}

	for idx, attempt := range attempts {
		status := "in progress"
		if attempt.Completed {
			status = fmt.Sprintf("done, %d reps, +%d tokens", attempt.RepsCompleted, attempt.TokensEarned)
		}
		fmt.Fprintf(s.out, "%d. %s started %s (%s)\n",
			idx+1,
			shorten(attempt.ID),
			attempt.CreatedAt.Format(time.RFC3339),
			status,
		)
	}
	return nil
}

func (s *session) runShop(ctx context.Context) error {
	items, err := s.client.ShopCatalog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Shop:")
	for _, item := range items {
		fmt.Fprintf(s.out, "[%s] %s - %d tokens (%s)\n", item.ID, item.Title, item.TokenCost, item.Description)
	}
	return nil
}

func (s *session) runBuy(ctx context.Context, itemID string) error {
	result, err := s.client.PurchaseShopItem(ctx, s.userID, itemID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Purchased item %s. balance %d\n", itemID, result.NewBalance)
	return nil
}

func (s *session) runSolutions(ctx context.Context, category string) error {
	solutions, err := s.client.ListSolutions(ctx, category)
	if err != nil {
		return err
	}
	if len(solutions) == 0 {
		fmt.Fprintln(s.out, "No solutions found.")
		return nil
	}

	s.solutionIDs = s.solutionIDs[:0]
	fmt.Fprintln(s.out, "Solutions:")
	for idx, solution := range solutions {
		s.solutionIDs = append(s.solutionIDs, solution.ID)
		fmt.Fprintf(s.out, "%d. %s [%s, %s] %d tokens, %d%% match\n",
			idx+1,
			solution.Title,
			solution.Category,
			solution.Difficulty,
			solution.TokenCost,
			solution.Similarity,
		)
	}
	return nil
}

func (s *session) runUnlock(ctx context.Context, arg string) error {
	solutionID, err := resolveListed(arg, s.solutionIDs)
	if err != nil {
		return err
	}

	result, err := s.client.PurchaseSolution(ctx, s.userID, solutionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Unlocked. balance %d\n", result.NewBalance)
	return nil
}

func (s *session) runView(ctx context.Context, arg string) error {
	solutionID, err := resolveListed(arg, s.solutionIDs)
	if err != nil {
		return err
	}

	solution, err := s.client.SolutionContent(ctx, s.userID, solutionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n%s\n", solution.Title, indent(solution.Content))
	return nil
}

func (s *session) runOwned(ctx context.Context) error {
	solutions, err := s.client.OwnedSolutions(ctx, s.userID)
	if err != nil {
		return err
	}
	if len(solutions) == 0 {
		fmt.Fprintln(s.out, "No unlocked solutions.")
		return nil
	}

	s.solutionIDs = s.solutionIDs[:0]
	for idx, solution := range solutions {
		s.solutionIDs = append(s.solutionIDs, solution.ID)
		fmt.Fprintf(s.out, "%d. %s\n", idx+1, solution.Title)
	}
	return nil
}

func (s *session) runStats(ctx context.Context) error {
	stats, err := s.client.Statistics(ctx, s.userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "tokens=%d exercises=%d problems=%d streak=%d\n",
		stats.User.Tokens,
		stats.User.TotalExercises,
		stats.User.TotalProblems,
		stats.User.Streak,
	)
	if len(stats.ExerciseHistory) > 0 {
		fmt.Fprintln(s.out, "Last 7 days:")
		for _, day := range stats.ExerciseHistory {
			fmt.Fprintf(s.out, "  %s: %d exercises, +%d tokens\n", day.Date, day.ExercisesCompleted, day.TokensEarned)
		}
	}
	if len(stats.TokenSpending) > 0 {
		fmt.Fprintln(s.out, "Spending:")
		for _, category := range stats.TokenSpending {
			fmt.Fprintf(s.out, "  %s: %d tokens over %d purchases\n", category.Category, category.Amount, category.Count)
		}
	}
	if len(stats.ExerciseTypes) > 0 {
		fmt.Fprintln(s.out, "By exercise:")
		for _, entry := range stats.ExerciseTypes {
			fmt.Fprintf(s.out, "  %s: %d completed, +%d tokens\n", entry.Name, entry.Completed, entry.TokensEarned)
		}
	}
	return nil
}
