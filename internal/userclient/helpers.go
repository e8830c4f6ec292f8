package userclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  me")
	fmt.Fprintln(out, "  exercises")
	fmt.Fprintln(out, "  start <exercise # or id>")
	fmt.Fprintln(out, "  complete <reps> [attempt_id]")
	fmt.Fprintln(out, "  history")
	fmt.Fprintln(out, "  shop")
	fmt.Fprintln(out, "  buy <item_id>")
	fmt.Fprintln(out, "  solutions [category]")
	fmt.Fprintln(out, "  unlock <solution # or id>")
	fmt.Fprintln(out, "  view <solution # or id>")
	fmt.Fprintln(out, "  owned")
	fmt.Fprintln(out, "  stats")
	fmt.Fprintln(out, "  exit")
}

// resolveListed maps a 1-based index from the last listing to its id, and
// passes anything else through unchanged.
func resolveListed(arg string, ids []string) (string, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	if index < 1 || index > len(ids) {
		return "", fmt.Errorf("no listed entry #%d", index)
	}
	return ids[index-1], nil
}

func parseReps(arg string) (int, error) {
	value, err := strconv.Atoi(arg)
	if err != nil || value < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return value, nil
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("study service unavailable at %s", serverURL)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusPaymentRequired:
			return fmt.Errorf("not enough tokens: %s", apiErr.Message)
		case http.StatusUnauthorized:
			return fmt.Errorf("not signed in: %s", apiErr.Message)
		}
	}
	return err
}

func shorten(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(strings.TrimSpace(text), "\n", "\n  ")
}
