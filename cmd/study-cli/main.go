package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"study-app/internal/userclient"
)

func main() {
	user := flag.String("user", "", "user id (UUID); optional when --token is set")
	server := flag.String("server", "http://127.0.0.1:8080", "study service base URL")
	token := flag.String("token", os.Getenv("STUDY_TOKEN"), "bearer token for authenticated servers")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	if *user == "" && *token == "" {
		fmt.Fprintln(os.Stderr, "error: --user or --token is required")
		os.Exit(1)
	}

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		UserID:      *user,
		ServerURL:   *server,
		Token:       *token,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
