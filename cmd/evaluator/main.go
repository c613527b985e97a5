// Command evaluator runs the privileged evaluator loop for one session.
//
// The evaluator holds the session's RSA private key. It polls the host
// for pending encrypted submissions, decrypts each one, derives its
// canonical solution key and posts the verdict back to the host.
//
// # Usage
//
//	go run ./cmd/evaluator --host=http://localhost:8080 --session=race-1 --key=evaluator.pem
//
// Without --key an ephemeral key pair is generated; it is only useful
// against sessions created with the matching public key, so in
// practice generate a pair first with ./cmd/keygen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zhouhanhanhan/sciencegame/cmd/common"
	"github.com/zhouhanhanhan/sciencegame/services"
)

func main() {
	var (
		hostURL  = flag.String("host", "http://localhost:8080", "Session host base URL")
		session  = flag.String("session", "", "Session ID to evaluate")
		keyPath  = flag.String("key", "", "Path to evaluator RSA private key PEM")
		token    = flag.String("token", os.Getenv("EVALUATOR_TOKEN"), "Evaluator bearer token")
		interval = flag.Duration("interval", services.DefaultPollInterval, "Poll interval when idle")
		logJSON  = flag.Bool("log-json", false, "Log in JSON format")
	)
	flag.Parse()

	if *session == "" {
		fmt.Println("Error: --session is required")
		os.Exit(1)
	}

	log := common.SetupLogger(*logJSON, "evaluator")

	key, err := common.LoadOrGeneratePrivateKey(*keyPath)
	if err != nil {
		fmt.Printf("Error loading key: %v\n", err)
		os.Exit(1)
	}

	evaluator := services.NewEvaluatorService(*hostURL, *session, *token, key, log)
	evaluator.SetPollInterval(*interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down evaluator")
		cancel()
	}()

	log.Info("evaluator started", "host", *hostURL, "session", *session, "interval", *interval)
	if err := evaluator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
