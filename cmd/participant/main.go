// Command participant is a CLI for taking part in a session: joining,
// submitting encrypted solutions and inspecting session state.
//
// # Usage
//
//	go run ./cmd/participant join -host http://localhost:8080 -session race-1 -addr alice -balance 100
//	go run ./cmd/participant submit -host http://localhost:8080 -session race-1 -addr alice -solution "H2O is water"
//	go run ./cmd/participant state -host http://localhost:8080 -session race-1 -addr alice
//
// Solutions are encrypted against the evaluator public key published
// in the session config; only the evaluator ever sees the plaintext.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/zhouhanhanhan/sciencegame/services"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	var (
		hostURL  = fs.String("host", "http://localhost:8080", "Session host base URL")
		session  = fs.String("session", "", "Session ID")
		addr     = fs.String("addr", "", "Participant identity")
		balance  = fs.Uint64("balance", 0, "Starting balance (join)")
		solution = fs.String("solution", "", "Solution content (submit)")
	)
	fs.Parse(os.Args[2:])

	if *session == "" || *addr == "" {
		fmt.Println("Error: -session and -addr are required")
		os.Exit(1)
	}

	client := services.NewParticipantClient(*hostURL, *session, *addr)
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "join":
		err = client.Join(ctx, *balance)
		if err == nil {
			fmt.Printf("joined session %s as %s\n", *session, *addr)
		}
	case "submit":
		if *solution == "" {
			fmt.Println("Error: -solution is required")
			os.Exit(1)
		}
		err = client.SubmitSolution(ctx, *solution)
		if err == nil {
			fmt.Println("solution submitted")
		}
	case "state":
		var out any
		out, err = client.State(ctx)
		if err == nil {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			err = enc.Encode(out)
		}
	case "balance":
		var b uint64
		b, err = client.Balance(ctx)
		if err == nil {
			fmt.Println(b)
		}
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: participant <join|submit|state|balance> [flags]")
	fmt.Println("Run 'participant <command> -h' for command flags")
}
