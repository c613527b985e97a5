// Package cmd provides the sciencegame CLI commands.
//
// # Commands
//
// host: Runs the session host service. Orders all actions, applies
// them to the state machine and checkpoints sessions. Uses Postgres
// when POSTGRES_HOST is set, in-memory persistence otherwise.
//
//	go run ./cmd/host --listen-addr=:8080 --metrics-addr=:9090
//
// evaluator: Runs the privileged evaluator loop for one session.
// Decrypts pending submissions and posts verdicts back to the host.
//
//	go run ./cmd/evaluator --host=http://localhost:8080 --session=race-1 --key=evaluator.pem
//
// participant: CLI for joining a session, submitting encrypted
// solutions and inspecting session state.
//
//	go run ./cmd/participant submit -session race-1 -addr alice -solution "H2O is water"
//
// keygen: Generates an evaluator RSA key pair.
//
//	go run ./cmd/keygen --out evaluator.pem
//
// # A complete local run
//
//	go run ./cmd/keygen --out evaluator.pem --pub evaluator.pub
//	go run ./cmd/host &
//	curl -X POST localhost:8080/session -d '{"session_id":"race-1","account_data":{"reward_amount":25,"evaluator_public_key":"'"$(cat evaluator.pub)"'"}}'
//	go run ./cmd/participant join -session race-1 -addr alice -balance 100
//	go run ./cmd/evaluator --session=race-1 --key=evaluator.pem &
//	go run ./cmd/participant submit -session race-1 -addr alice -solution "H2O is water"
package cmd
