// Command keygen generates an evaluator RSA key pair.
//
// The private key PEM goes to --out for the evaluator process; the
// public key PEM goes to stdout (or --pub) for the session creation
// payload.
//
// # Usage
//
//	go run ./cmd/keygen --out evaluator.pem --pub evaluator.pub
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zhouhanhanhan/sciencegame/crypto"
)

func main() {
	var (
		out  = flag.String("out", "evaluator.pem", "Private key output path")
		pub  = flag.String("pub", "", "Public key output path (default stdout)")
		bits = flag.Int("bits", crypto.DefaultRSAKeyBits, "RSA key size in bits")
	)
	flag.Parse()

	priv, pubKey, err := crypto.GenerateKeyPair(*bits)
	if err != nil {
		fatal(err)
	}

	privPEM, err := crypto.EncodePrivateKeyPEM(priv)
	if err != nil {
		fatal(err)
	}
	if err := os.WriteFile(*out, []byte(privPEM), 0o600); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "private key written to %s\n", *out)

	pubPEM, err := crypto.EncodePublicKeyPEM(pubKey)
	if err != nil {
		fatal(err)
	}
	if *pub == "" {
		fmt.Print(pubPEM)
		return
	}
	if err := os.WriteFile(*pub, []byte(pubPEM), 0o644); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "public key written to %s\n", *pub)
}

func fatal(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
