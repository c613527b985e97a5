// Package common provides shared utilities for the sciencegame CLI
// commands: logger setup, environment-based configuration and RSA key
// loading for the evaluator.
package common

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/services"
)

// SetupLogger creates the process-wide structured logger and installs
// it as the slog default.
func SetupLogger(json bool, service string) *slog.Logger {
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	log := slog.New(handler).With("service", service)
	slog.SetDefault(log)
	return log
}

// LoadServiceConfig parses the service configuration from the
// environment.
func LoadServiceConfig() (*services.ServiceConfig, error) {
	cfg, err := env.ParseAs[services.ServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// LoadOrGeneratePrivateKey loads an evaluator RSA private key from a
// PEM file, or generates a fresh pair and writes it to path when the
// file does not exist. An empty path generates an ephemeral key.
func LoadOrGeneratePrivateKey(path string) (*rsa.PrivateKey, error) {
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return crypto.ParsePrivateKeyPEM(string(data))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
	}

	priv, _, err := crypto.GenerateKeyPair(crypto.DefaultRSAKeyBits)
	if err != nil {
		return nil, err
	}

	if path != "" {
		pemStr, err := crypto.EncodePrivateKeyPEM(priv)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(pemStr), 0o600); err != nil {
			return nil, fmt.Errorf("writing key file: %w", err)
		}
	}
	return priv, nil
}

// LoadPrivateKey loads an evaluator RSA private key from a PEM file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return crypto.ParsePrivateKeyPEM(string(data))
}
