package testutil

import (
	"crypto/rsa"
	"sync"
	"time"

	"github.com/zhouhanhanhan/sciencegame/crypto"
)

// GenerateTestKeyPair creates an evaluator RSA key pair for testing.
func GenerateTestKeyPair() (*rsa.PrivateKey, *rsa.PublicKey) {
	priv, pub, err := crypto.GenerateKeyPair(crypto.DefaultRSAKeyBits)
	if err != nil {
		panic(err)
	}
	return priv, pub
}

// MustEncrypt encrypts a message for the evaluator's key, panicking on
// failure.
func MustEncrypt(msg *crypto.Message, pub *rsa.PublicKey) []byte {
	ciphertext, err := crypto.Encrypt(msg, pub)
	if err != nil {
		panic(err)
	}
	return ciphertext
}

// MustEncodePublicKeyPEM encodes an RSA public key to PEM, panicking
// on failure.
func MustEncodePublicKeyPEM(pub *rsa.PublicKey) string {
	pemStr, err := crypto.EncodePublicKeyPEM(pub)
	if err != nil {
		panic(err)
	}
	return pemStr
}

// ArmedTimeout records one timer armed through the Effect interface.
type ArmedTimeout struct {
	Addr    string
	Timeout time.Duration
}

// RecordingEffect implements game.Effect and records armed timers
// instead of scheduling them.
type RecordingEffect struct {
	mu             sync.Mutex
	ActionTimeouts []ArmedTimeout
	WaitTimeouts   []time.Duration
}

func (e *RecordingEffect) ActionTimeout(addr string, timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ActionTimeouts = append(e.ActionTimeouts, ArmedTimeout{Addr: addr, Timeout: timeout})
}

func (e *RecordingEffect) WaitTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.WaitTimeouts = append(e.WaitTimeouts, timeout)
}
