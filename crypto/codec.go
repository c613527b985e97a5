package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrCrypto indicates an encryption or decryption failure.
	ErrCrypto = errors.New("crypto operation failed")

	// ErrEncoding indicates a message (de)serialization failure.
	ErrEncoding = errors.New("message encoding failed")
)

// Message is the structured payload exchanged between participants and
// the evaluator. Sender carries the submitting participant's identity
// and Content the opaque solution content.
type Message struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// EncodeMessage serializes a message to its canonical JSON byte encoding.
func EncodeMessage(msg *Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// DecodeMessageBytes deserializes a message from its canonical JSON encoding.
func DecodeMessageBytes(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return &msg, nil
}

// Encrypt serializes a message and encrypts it for the evaluator's
// public key using RSA-PKCS1v15. The scheme is randomized: two
// encryptions of identical plaintext with the same key differ.
func Encrypt(msg *Message, evaluatorKey *rsa.PublicKey) ([]byte, error) {
	plaintext, err := EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	// PKCS1v15 caps plaintext at modulus size minus 11 bytes of padding.
	if len(plaintext) > evaluatorKey.Size()-11 {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds key payload capacity of %d bytes",
			ErrCrypto, len(plaintext), evaluatorKey.Size()-11)
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, evaluatorKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return ciphertext, nil
}

// Decrypt decrypts a ciphertext with the evaluator's private key and
// deserializes the embedded message.
func Decrypt(ciphertext []byte, evaluatorKey *rsa.PrivateKey) (*Message, error) {
	plaintext, err := rsa.DecryptPKCS1v15(nil, evaluatorKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return DecodeMessageBytes(plaintext)
}
