package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const (
	pemTypePublicKey      = "PUBLIC KEY"
	pemTypeRSAPublicKey   = "RSA PUBLIC KEY"
	pemTypePrivateKey     = "PRIVATE KEY"
	pemTypeRSAPrivateKey  = "RSA PRIVATE KEY"
	DefaultRSAKeyBits     = 2048
)

// GenerateKeyPair generates a fresh RSA key pair for an evaluator.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return priv, &priv.PublicKey, nil
}

// EncodePublicKeyPEM encodes an RSA public key as a PKIX PEM string,
// the format carried in the session initialization payload.
func EncodePublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der})), nil
}

// ParsePublicKeyPEM parses a PEM-encoded RSA public key. Both PKIX
// ("PUBLIC KEY") and PKCS1 ("RSA PUBLIC KEY") encodings are accepted.
func ParsePublicKeyPEM(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrEncoding)
	}

	switch block.Type {
	case pemTypePublicKey:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", ErrEncoding)
		}
		return rsaKey, nil
	case pemTypeRSAPublicKey:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", ErrEncoding, block.Type)
	}
}

// EncodePrivateKeyPEM encodes an RSA private key as a PKCS8 PEM string.
func EncodePrivateKeyPEM(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der})), nil
}

// ParsePrivateKeyPEM parses a PEM-encoded RSA private key. Both PKCS8
// ("PRIVATE KEY") and PKCS1 ("RSA PRIVATE KEY") encodings are accepted.
func ParsePrivateKeyPEM(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrEncoding)
	}

	switch block.Type {
	case pemTypePrivateKey:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", ErrEncoding)
		}
		return rsaKey, nil
	case pemTypeRSAPrivateKey:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", ErrEncoding, block.Type)
	}
}
