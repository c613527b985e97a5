package crypto

import (
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicKeyPEMRoundTrip(t *testing.T) {
	_, pub := testKeyPair(t)

	pemStr, err := EncodePublicKeyPEM(pub)
	require.NoError(t, err)
	require.Contains(t, pemStr, "BEGIN PUBLIC KEY")

	parsed, err := ParsePublicKeyPEM(pemStr)
	require.NoError(t, err)
	require.True(t, pub.Equal(parsed))
}

func TestParsePublicKeyPKCS1(t *testing.T) {
	_, pub := testKeyPair(t)

	der := x509.MarshalPKCS1PublicKey(pub)
	pemStr := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der}))

	parsed, err := ParsePublicKeyPEM(pemStr)
	require.NoError(t, err)
	require.True(t, pub.Equal(parsed))
}

func TestPrivateKeyPEMRoundTrip(t *testing.T) {
	priv, _ := testKeyPair(t)

	pemStr, err := EncodePrivateKeyPEM(priv)
	require.NoError(t, err)

	parsed, err := ParsePrivateKeyPEM(pemStr)
	require.NoError(t, err)
	require.True(t, priv.Equal(parsed))
}

func TestParsePrivateKeyPKCS1(t *testing.T) {
	priv, _ := testKeyPair(t)

	der := x509.MarshalPKCS1PrivateKey(priv)
	pemStr := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}))

	parsed, err := ParsePrivateKeyPEM(pemStr)
	require.NoError(t, err)
	require.True(t, priv.Equal(parsed))
}

func TestParseKeyErrors(t *testing.T) {
	_, err := ParsePublicKeyPEM("not pem at all")
	require.ErrorIs(t, err, ErrEncoding)

	_, err = ParsePrivateKeyPEM("")
	require.ErrorIs(t, err, ErrEncoding)

	pemStr := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}}))
	_, err = ParsePublicKeyPEM(pemStr)
	require.ErrorIs(t, err, ErrEncoding)
}
