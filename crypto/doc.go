// Package crypto provides the cryptographic primitives for the
// submission/evaluation workflow.
//
// The central primitive is one-way public-key confidentiality: any
// participant can encrypt a solution for the evaluator without a shared
// secret or prior handshake, while only the evaluator (holder of the
// private key) can read submitted content. This is implemented as
// RSA-PKCS1v15 encryption of a JSON-serialized Message.
//
// The package also provides:
//
//   - PEM encoding and parsing for RSA key material (PKIX and PKCS1
//     public keys, PKCS8 and PKCS1 private keys)
//   - SolutionKey, the canonical result-key digest used for
//     deduplication of accepted solutions
//
// The package is pure and stateless; it has no knowledge of game rules.
// Note: RSA-PKCS1v15 constrains plaintext length relative to the key
// modulus, so solution content must stay within the key's payload
// capacity.
package crypto
