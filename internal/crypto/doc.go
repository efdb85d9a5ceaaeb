// Package crypto provides the cryptographic primitives behind the vault.
//
// Two AEAD suites are supported, each identified by a one-byte tag:
//   - 0x01 AES-256-GCM (default)
//   - 0x02 ChaCha20-Poly1305
//
// Both use a 32-byte key, a 12-byte random nonce per encryption and a
// 16-byte authentication tag.
//
// Key material lives in a memguard LockedBuffer:
//   - Call Key.Destroy() when done with a key
//   - Use ClearBytes() to zero other sensitive data after use
package crypto
