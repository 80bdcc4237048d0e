package vcs

import (
	"context"
	"io"
)

// Vault stores version content addressed by its SHA-256 checksum.
// Content is streamed so large files never need to be held twice.
type Vault interface {
	// PutContent stores content identified by its checksum.
	// Storing the same checksum more than once is safe.
	// size is the number of bytes that will be read from r.
	PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error

	// GetContent retrieves content by checksum and writes it to w.
	GetContent(ctx context.Context, checksum string, w io.Writer) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}

// Encryptor encrypts content before it reaches the vault.
// Encryption needs only the public key. Decryption needs a DecryptionContext
// obtained by unlocking the private key with a passphrase.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `gitlite config init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist at configured paths.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for one session.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
