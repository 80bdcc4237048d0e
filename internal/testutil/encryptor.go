package testutil

import (
	"gitlite/internal/encryption"
	"gitlite/internal/vcs"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() vcs.Encryptor {
	return encryption.NewTestEncryptor()
}
