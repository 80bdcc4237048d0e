package testutil

import (
	"testing"

	"gitlite/internal/vault"
	"gitlite/internal/vcs"
)

// Env bundles a Service with the fakes behind it.
type Env struct {
	Service  *vcs.Service
	Database vcs.Database
	Vault    *vault.MemoryVault
	Clock    *StubClock
	IDs      *StubIDGenerator
}

// NewEnv wires a Service to an in-memory database, a memory vault, a fixed
// clock and sequential IDs.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	env := &Env{
		Database: NewTestDatabase(t),
		Vault:    NewTestVault(),
		Clock:    FixedClock(),
		IDs:      NewStubIDGenerator(),
	}
	env.Service = vcs.NewService(env.Database, env.Vault, vcs.NewNopLogger(), env.Clock, env.IDs)
	return env
}
