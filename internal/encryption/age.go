package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
	"filippo.io/age/armor"

	"gitlite/internal/config"
	"gitlite/internal/vcs"
)

// ErrKeysExist is returned by Setup when a key pair is already present.
var ErrKeysExist = errors.New("encryption keys already exist")

// AgeEncryptor encrypts content for an X25519 recipient with filippo.io/age.
// The public key is stored in plaintext. The private key is stored
// ASCII-armored and encrypted with the user's passphrase (scrypt).
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string

	mu        sync.Mutex
	recipient age.Recipient
}

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a key pair. It refuses to replace existing keys, since
// content encrypted for them would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	if e.IsConfigured() {
		return ErrKeysExist
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	if err := os.WriteFile(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	var sealed bytes.Buffer
	if err := sealPrivateKey(&sealed, identity, passphrase); err != nil {
		return err
	}
	if err := os.WriteFile(e.privateKeyPath, sealed.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	return nil
}

func sealPrivateKey(w io.Writer, identity *age.X25519Identity, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	aw := armor.NewWriter(w)
	enc, err := age.Encrypt(aw, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(enc, identity.String()+"\n"); err != nil {
		return fmt.Errorf("writing encrypted private key: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted private key: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// Encrypt reads plaintext from r and writes ciphertext for the stored public key to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.loadRecipient()
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}

	enc, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(enc, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Unlock decrypts the private key with the passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (vcs.DecryptionContext, error) {
	f, err := os.Open(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}
	defer f.Close()

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	dec, err := age.Decrypt(armor.NewReader(f), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting private key: %w", err)
	}

	identities, err := age.ParseIdentities(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in private key")
	}
	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// IsConfigured returns true if both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// loadRecipient parses the public key and keeps it once it loaded successfully.
func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.recipient != nil {
		return e.recipient, nil
	}

	data, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in public key file")
	}
	e.recipient = recipients[0]
	return e.recipient, nil
}

// AgeDecryptionContext holds an unlocked age identity.
type AgeDecryptionContext struct {
	identity age.Identity
}

// Decrypt reads age ciphertext from r and writes plaintext to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	dec, err := age.Decrypt(r, c.identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, dec); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

var (
	_ vcs.Encryptor         = (*AgeEncryptor)(nil)
	_ vcs.DecryptionContext = (*AgeDecryptionContext)(nil)
)
