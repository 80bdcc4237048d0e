package encryption

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"gitlite/internal/vcs"
)

var (
	scrambleMagic   = []byte("gitlite-scramble\n")
	errNotScrambled = errors.New("not produced by the test encryptor")
)

// scrambleKey is XORed into every byte after the magic line.
const scrambleKey = 0xA5

// TestEncryptor is the "test" encryption type: a keyless, reversible
// scramble. Stored blobs never contain the plaintext, and every passphrase
// unlocks.
type TestEncryptor struct {
	setups int
}

// NewTestEncryptor returns a TestEncryptor; it needs no Setup.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(string) error {
	e.setups++
	return nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(scrambleMagic); err != nil {
		return fmt.Errorf("writing scramble header: %w", err)
	}
	return scramble(r, w)
}

func (e *TestEncryptor) Unlock(string) (vcs.DecryptionContext, error) {
	return TestDecryptionContext{}, nil
}

// TestDecryptionContext reverses TestEncryptor.Encrypt.
type TestDecryptionContext struct{}

func (TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	magic := make([]byte, len(scrambleMagic))
	if _, err := io.ReadFull(br, magic); err != nil || !bytes.Equal(magic, scrambleMagic) {
		return errNotScrambled
	}
	return scramble(br, w)
}

func scramble(r io.Reader, w io.Writer) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for i := range buf[:n] {
				buf[i] ^= scrambleKey
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing scrambled data: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading data: %w", err)
		}
	}
}

var (
	_ vcs.Encryptor         = (*TestEncryptor)(nil)
	_ vcs.DecryptionContext = TestDecryptionContext{}
)
