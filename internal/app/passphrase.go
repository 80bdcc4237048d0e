package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PassphraseEnv overrides the interactive passphrase prompt.
const PassphraseEnv = "GITLITE_PASSPHRASE"

// ReadPassphrase returns the passphrase from the environment or prompts for
// it on the terminal without echo.
func ReadPassphrase(prompt string, in *os.File, out io.Writer) (string, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p, nil
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for passphrase without a terminal; set %s", PassphraseEnv)
	}
	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(b), nil
}
