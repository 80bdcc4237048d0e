// Package vault implements content stores addressed by SHA-256 checksum.
package vault

import "errors"

// ErrContentNotFound is returned by GetContent for an unknown checksum.
var ErrContentNotFound = errors.New("content not found")
