package image

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// Checksum returns the hex-encoded SHA3-256 digest of an image's bytes,
// so a driver can verify an image was not truncated or corrupted before
// handing it to Load.
func Checksum(r io.Reader) (string, error) {
	h := sha3.New256()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("ufork: image: checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum computes the checksum of data and returns an error if it
// differs from want.
func VerifyChecksum(data []byte, want string) error {
	got, err := Checksum(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("ufork: image: checksum mismatch: got %s want %s", got, want)
	}
	return nil
}
