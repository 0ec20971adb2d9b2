package inventory

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// FingerprintLength is the number of hex digits in every fingerprint.
const FingerprintLength = 16

// Fingerprint hashes everything read from r with xxHash64 and renders the
// digest as a zero-padded lowercase hex string.
func Fingerprint(r io.Reader) (string, error) {
	digest := xxhash.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", err
	}
	return FormatFingerprint(digest.Sum64()), nil
}

// FormatFingerprint renders a digest as 16 lowercase hex digits.
func FormatFingerprint(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// FingerprintFile opens path and fingerprints its content in a single pass.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	fp, err := Fingerprint(f)
	if err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return fp, nil
}
