// Package digest fingerprints datasets independently of key order and
// number formatting, using RFC 8785 (JCS) canonical JSON.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/futig/qagen/internal/entity"
	"github.com/gowebpki/jcs"
)

// CanonicalizeJSON returns the RFC 8785 (JCS) canonical form of JSON input.
func CanonicalizeJSON(input []byte) ([]byte, error) {
	return jcs.Transform(input)
}

// DigestJCS canonicalizes JSON (RFC 8785) and returns a sha256 hex digest.
func DigestJCS(input []byte) (string, error) {
	canonical, err := CanonicalizeJSON(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Pairs returns the digest of the ordered pair list.
func Pairs(pairs []entity.QAPair) (string, error) {
	if pairs == nil {
		pairs = []entity.QAPair{}
	}

	raw, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("marshal pairs: %w", err)
	}

	return DigestJCS(raw)
}
