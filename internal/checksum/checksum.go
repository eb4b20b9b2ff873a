// Package checksum computes tamper-detection digests over canonicalized JSON.
//
// Canonical form is the encoding/json rendering of the value after a
// marshal/unmarshal round trip through map[string]any, which sorts all object
// keys. The same canonical form is used on export and on import verification,
// so a digest computed here is stable across runs.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Canonical returns the canonical JSON encoding of v.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("marshal canonical form: %w", err)
	}
	return canonical, nil
}

// Compute returns the hex SHA-256 digest of the canonical JSON encoding of v.
func Compute(v any) (string, error) {
	canonical, err := Canonical(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether the canonical digest of v equals expected.
func Verify(v any, expected string) (bool, error) {
	actual, err := Compute(v)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

// ComputeWithout returns the digest of v's canonical JSON with the named
// top-level field removed. Used for documents that embed their own checksum.
func ComputeWithout(v any, field string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", fmt.Errorf("value is not a JSON object: %w", err)
	}
	delete(m, field)
	return Compute(m)
}
