package catalog

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes the canonical YAML encoding of the snapshot. Two
// snapshots have the same fingerprint exactly when they encode to the same
// YAML.
func (s *Snapshot) Fingerprint() (string, error) {
	data, err := s.EncodeYAML()
	if err != nil {
		return "", err
	}

	h := xxh3.Hash128(data)

	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo), nil
}
