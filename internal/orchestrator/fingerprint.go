package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/pkg/coerce"
)

type fingerprintInput struct {
	ExpenseMode string            `json:"expenseMode"`
	Property    map[string]string `json:"property"`
}

// Fingerprint hashes the analysis inputs by value. Scalars are normalized
// with coerce.Normalize, so 450000, 450000.0 and "450000" hash equally, and
// absent or empty fields are dropped. encoding/json writes map keys in sorted
// order, so insertion order does not matter either.
func Fingerprint(p property.Property, mode analysis.ExpenseMode) (string, error) {
	values := make(map[string]string, len(p))
	for _, key := range p.Keys() {
		value, err := canonicalValue(p[key])
		if err != nil {
			return "", fmt.Errorf("failed to encode field %s: %w", key, err)
		}
		if value != "" {
			values[key] = value
		}
	}

	canonical, err := json.Marshal(fingerprintInput{ExpenseMode: mode.String(), Property: values})
	if err != nil {
		return "", fmt.Errorf("failed to encode inputs: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalValue normalizes scalars and falls back to JSON for composite
// values such as nested maps or slices.
func canonicalValue(v interface{}) (string, error) {
	switch v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return coerce.Normalize(v), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
