//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap turns a request DTO into its JSON object form so tests can send
// payloads the DTO type itself cannot express.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets key, or removes it when value is nil.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// SeatField rewrites one key of the i-th entry of the "seats" array.
func SeatField(i int, key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		seats, ok := m["seats"].([]any)
		if !ok || i >= len(seats) {
			return
		}
		if seat, ok := seats[i].(map[string]any); ok {
			Field(key, value)(seat)
		}
	}
}
