package wire

import (
	"encoding/json"
	"testing"

	"couples-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object field", `{"quiz_id":12,"title":"x"}`, `{"quiz_id":"12","title":"x"}`},
		{"last field", `{"quiz_id":12}`, `{"quiz_id":"12"}`},
		{"array of objects", `[{"id":1},{"id":-2}]`, `[{"id":"1"},{"id":"-2"}]`},
		{"whitespace around", `{"id" : 7 , "n": 8 }`, `{"id" : "7" , "n": "8" }`},
		{"digits inside string", `{"id":"abc123"}`, `{"id":"abc123"}`},
		{"number-looking string value", `{"note":"\"a\":1,"}`, `{"note":"\"a\":1,"}`},
		{"float untouched", `{"score":1.5}`, `{"score":1.5}`},
		{"exponent untouched", `{"score":1e5}`, `{"score":1e5}`},
		{"bare array element untouched", `[1,2,3]`, `[1,2,3]`},
		{"booleans untouched", `{"ok":true,"n":null}`, `{"ok":true,"n":null}`},
		{"nested", `{"a":{"b":[{"c":3}]}}`, `{"a":{"b":[{"c":"3"}]}}`},
		{"empty", ``, ``},
		{"unterminated string", `{"id":"12`, `{"id":"12`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Repair([]byte(tt.in))))
		})
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		`[{"quiz_id":5,"created_at":1700000000,"answered_at":"2024-01-01T00:00:00Z"}]`,
		`{"id":"abc123","mood_scale":4,"mood_status":"ok 100%"}`,
		"{\n  \"id\": 9\n}",
	}

	for _, in := range inputs {
		once := Repair([]byte(in))
		twice := Repair(once)
		assert.Equal(t, string(once), string(twice))
		assert.True(t, json.Valid(once), "repaired output should be valid JSON: %s", once)
	}
}

func TestDecode(t *testing.T) {
	var got []map[string]string
	err := Decode([]byte(`[{"quiz_id":12345678901234567890}]`), &got)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12345678901234567890", got[0]["quiz_id"])
}

func TestDecode_Malformed(t *testing.T) {
	var got []map[string]string
	err := Decode([]byte(`<html>502 Bad Gateway</html>`), &got)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrMalformedResponse))
}
