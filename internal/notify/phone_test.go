package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare local number", "9876543210", "919876543210", true},
		{"formatted local number", "98765-43210", "919876543210", true},
		{"with country code", "919876543210", "919876543210", true},
		{"plus prefix", "+91 98765 43210", "919876543210", true},
		{"leading zero", "09876543210", "919876543210", true},
		{"double zero prefix", "00919876543210", "919876543210", true},
		{"other country code", "4479460123456", "4479460123456", true},
		{"too short", "12345", "", false},
		{"empty", "", "", false},
		{"letters only", "call me", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizePhone(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "9876543210", LocalPart("919876543210"))
	assert.Equal(t, "4479460123456", LocalPart("4479460123456"))
}
