package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "upper case", input: "AA:BB:CC:DD:EE:FF", want: "AA:BB:CC:DD:EE:FF", ok: true},
		{name: "lower case normalized", input: "aa:bb:cc:dd:ee:ff", want: "AA:BB:CC:DD:EE:FF", ok: true},
		{name: "mixed case", input: "00:1a:2B:3c:4D:5e", want: "00:1A:2B:3C:4D:5E", ok: true},
		{name: "too few octets", input: "AA:BB:CC:DD:EE", ok: false},
		{name: "too many octets", input: "AA:BB:CC:DD:EE:FF:00", ok: false},
		{name: "non-hex octet", input: "AA:BB:CC:DD:EE:GG", ok: false},
		{name: "wrong separator", input: "AA-BB-CC-DD-EE-FF", ok: false},
		{name: "short octet", input: "A:BB:CC:DD:EE:FF", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.input)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
