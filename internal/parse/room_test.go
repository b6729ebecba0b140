package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoomNumber(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedRoom
		expectErr bool
	}{
		{
			name:     "Three digits",
			raw:      "305",
			expected: ParsedRoom{Floor: 3, Seq: 5, Number: "305"},
		},
		{
			name:     "Four digits",
			raw:      "1204",
			expected: ParsedRoom{Floor: 12, Seq: 4, Number: "1204"},
		},
		{
			name:     "Room prefix and spaces",
			raw:      "  Room 217 ",
			expected: ParsedRoom{Floor: 2, Seq: 17, Number: "217"},
		},
		{
			name:     "Wing letter with dash",
			raw:      "b-414",
			expected: ParsedRoom{Wing: "B", Floor: 4, Seq: 14, Number: "B414"},
		},
		{
			name:     "Hash separator",
			raw:      "#503",
			expected: ParsedRoom{Floor: 5, Seq: 3, Number: "503"},
		},
		{
			name:      "Too short",
			raw:       "12",
			expectErr: true,
		},
		{
			name:      "Ground floor zero",
			raw:       "012",
			expectErr: true,
		},
		{
			name:      "Not a number",
			raw:       "penthouse",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseRoomNumber(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, parsed)
		})
	}
}
