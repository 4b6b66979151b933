package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"06:30": 390,
		"12:00": 720,
		"23:59": 1439,
	}
	for input, want := range cases {
		got, err := ParseHHMM(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseHHMMInvalid(t *testing.T) {
	for _, input := range []string{"", "24:00", "12:60", "9:00", "12:5", "12-30", "noon", "12:30:00"} {
		_, err := ParseHHMM(input)
		assert.Error(t, err, input)
	}
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "00:00", FormatHHMM(0))
	assert.Equal(t, "06:30", FormatHHMM(390))
	assert.Equal(t, "23:59", FormatHHMM(1439))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "07:45", "13:05", "23:59"} {
		m, err := ParseHHMM(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatHHMM(m))
	}
}
