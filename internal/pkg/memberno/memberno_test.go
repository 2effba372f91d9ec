package memberno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "SESI-2025-0001", Format(2025, 1))
	assert.Equal(t, "SESI-2025-0420", Format(2025, 420))
	assert.Equal(t, "SESI-2025-9999", Format(2025, 9999))
	assert.Equal(t, "SESI-2025-10000", Format(2025, 10000))
	assert.Equal(t, "SESI-2026-", YearPrefix(2026))
}

func TestParseRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 9, 10, 999, 1000, 9998, 9999, 10000, 123456} {
		s := Format(2031, seq)
		n, ok := Parse(s)
		require.True(t, ok, s)
		assert.Equal(t, 2031, n.Year)
		assert.Equal(t, seq, n.Sequence)
		assert.Equal(t, s, n.String())
	}
}

func TestParseRejectsNonConforming(t *testing.T) {
	for _, s := range []string{
		"",
		"SESI-25-0001",
		"SESI-2025-01",
		"SESI-2025-00A1",
		"SESI-2025-0000",
		"sesi-2025-0001",
		"ABCD-2025-0001",
		"SESI-2025",
		"SESI-20255-0001",
	} {
		_, ok := Parse(s)
		assert.False(t, ok, s)
	}
}

func TestNext(t *testing.T) {
	t.Run("empty year starts at one", func(t *testing.T) {
		assert.Equal(t, "SESI-2025-0001", Next(nil, 2025))
	})

	t.Run("skips other years and legacy shapes", func(t *testing.T) {
		existing := []string{
			"SESI-2025-0007",
			"SESI-2025-0003",
			"SESI-2024-0099",
			"SESI-25-12",
			"garbage",
		}
		assert.Equal(t, "SESI-2025-0008", Next(existing, 2025))
		assert.Equal(t, "SESI-2024-0100", Next(existing, 2024))
	})

	t.Run("widens past 9999", func(t *testing.T) {
		assert.Equal(t, "SESI-2025-10000", Next([]string{"SESI-2025-9999"}, 2025))
		assert.Equal(t, "SESI-2025-10001", Next([]string{"SESI-2025-9999", "SESI-2025-10000"}, 2025))
	})
}
