package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNumberDeterministic(t *testing.T) {
	first := TableNumber("2025-06-01", "19:30")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, TableNumber("2025-06-01", "19:30"))
	}
}

func TestTableNumberRange(t *testing.T) {
	dates := []string{"2025-01-01", "2025-02-14", "2025-12-31"}
	times := []string{"00:00", "12:15", "18:00", "19:30", "23:59"}
	for _, d := range dates {
		for _, tm := range times {
			n := TableNumber(d, tm)
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, TableCount)
		}
	}
}

func TestValidateSlot(t *testing.T) {
	require.NoError(t, ValidateSlot("2025-06-01", "19:30"))

	for _, tc := range [][2]string{
		{"01-06-2025", "19:30"},
		{"2025-06-01", "7pm"},
		{"", ""},
		{"2025-13-01", "10:00"},
	} {
		err := ValidateSlot(tc[0], tc[1])
		require.Error(t, err, tc)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	}
}
