package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		input string
		count int
		sides int
		bonus int
	}{
		{"1d8+4", 1, 8, 4},
		{"2d6", 2, 6, 0},
		{"8d6", 8, 6, 0},
		{"1d10 + 2", 1, 10, 2},
		{"3d4-1", 3, 4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormula(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.count, f.Count)
			assert.Equal(t, tt.sides, f.Sides)
			assert.Equal(t, tt.bonus, f.Bonus)
		})
	}
}

func TestParseFormulaRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "d6", "2d", "fire", "0d6", "2d0", "1d8+"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFormula(input)
			assert.Error(t, err)
		})
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1d8+4", 8},
		{"8d6", 28},
		{"1d10", 5},
		{"2d8+2", 11},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormula(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Average())
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1d8+4", Normalize("1d8 + 4"))
	assert.Equal(t, "2d6", Normalize(" 2d6 "))
	// unparseable input is passed through trimmed
	assert.Equal(t, "weird", Normalize(" weird "))
}
