package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opinity/proposal-generator/internal/types"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		engineers, hours int
		want             int64
	}{
		{1, 1, 140},
		{2, 80, 22400},
		{10, 500, 700000},
		{3, 37, 15540},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compute(tt.engineers, tt.hours))
	}
}

func TestCompute_MatchesFormula(t *testing.T) {
	for e := 1; e <= 10; e++ {
		for h := 10; h <= 500; h += 10 {
			assert.Equal(t, int64(e*h*HourlyRate), Compute(e, h))
		}
	}
}

func TestCompute_LargeInputsDoNotOverflowInt32(t *testing.T) {
	assert.Equal(t, int64(100000)*100000*140, Compute(100000, 100000))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "22,400", FormatNumber(22400, types.LanguageEnglish))
	assert.Equal(t, "22.400", FormatNumber(22400, types.LanguageDutch))
	assert.Equal(t, "140", FormatNumber(140, types.LanguageDutch))
	assert.Equal(t, "1,400,000", FormatNumber(1400000, types.LanguageEnglish))
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "€22,400", FormatEuro(22400, types.LanguageEnglish))
	assert.Equal(t, "€22.400", FormatEuro(22400, types.LanguageDutch))
}

func TestEstimateFor(t *testing.T) {
	est := EstimateFor(types.GenerationConfig{Engineers: 2, Hours: 80}, types.LanguageDutch)

	assert.Equal(t, 2, est.Engineers)
	assert.Equal(t, 80, est.Hours)
	assert.Equal(t, HourlyRate, est.Rate)
	assert.Equal(t, int64(22400), est.Total)
	assert.Equal(t, "€22.400", est.Formatted)
}

func TestConstants(t *testing.T) {
	assert.Equal(t, 140, HourlyRate)
	assert.Equal(t, 1600, VSMSessionPrice)
}
