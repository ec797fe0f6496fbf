package breakdown

import (
	"errors"
	"testing"

	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_ReferenceTable(t *testing.T) {
	tests := []struct {
		days int
		want []Stage
	}{
		{1, []Stage{{"X - 100%", 100}}},
		{2, []Stage{{"X - 50%", 50}, {"X - 100%", 100}}},
		{3, []Stage{{"X - 33%", 33}, {"X - 67%", 67}, {"X - 100%", 100}}},
		{4, []Stage{{"X - 25%", 25}, {"X - 50%", 50}, {"X - 75%", 75}, {"X - 100%", 100}}},
	}

	for _, tt := range tests {
		got, err := Breakdown("X", tt.days)
		require.NoError(t, err, "days=%d", tt.days)
		assert.Equal(t, tt.want, got, "days=%d", tt.days)
	}
}

func TestBreakdown_InvariantsForAllDays(t *testing.T) {
	for days := 1; days <= MaxDays; days++ {
		stages, err := Breakdown("Task", days)
		require.NoError(t, err)
		require.Len(t, stages, days, "days=%d", days)

		prev := 0
		for i, s := range stages {
			assert.Greater(t, s.Percentage, prev, "days=%d stage=%d not strictly increasing", days, i)
			assert.LessOrEqual(t, s.Percentage, 100)
			prev = s.Percentage
		}
		assert.Equal(t, 100, stages[len(stages)-1].Percentage, "days=%d must end at 100", days)
	}
}

func TestBreakdown_RoundsHalfUp(t *testing.T) {
	// 100/8 = 12.5, 300/8 = 37.5
	pcts, err := Percentages(8)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 25, 38, 50, 63, 75, 88, 100}, pcts)
}

func TestBreakdown_Deterministic(t *testing.T) {
	first, err := Breakdown("1. Montagem do painel", 7)
	require.NoError(t, err)
	second, err := Breakdown("1. Montagem do painel", 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBreakdown_InvalidDays(t *testing.T) {
	for _, days := range []int{0, -1, MaxDays + 1} {
		_, err := Breakdown("X", days)
		require.Error(t, err, "days=%d", days)

		var ide *domain.InvalidDaysError
		require.True(t, errors.As(err, &ide), "days=%d should be InvalidDaysError", days)
		assert.Equal(t, days, ide.Days)
		assert.Equal(t, "X", ide.Task)
	}
}

func TestPercentages_Invalid(t *testing.T) {
	_, err := Percentages(0)
	var ide *domain.InvalidDaysError
	assert.True(t, errors.As(err, &ide))
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "2. Cabeamento - 67%", FormatLabel("2. Cabeamento", 67))
}
