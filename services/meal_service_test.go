package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMealType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lunch", "Lunch"},
		{"LUNCH", "Lunch"},
		{"Lunch", "Lunch"},
		{"breakfast", "Breakfast"},
		{"dinner", "Dinner"},
		{"sNaCk", "Snack"},
	}
	for _, tt := range tests {
		got, err := NormalizeMealType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeMealTypeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"brunch", "", "supper", "Lunch "} {
		_, err := NormalizeMealType(in)
		assert.ErrorIs(t, err, ErrInvalidMealType, in)
	}
}

func TestPlanTotalCost(t *testing.T) {
	assert.InDelta(t, 108.5, PlanTotalCost(15.5, 7), 1e-9)
	assert.InDelta(t, 0, PlanTotalCost(0, 7), 1e-9)
	assert.InDelta(t, 31, PlanTotalCost(15.5, 2), 1e-9)
}
