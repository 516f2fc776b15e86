package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	table := []struct {
		input    string
		expected Target
	}{
		{input: "confirmed", expected: TargetConfirmed},
		{input: "CONFIRMED", expected: TargetConfirmed},
		{input: " Kitchen ", expected: TargetKitchen},
		{input: "IN_DELIVERY", expected: TargetInDelivery},
		{input: "delivered", expected: TargetDelivered},
	}
	for _, row := range table {
		target, err := ParseTarget(row.input)
		require.NoError(t, err)
		require.Equal(t, row.expected, target)
	}

	for _, input := range []string{"bogus", "", "new", "delivery"} {
		_, err := ParseTarget(input)
		require.ErrorIs(t, err, ErrInvalidStatus, input)
	}
}

func TestNewStatusTransition(t *testing.T) {
	transition, err := NewStatusTransition("1234", "confirmed", 0, 0)
	require.NoError(t, err)
	prep, delivery := transition.Durations()
	require.Equal(t, DefaultFoodPreparationMinutes, prep)
	require.Equal(t, DefaultDeliveryTimeMinutes, delivery)

	transition, err = NewStatusTransition("1234", "confirmed", 20, 45)
	require.NoError(t, err)
	prep, delivery = transition.Durations()
	require.Equal(t, 20, prep)
	require.Equal(t, 45, delivery)

	_, err = NewStatusTransition("", "kitchen", 0, 0)
	require.ErrorIs(t, err, ErrNoOrderId)
	require.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewStatusTransition("1234", "bogus", 0, 0)
	require.ErrorIs(t, err, ErrInvalidStatus)
}
