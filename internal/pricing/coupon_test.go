package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateKnownCoupon(t *testing.T) {
	e := NewEvaluator(map[string]int{"WELCOME10": 10})

	discount, err := e.Evaluate("WELCOME10", 8000)
	require.NoError(t, err)
	assert.Equal(t, int64(800), discount)
}

func TestEvaluateIsCaseInsensitive(t *testing.T) {
	e := NewEvaluator(map[string]int{"WELCOME10": 10})

	for _, code := range []string{"welcome10", "Welcome10", "  WELCOME10  "} {
		discount, err := e.Evaluate(code, 8000)
		require.NoError(t, err, code)
		assert.Equal(t, int64(800), discount, code)
	}
}

func TestEvaluateUnknownCoupon(t *testing.T) {
	e := NewEvaluator(map[string]int{"WELCOME10": 10})

	discount, err := e.Evaluate("BOGUS", 8000)
	assert.ErrorIs(t, err, ErrUnknownCoupon)
	assert.Zero(t, discount)
}

func TestEvaluateEmptyCodeMeansNoCoupon(t *testing.T) {
	e := NewEvaluator(map[string]int{"WELCOME10": 10})

	discount, err := e.Evaluate("", 8000)
	require.NoError(t, err)
	assert.Zero(t, discount)

	discount, err = e.Evaluate("   ", 8000)
	require.NoError(t, err)
	assert.Zero(t, discount)
}

func TestEvaluateRoundsDownToWholeCents(t *testing.T) {
	e := NewEvaluator(map[string]int{"THIRD33": 33})

	// 33% of 9999 cents = 3299.67, truncated.
	discount, err := e.Evaluate("THIRD33", 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(3299), discount)
}

func TestNewEvaluatorSkipsInvalidPercentages(t *testing.T) {
	e := NewEvaluator(map[string]int{"ZERO": 0, "NEG": -5, "TOOBIG": 101, "OK": 50})

	_, err := e.Evaluate("ZERO", 1000)
	assert.ErrorIs(t, err, ErrUnknownCoupon)
	_, err = e.Evaluate("NEG", 1000)
	assert.ErrorIs(t, err, ErrUnknownCoupon)
	_, err = e.Evaluate("TOOBIG", 1000)
	assert.ErrorIs(t, err, ErrUnknownCoupon)

	discount, err := e.Evaluate("OK", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(500), discount)
}

func TestEvaluateZeroSubtotal(t *testing.T) {
	e := NewEvaluator(map[string]int{"WELCOME10": 10})

	discount, err := e.Evaluate("WELCOME10", 0)
	require.NoError(t, err)
	assert.Zero(t, discount)
}
