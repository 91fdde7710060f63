package ladders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bosonic/ladders"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ============================================================
// Parallel multiply
// ============================================================

func TestMulParallel_MatchesMul(t *testing.T) {
	a := mustParse(t, "a_a(+)2a+_a(+)b_b+(+)3")
	b := mustParse(t, "a+_a+(+)b+_b(+)1j")

	seq := a.Mul(b)
	par, err := a.MulParallel(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, ladders.Equivalent(seq, par, 1e-9), ladders.Diff(seq, par, 1e-9))
}

func TestMulParallel_Empty(t *testing.T) {
	par, err := ladders.Zero().MulParallel(context.Background(), mustParse(t, "a+_a"))
	require.NoError(t, err)
	assert.True(t, par.IsZero())
}

func TestMulParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mustParse(t, "a(+)a+").MulParallel(ctx, mustParse(t, "a+_a"))
	assert.ErrorIs(t, err, context.Canceled)
}
