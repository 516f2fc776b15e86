package orders

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSettleAll(t *testing.T) {
	var finished int64
	errs := SettleAll(context.Background(), 5, func(_ context.Context, i int) error {
		// the failing call returns first, SettleAll must still wait for the others
		if i == 0 {
			atomic.AddInt64(&finished, 1)
			return fmt.Errorf("call %d failed", i)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&finished, 1)
		return nil
	})

	require.Len(t, errs, 5)
	require.EqualValues(t, 5, atomic.LoadInt64(&finished))
	require.EqualError(t, errs[0], "call 0 failed")
	for _, err := range errs[1:] {
		require.NoError(t, err)
	}

	require.Empty(t, SettleAll(context.Background(), 0, func(context.Context, int) error {
		t.Fatal("fn must not be called")
		return nil
	}))
}
