package cachemap_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahashim/cachemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_Resolve(t *testing.T) {
	ctx := context.Background()
	d := cachemap.NewDeferred[string]()

	_, _, settled := d.Poll()
	assert.False(t, settled)

	const waiters = 5

	results := make([]string, waiters)
	errs := make([]error, waiters)

	var wg sync.WaitGroup

	wg.Add(waiters)

	for i := 0; i < waiters; i++ {
		i := i

		go func() {
			defer wg.Done()

			results[i], errs[i] = d.Wait(ctx)
		}()
	}

	assert.True(t, d.Resolve("value"))
	wg.Wait()

	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "value", results[i])
	}

	// A settled Deferred is never mutated.
	assert.False(t, d.Resolve("other"))
	assert.False(t, d.Fail(errors.New("too late")))

	val, err, settled := d.Poll()
	require.True(t, settled)
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestDeferred_Fail(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("failed")
	d := cachemap.NewDeferred[string]()

	assert.True(t, d.Fail(errBoom))
	assert.False(t, d.Resolve("too late"))

	// Waiters before and after settlement observe the same failure.
	_, err := d.Wait(ctx)
	assert.ErrorIs(t, err, errBoom)

	_, err, settled := d.Poll()
	assert.True(t, settled)
	assert.ErrorIs(t, err, errBoom)
}

func TestDeferred_Wait_context(t *testing.T) {
	d := cachemap.NewDeferred[string]()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := d.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Abandoning a wait does not settle the Deferred.
	_, _, settled := d.Poll()
	assert.False(t, settled)

	d.Resolve("value")

	val, err := d.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestDeferred_Done(t *testing.T) {
	d := cachemap.NewDeferred[int]()

	select {
	case <-d.Done():
		t.Fatal("pending deferred must not be done")
	default:
	}

	d.Resolve(1)

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("settled deferred must be done")
	}
}
