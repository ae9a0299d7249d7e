package cachemap_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ahashim/cachemap"
	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

func ExampleCache_Get() {
	// Create cache instance.
	c := cachemap.New[string, string](cachemap.Config{
		Name:   "accounts",
		Logger: &ctxd.LoggerMock{},
		Stats:  &stats.TrackerMock{},
	})

	// Use context if available.
	ctx := context.TODO()

	var computes atomic.Int64

	// A slow upstream fetch, e.g. a network call.
	fetch := func(ctx context.Context) (string, error) {
		computes.Add(1)

		return "accountData:ready", nil
	}

	// A herd of concurrent callers requests the same key.
	const callers = 50

	results := make([]string, callers)

	var wg sync.WaitGroup

	wg.Add(callers)

	for i := 0; i < callers; i++ {
		i := i

		go func() {
			defer wg.Done()

			results[i], _ = c.Get(ctx, "accountData", fetch)
		}()
	}

	wg.Wait()

	identical := true
	for _, r := range results {
		identical = identical && r == results[0]
	}

	fmt.Println("calls:", callers)
	fmt.Println("computations:", computes.Load())
	fmt.Println("identical results:", identical)
	fmt.Println("value:", results[0])

	// Output:
	// calls: 50
	// computations: 1
	// identical results: true
	// value: accountData:ready
}
