package cachemap

import (
	"context"
	"time"
)

// detachedContext keeps values of the parent context, but drops its deadline
// and cancellation. Computations run on it so that the caller that happened to
// start the shared work cannot cancel it for the other waiters.
type detachedContext struct {
	ctx context.Context
}

func (dctx detachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

func (dctx detachedContext) Done() <-chan struct{} {
	return nil
}

func (dctx detachedContext) Err() error {
	return nil
}

func (dctx detachedContext) Value(key interface{}) interface{} {
	return dctx.ctx.Value(key)
}
