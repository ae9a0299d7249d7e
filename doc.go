// Package cachemap memoizes in-flight asynchronous computations to collapse
// concurrent duplicate work for the same key into a single call.
//
// Features:
//
//   - Membership check and registration of a pending computation happen in one
//     critical section, closing the thundering herd window on cache miss.
//   - A computation is started at most once per key per cache instance.
//   - Every caller receives a handle to the same eventual outcome, before or
//     after it settles.
//   - Failures are broadcast identically to all waiters, with an optional
//     policy to evict failed entries so the next caller retries.
//   - A waiter abandoning via context does not cancel the shared computation.
//   - Allows logging, stats collection.
//   - Lock-free variant backed by a concurrent map for read-heavy workloads.
package cachemap
