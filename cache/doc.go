// Package cache provides the key-value backends behind the session link
// store: an in-memory map for tests and single-process setups, Redis for
// shared multi-node deployments, and bbolt for durable single-node
// deployments.
//
// # Contract
//
// [Cache] is a get/set pair over string keys and values. Get returns
// [ErrMiss] for absent keys; any other error means the backend itself
// failed. Set reports whether the write was accepted. Backends guarantee
// per-key atomicity: a concurrent reader never observes a partially
// written value.
//
// # Architecture boundaries
//
// This package moves opaque strings. It does NOT know what a session id or
// a broker token is and never inspects stored values.
//
// # What this package must NOT do
//
//   - Import any other goSSO package.
//   - Retry failed operations (callers own retry policy).
//   - Log (errors carry the failure detail instead).
package cache
