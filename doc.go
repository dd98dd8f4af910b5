// Package goSSO implements the server side of a broker-mediated single
// sign-on handshake: brokers hold opaque bearer credentials that the server
// binds to its own session ids, so consumer applications never see the real
// session.
//
// The package is designed for concurrent server workloads: Server methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goSSO is the public surface. It exposes [Server], [Builder], [Config],
// and value types (AttachResult, BrokerSessionResult, MetricsSnapshot,
// etc.). Pluggable collaborators live in sub-packages: credential parsing
// and checksums under credential/, link storage backends under cache/,
// broker registries under broker/, and session lifecycles under session/.
//
// # What this package must NOT do
//
//   - Expose cache clients, broker secrets, or checksum internals in its
//     public API.
//   - Cache broker records between calls (secret rotation must take effect
//     immediately).
//   - Import the broker sub-package (it imports goSSO; no import cycles).
//
// # Performance contract
//
// StartBrokerSession is the hot path. It performs exactly one broker
// registry lookup and at most one cache read per call; checksum
// verification is pure computation. Attach is allowed one additional cache
// write and up to three more registry lookups (one per validated domain).
package goSSO
