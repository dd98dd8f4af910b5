// Package session provides the session lifecycles the SSO handshake runs
// against: a signed-cookie lifecycle for HTTP deployments and an in-memory
// lifecycle for tests and embedding.
//
// # Lifecycle contract
//
// A [Lifecycle] is scoped to one request. Active reports whether a session
// already exists, Start creates or resumes one, and ID returns the current
// session id. The handshake flows never mint session ids themselves; they
// only resume ids a lifecycle handed out earlier.
//
// # Architecture boundaries
//
// This package owns session identity and its transport (HMAC-signed
// cookies). It does NOT know about brokers, tokens, or checksums.
//
// # What this package must NOT do
//
//   - Import any other goSSO package.
//   - Store session state server-side (the signed cookie is the state).
//   - Accept unsigned or foreign-keyed cookies as an existing session.
package session
