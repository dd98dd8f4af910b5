// Package broker provides broker registries: the sources of per-broker
// secrets and domain allow-lists the handshake consults.
//
// Registry lookups are never cached by the server. [Registry] re-reads its
// TOML file on every call so secret rotation and allow-list edits take
// effect without a restart; [Static] serves a fixed in-memory table for
// tests and embedded setups.
package broker
