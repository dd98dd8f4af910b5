// Package credential implements the bearer credential wire format and the
// HMAC checksum scheme that authenticates it.
//
// # Wire format
//
// A bearer credential is a single opaque string:
//
//	SSO-{broker}-{token}-{checksum}
//
// Broker and token are word characters; the checksum is lowercase
// alphanumeric (hex in practice). [Parse] and [Render] convert between the
// wire string and its parts and round-trip for any conforming input.
//
// # Checksums
//
// A checksum is hex(HMAC-SHA256(secret, command + ":" + token)). The
// command prefix domain-separates the protocol flows: a checksum minted
// for the attach flow never verifies in the bearer flow, and vice versa.
//
// # Architecture boundaries
//
// This package is pure computation. It does NOT look up broker secrets,
// touch the session link store, or make accept/reject decisions. Those
// belong to the Server.
//
// # What this package must NOT do
//
//   - Import any other goSSO package (no upward imports).
//   - Log anything (callers own the reporting policy for mismatches).
//   - Compare checksums with ordinary string equality ([Equal] is constant
//     time).
package credential
