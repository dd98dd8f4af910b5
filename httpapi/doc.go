// Package httpapi mounts the SSO handshake over HTTP.
//
// [New] wraps a configured [goSSO.Server] and a session cookie setup, and
// [API.Router] returns a chi router with the broker-facing routes:
//
//	GET  /attach   broker attach leg (query parameters, optional redirect)
//	POST /session  broker session start (Authorization bearer credential)
//	GET  /healthz  liveness and backend reachability
//	GET  /metrics  Prometheus text exposition
//
// Handlers stamp a request id and the client address into the request
// context so server logs and audit events can be correlated per request.
//
// # Architecture boundaries
//
//   - HTTP concerns stop here. Handlers translate requests into [goSSO.Server]
//     calls and map sentinel errors onto status codes.
//   - Session state travels only inside the signed cookie. Responses never
//     carry a session id.
//
// # What this package must NOT do
//
//   - Decide protocol outcomes. All validation lives in the core server.
//   - Write broker secrets or checksums into responses or logs.
package httpapi
