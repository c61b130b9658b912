// Package execute routes code to remote execution services and normalizes
// their responses.
//
// Language tags are resolved through a declarative Registry that maps each
// lower-cased alias to a backend name and the language parameter that
// backend expects. Two backends are provided:
//
//   - RustBackend posts to a Rust playground style endpoint with fixed
//     build parameters (stable channel, debug mode, binary crate).
//   - GenericBackend posts to a shared multi-language compile endpoint.
//
// Every outbound call is bounded by the backend's timeout. Failures never
// panic and never leak the backend wire schema: they surface as
// *DispatchError (bad or missing language) or *BackendError (transport,
// timeout, status, malformed or failed responses).
//
// No retries are performed.
package execute
