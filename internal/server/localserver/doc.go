// Package localserver serves the control API over a local interprocess
// endpoint: a Unix domain socket on Linux/macOS or a named pipe on Windows.
//
// Startup provisions the endpoint once (stale artifact removal, bind,
// permissions). The acceptor then hands every connection to net/http, which
// serves it in its own goroutine. A per-connection Service built by the
// Factory dispatches the reserved path /ws to the event stream and every
// other path to the shared, immutable API router.
//
// Failures are classified:
//
//   - TransportError: endpoint provisioning failed; startup aborts.
//   - AcceptError: the accept loop failed; ListenAndServe returns it.
//   - ConnectionError: one connection failed; it is logged and closed.
package localserver
