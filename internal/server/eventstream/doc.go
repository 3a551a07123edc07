// Package eventstream serves the persistent event stream on the reserved
// /ws path.
//
// Each upgraded connection becomes a Session that moves through
// Pending -> Open -> Closed. An open session owns one event bus
// subscription; a single writer goroutine drains it in order and a single
// reader goroutine handles inbound frames in order. Closing a session always
// releases the subscription and the socket.
package eventstream
