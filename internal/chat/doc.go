// Package chat holds the state of the chat widget: panel visibility, the
// pending input, the append-only transcript and the staged attachment.
//
// The package performs no I/O. Send hands back a Request for the caller to
// dispatch; the caller reports the outcome with Deliver or Fail. All methods
// are meant to be called from a single goroutine (the UI event loop).
package chat
