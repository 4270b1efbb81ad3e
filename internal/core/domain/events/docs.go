// Package events defines the domain events raised by the dispatch engine and a
// synchronous in-process Bus to deliver them.
//
// Events are published after the engine has released its locks, in the order the state
// changes happened. Handlers run on the publishing goroutine; a handler that panics is
// recovered and logged and the remaining handlers still receive the event.
package events
