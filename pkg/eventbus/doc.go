// Package eventbus provides the in-process notification bus builder sessions
// publish to. Subscribers such as the log consumer or a websocket stream
// receive events asynchronously on a single consumer goroutine.
package eventbus
