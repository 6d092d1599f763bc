package ws

import "errors"

var (
	// ErrTooManyClients is returned when max_ws_clients connections are open.
	ErrTooManyClients = errors.New("too many websocket clients")
	// ErrHubClosed is returned for connections arriving after Close.
	ErrHubClosed = errors.New("websocket hub closed")
)
