package graph

import "fmt"

// SocketError reports an operation that failed on a socket.
type SocketError struct {
	Op     string
	Node   string
	Socket string
	Err    error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("%s %s.%s: %v", e.Op, e.Node, e.Socket, e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}
