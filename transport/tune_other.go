//go:build !linux

// File: transport/tune_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package transport

import "net"

func tuneSocket(conn net.Conn) {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
}
