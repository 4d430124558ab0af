//go:build linux

// File: transport/tune_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// tuneSocket disables Nagle's algorithm directly through the socket file
// descriptor via golang.org/x/sys/unix, the same dependency momentics-hioload-ws
// pulled in for its affinity/platform code, repurposed here for socket
// tuning instead of NUMA pinning.
package transport

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

func tuneSocket(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	raw, err := tcpConn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
}
