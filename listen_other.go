//go:build !unix

package httpserv

import (
	"net"
	"strconv"
)

// listen falls back to net.Listen on platforms without the raw socket
// path. The backlog is left at the kernel default here.
func listen(ip net.IP, port int) (net.Listener, error) {
	return net.Listen("tcp", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
}
