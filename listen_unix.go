//go:build unix

package httpserv

import (
	"fmt"
	"net"
	"os"
	"syscall"
)

// listen builds the bound socket by hand so SO_REUSEADDR and the 10-slot
// listen backlog can be set explicitly, then hands the fd to the runtime
// poller via net.FileListener. Both address families are supported in
// numeric form.
func listen(ip net.IP, port int) (net.Listener, error) {
	family := syscall.AF_INET
	if ip.To4() == nil {
		family = syscall.AF_INET6
	}
	fd, err := syscall.Socket(family, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("httpserv: socket: %w", err)
	}
	if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("httpserv: setsockopt: %w", err)
	}
	var sa syscall.Sockaddr
	if family == syscall.AF_INET {
		sa4 := &syscall.SockaddrInet4{Port: port}
		copy(sa4.Addr[:], ip.To4())
		sa = sa4
	} else {
		sa6 := &syscall.SockaddrInet6{Port: port}
		copy(sa6.Addr[:], ip.To16())
		sa = sa6
	}
	if err := syscall.Bind(fd, sa); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("httpserv: bind %s:%d: %w", ip, port, err)
	}
	if err := syscall.Listen(fd, listenBacklog); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("httpserv: listen: %w", err)
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("httpserv: setnonblock: %w", err)
	}
	f := os.NewFile(uintptr(fd), "httpserv-listener")
	ln, err := net.FileListener(f)
	// FileListener dups the fd; the original is no longer needed.
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("httpserv: file listener: %w", err)
	}
	return ln, nil
}
