package httpserv

import "errors"

var (
	ErrInvalidAddress   = errors.New("httpserv: invalid bind address")
	ErrPortOutOfRange   = errors.New("httpserv: port must be in the range 1024-65535")
	ErrNoMethods        = errors.New("httpserv: no valid HTTP methods configured")
	ErrInvalidLogPath   = errors.New("httpserv: invalid log file path")
	ErrBadPattern       = errors.New("httpserv: invalid endpoint pattern")
	ErrMissingErrorPage = errors.New("httpserv: error page endpoint not registered")
	ErrAlreadyRunning   = errors.New("httpserv: server already running")
	ErrNotRunning       = errors.New("httpserv: server not running")
	ErrPortStillOpen    = errors.New("httpserv: listening port still accepts connections")
	ErrWorkersAlive     = errors.New("httpserv: background workers did not terminate")
)
