// File: sock/sockopt.go
//
// Boolean socket options exposed by the facade.

package sock

// BoolOption names a boolean socket-level option.
type BoolOption int

const (
	// OptAcceptConn reports whether the handle is listening (query only).
	OptAcceptConn BoolOption = iota
	OptBroadcast
	OptDebug
	OptDontRoute
	OptKeepAlive
	OptOOBInline
	OptReuseAddr
)

// String returns the conventional option name.
func (o BoolOption) String() string {
	switch o {
	case OptAcceptConn:
		return "SO_ACCEPTCONN"
	case OptBroadcast:
		return "SO_BROADCAST"
	case OptDebug:
		return "SO_DEBUG"
	case OptDontRoute:
		return "SO_DONTROUTE"
	case OptKeepAlive:
		return "SO_KEEPALIVE"
	case OptOOBInline:
		return "SO_OOBINLINE"
	case OptReuseAddr:
		return "SO_REUSEADDR"
	}
	return "SO_UNKNOWN"
}
