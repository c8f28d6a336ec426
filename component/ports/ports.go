package ports

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	C "github.com/portseek/portseek/constant"

	"github.com/samber/lo"
)

var (
	ErrInvalidPID         = errors.New("invalid process id")
	ErrPlatformNotSupport = errors.New("not support on this platform")
	ErrQueryFailed        = errors.New("platform query failed")
	ErrProcessNotFound    = errors.New("process not found")
	ErrAccessDenied       = errors.New("access denied")
)

// Strategy resolves the TCP ports bound by a single process. A nil slice
// with a nil error means the process owns no matched sockets.
type Strategy interface {
	ResolvePorts(pid int) ([]string, error)
}

type options struct {
	netstatPath string
	lsofPath    string
	procRoot    string
}

type Option func(*options)

// WithNetstatPath overrides the netstat binary invoked on windows.
func WithNetstatPath(path string) Option {
	return func(opt *options) {
		opt.netstatPath = path
	}
}

// WithLsofPath overrides the lsof binary invoked on darwin.
func WithLsofPath(path string) Option {
	return func(opt *options) {
		opt.lsofPath = path
	}
}

// WithProcRoot overrides the procfs mount point read on linux.
func WithProcRoot(root string) Option {
	return func(opt *options) {
		opt.procRoot = root
	}
}

// NewStrategy returns the resolver implementation for platform.
func NewStrategy(platform C.Platform, opts ...Option) (Strategy, error) {
	opt := &options{
		netstatPath: "netstat",
		lsofPath:    "lsof",
		procRoot:    "/proc",
	}
	for _, o := range opts {
		o(opt)
	}

	switch platform {
	case C.Windows:
		return &windowsStrategy{netstatPath: opt.netstatPath}, nil
	case C.Darwin:
		return &darwinStrategy{lsofPath: opt.lsofPath}, nil
	case C.Linux:
		return &linuxStrategy{procRoot: opt.procRoot}, nil
	default:
		return nil, ErrPlatformNotSupport
	}
}

// ResolvePorts resolves the TCP ports bound by pid on the current host.
func ResolvePorts(pid int, opts ...Option) ([]string, error) {
	return Resolve(C.HostPlatform(), pid, opts...)
}

// Resolve validates pid and dispatches to the strategy for platform.
func Resolve(platform C.Platform, pid int, opts ...Option) ([]string, error) {
	if pid <= 0 {
		return nil, ErrInvalidPID
	}

	strategy, err := NewStrategy(platform, opts...)
	if err != nil {
		return nil, err
	}

	return strategy.ResolvePorts(pid)
}

// uniqSorted removes duplicates and orders the decimal port strings
// numerically. Empty input collapses to nil, the "none found" marker.
func uniqSorted(ports []string) []string {
	ports = lo.Uniq(ports)
	if len(ports) == 0 {
		return nil
	}

	sort.Slice(ports, func(i, j int) bool {
		a, _ := strconv.Atoi(ports[i])
		b, _ := strconv.Atoi(ports[j])
		return a < b
	})

	return ports
}

// portAfterLastColon takes the text after the last colon of an address:port
// token. IPv6 addresses hold several colons, only the final segment is the
// port.
func portAfterLastColon(token string) (string, bool) {
	idx := strings.LastIndex(token, ":")
	if idx < 0 {
		return "", false
	}

	port := token[idx+1:]
	if !isDecimalPort(port) {
		return "", false
	}

	return port, true
}

func isDecimalPort(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	n, err := strconv.ParseUint(s, 10, 32)
	return err == nil && n <= 65535
}
