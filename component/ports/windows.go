package ports

import (
	"fmt"
	"strconv"
	"strings"
)

type windowsStrategy struct {
	netstatPath string
}

// ResolvePorts enumerates active TCP connections with netstat and keeps the
// local port of every row owned by pid.
func (w *windowsStrategy) ResolvePorts(pid int) ([]string, error) {
	out, diagnostic, err := runCommand(w.netstatPath, "-ano", "-p", "TCP")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, diagnostic)
	}

	ports, err := parseNetstatTable(out, pid)
	if err != nil {
		return nil, err
	}

	return uniqSorted(ports), nil
}

// parseNetstatTable filters netstat -ano rows down to the local ports owned
// by pid. Rows look like:
//
//	TCP    0.0.0.0:135    0.0.0.0:0    LISTENING    912
func parseNetstatTable(out string, pid int) ([]string, error) {
	owner := strconv.Itoa(pid)

	var ports []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "TCP" {
			continue
		}
		if fields[len(fields)-1] != owner {
			continue
		}

		port, ok := portAfterLastColon(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: malformed local address %q", ErrQueryFailed, fields[1])
		}
		ports = append(ports, port)
	}

	return ports, nil
}
