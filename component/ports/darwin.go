package ports

import (
	"strconv"
	"strings"

	"github.com/portseek/portseek/log"

	"github.com/samber/lo"
)

type darwinStrategy struct {
	lsofPath string
}

// ResolvePorts lists open network files with lsof and extracts a port from
// every address token on lines owned by pid.
//
// lsof exits non-zero both when it fails and when it matched nothing, so a
// failed run degrades to an empty result rather than an error. The captured
// diagnostic stays visible on the debug log to tell the two apart.
func (d *darwinStrategy) ResolvePorts(pid int) ([]string, error) {
	out, diagnostic, err := runCommand(d.lsofPath, "-nP", "-iTCP")
	if err != nil {
		log.Debugln("[Ports] lsof exited: %s", diagnostic)
		return nil, nil
	}

	return uniqSorted(scanLsofLines(out, pid)), nil
}

// scanLsofLines keeps lines carrying pid as a whole column, so pid 42 never
// matches inside 421, and pulls the decimal port out of every address:port
// token on them.
func scanLsofLines(out string, pid int) []string {
	owner := strconv.Itoa(pid)

	var ports []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if !lo.Contains(fields, owner) {
			continue
		}

		for _, field := range fields {
			if !strings.Contains(field, ":") {
				continue
			}
			if port, ok := portAfterLastColon(field); ok {
				ports = append(ports, port)
			}
		}
	}

	return ports
}
