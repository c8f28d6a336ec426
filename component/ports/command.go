package ports

import (
	"os/exec"
	"strings"

	"github.com/portseek/portseek/common/pool"
)

// runCommand spawns the tool and waits for it, returning the full stdout.
// On failure the captured stderr (or the spawn error) is returned as the
// diagnostic text.
func runCommand(name string, args ...string) (string, string, error) {
	stdout := pool.GetBuffer()
	defer pool.PutBuffer(stdout)
	stderr := pool.GetBuffer()
	defer pool.PutBuffer(stderr)

	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	diagnostic := strings.TrimSpace(stderr.String())
	if err != nil && diagnostic == "" {
		diagnostic = err.Error()
	}

	return stdout.String(), diagnostic, err
}
