package ports

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcpTableHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode"

func TestDecodeHexPort(t *testing.T) {
	testCases := []struct {
		local    string
		expected string
		ok       bool
	}{
		{local: "0100007F:1F90", expected: "8080", ok: true},
		{local: "0100007F:0016", expected: "22", ok: true},
		{local: "00000000000000000000000001000000:0BB8", expected: "3000", ok: true},
		{local: "0100007F:0000", ok: false},
		{local: "0100007F", ok: false},
		{local: "0100007F:ZZZZ", ok: false},
	}

	for _, tc := range testCases {
		port, ok := decodeHexPort(tc.local)
		assert.Equal(t, tc.ok, ok, "local %q", tc.local)
		if tc.ok {
			assert.Equal(t, tc.expected, port, "local %q", tc.local)
		}
	}
}

func TestParseTCPTable(t *testing.T) {
	table := strings.Join([]string{
		tcpTableHeader,
		"   0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 30001 1 0000000000000000 100 0 0 10 0",
		"   1: 0100007F:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 30002 1 0000000000000000 100 0 0 10 0",
		"   2: 0100007F:0000 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 30003 1 0000000000000000 100 0 0 10 0",
		"   3: malformed-short-row",
		"",
	}, "\n")

	entries := parseTCPTable(strings.NewReader(table))
	require.Len(t, entries, 2)
	assert.Equal(t, tableEntry{inode: "30001", port: "8080"}, entries[0])
	assert.Equal(t, tableEntry{inode: "30002", port: "22"}, entries[1])
}

func TestSocketInode(t *testing.T) {
	inode, ok := socketInode("socket:[30001]")
	require.True(t, ok)
	assert.Equal(t, "30001", inode)

	for _, link := range []string{"pipe:[30002]", "/dev/null", "anon_inode:[eventpoll]", "socket:[30003"} {
		_, ok := socketInode(link)
		assert.False(t, ok, "link %q", link)
	}
}

func writeProcFixture(t *testing.T, procRoot string, pid string, links map[string]string, tables map[string]string) {
	t.Helper()

	fdDir := filepath.Join(procRoot, pid, "fd")
	require.NoError(t, os.MkdirAll(fdDir, 0o755))
	for fd, target := range links {
		require.NoError(t, os.Symlink(target, filepath.Join(fdDir, fd)))
	}

	netDir := filepath.Join(procRoot, "net")
	require.NoError(t, os.MkdirAll(netDir, 0o755))
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(netDir, name), []byte(content), 0o644))
	}
}

func TestLinuxJoin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture needs symlinks")
	}

	procRoot := t.TempDir()
	writeProcFixture(t, procRoot, "4312", map[string]string{
		"0": "/dev/null",
		"1": "pipe:[777]",
		"3": "socket:[30001]",
		"4": "socket:[30002]",
		"5": "socket:[40001]",
	}, map[string]string{
		"tcp": strings.Join([]string{
			tcpTableHeader,
			// joins: owned inodes
			"   0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 30001 1 0000000000000000 100 0 0 10 0",
			"   1: 0100007F:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 30002 1 0000000000000000 100 0 0 10 0",
			// same inode and port twice must contribute a single entry
			"   2: 00000000:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 30002 1 0000000000000000 100 0 0 10 0",
			// foreign inode, must not join
			"   3: 0100007F:0050 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 99999 1 0000000000000000 100 0 0 10 0",
			"",
		}, "\n"),
		"tcp6": strings.Join([]string{
			tcpTableHeader,
			"   0: 00000000000000000000000001000000:0BB8 00000000000000000000000000000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 40001 1 0000000000000000 100 0 0 10 0",
			"",
		}, "\n"),
	})

	strategy := &linuxStrategy{procRoot: procRoot}

	ports, err := strategy.ResolvePorts(4312)
	require.NoError(t, err)
	assert.Equal(t, []string{"22", "3000", "8080"}, ports)
}

func TestLinuxJoinMissingTCP6(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture needs symlinks")
	}

	procRoot := t.TempDir()
	writeProcFixture(t, procRoot, "4312", map[string]string{
		"3": "socket:[30001]",
	}, map[string]string{
		"tcp": strings.Join([]string{
			tcpTableHeader,
			"   0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 30001 1 0000000000000000 100 0 0 10 0",
			"",
		}, "\n"),
	})

	strategy := &linuxStrategy{procRoot: procRoot}

	ports, err := strategy.ResolvePorts(4312)
	require.NoError(t, err)
	assert.Equal(t, []string{"8080"}, ports)
}

func TestLinuxJoinNoSockets(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture needs symlinks")
	}

	procRoot := t.TempDir()
	writeProcFixture(t, procRoot, "4312", map[string]string{
		"0": "/dev/null",
	}, map[string]string{
		"tcp": tcpTableHeader + "\n",
	})

	strategy := &linuxStrategy{procRoot: procRoot}

	ports, err := strategy.ResolvePorts(4312)
	require.NoError(t, err)
	assert.Nil(t, ports)
}

func TestLinuxProcessNotFound(t *testing.T) {
	strategy := &linuxStrategy{procRoot: t.TempDir()}

	_, err := strategy.ResolvePorts(4312)
	assert.ErrorIs(t, err, ErrProcessNotFound)
}
