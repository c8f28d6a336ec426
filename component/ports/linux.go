package ports

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type linuxStrategy struct {
	procRoot string
}

type tableEntry struct {
	inode string
	port  string
}

// ResolvePorts joins the socket inodes owned by pid against the kernel TCP
// connection tables. No subprocess is involved, which also keeps it correct
// inside containers: the tables read are the ones of the process's own
// network namespace.
func (l *linuxStrategy) ResolvePorts(pid int) ([]string, error) {
	inodes, err := l.socketInodes(pid)
	if err != nil {
		return nil, err
	}
	if len(inodes) == 0 {
		return nil, nil
	}

	var ports []string
	for _, table := range []string{"tcp", "tcp6"} {
		entries, err := l.readTable(table)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if _, ok := inodes[entry.inode]; ok {
				ports = append(ports, entry.port)
			}
		}
	}

	return uniqSorted(ports), nil
}

// socketInodes collects the inode of every socket fd held by pid. A single
// unreadable fd (closed in the meantime, or restricted) is skipped; an
// unlistable fd directory is a hard failure.
func (l *linuxStrategy) socketInodes(pid int) (map[string]struct{}, error) {
	fdDir := filepath.Join(l.procRoot, strconv.Itoa(pid), "fd")

	entries, err := os.ReadDir(fdDir)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
		case os.IsPermission(err):
			return nil, fmt.Errorf("%w: %s", ErrAccessDenied, fdDir)
		default:
			return nil, fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
		}
	}

	inodes := make(map[string]struct{})
	for _, entry := range entries {
		link, err := os.Readlink(filepath.Join(fdDir, entry.Name()))
		if err != nil {
			continue
		}
		if inode, ok := socketInode(link); ok {
			inodes[inode] = struct{}{}
		}
	}

	return inodes, nil
}

// socketInode extracts the inode from a socket fd link target of the form
// "socket:[12345]".
func socketInode(link string) (string, bool) {
	if !strings.HasPrefix(link, "socket:[") || !strings.HasSuffix(link, "]") {
		return "", false
	}

	return link[len("socket:[") : len(link)-1], true
}

// readTable parses one of /proc/net/tcp and /proc/net/tcp6. A missing table
// means the protocol family is disabled in the running kernel and
// contributes zero records. A table that exists but cannot be read (hidepid
// mounts) is retried through the netlink socket-diag interface.
func (l *linuxStrategy) readTable(name string) ([]tableEntry, error) {
	f, err := os.Open(filepath.Join(l.procRoot, "net", name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		if entries, diagErr := dumpTCPTable(name); diagErr == nil {
			return entries, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
	}
	defer f.Close()

	return parseTCPTable(f), nil
}

// parseTCPTable reads every record after the header line. Records are
// whitespace-delimited rows of at least 10 fields, the local address in
// HEXIP:HEXPORT form at index 1 and the socket inode in decimal at index 9.
func parseTCPTable(r io.Reader) []tableEntry {
	var entries []tableEntry

	scanner := bufio.NewScanner(r)
	scanner.Scan() // header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 10 {
			continue
		}

		port, ok := decodeHexPort(fields[1])
		if !ok {
			continue
		}

		entries = append(entries, tableEntry{inode: fields[9], port: port})
	}

	return entries
}

// decodeHexPort turns the HEXIP:HEXPORT local address of a connection-table
// row into a decimal port string. Port 0 rows carry no usable port.
func decodeHexPort(local string) (string, bool) {
	idx := strings.LastIndex(local, ":")
	if idx < 0 {
		return "", false
	}

	port, err := strconv.ParseUint(local[idx+1:], 16, 16)
	if err != nil || port == 0 {
		return "", false
	}

	return strconv.FormatUint(port, 10), true
}
