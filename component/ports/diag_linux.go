//go:build linux

package ports

import (
	"encoding/binary"
	"strconv"
	"unsafe"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

type inetDiagRequest struct {
	Family   byte
	Protocol byte
	Ext      byte
	Pad      byte
	States   uint32

	SrcPort [2]byte
	DstPort [2]byte
	Src     [16]byte
	Dst     [16]byte
	If      uint32
	Cookie  [2]uint32
}

type inetDiagResponse struct {
	Family  byte
	State   byte
	Timer   byte
	ReTrans byte

	SrcPort [2]byte
	DstPort [2]byte
	Src     [16]byte
	Dst     [16]byte
	If      uint32
	Cookie  [2]uint32

	Expires uint32
	RQueue  uint32
	WQueue  uint32
	UID     uint32
	INode   uint32
}

// dumpTCPTable asks the kernel for the full TCP socket table over netlink
// inet_diag, mirroring the records /proc/net/tcp{,tcp6} would expose.
func dumpTCPTable(name string) ([]tableEntry, error) {
	family := byte(unix.AF_INET)
	if name == "tcp6" {
		family = unix.AF_INET6
	}

	request := &inetDiagRequest{
		Family:   family,
		Protocol: unix.IPPROTO_TCP,
		States:   0xffffffff,
		Cookie:   [2]uint32{0xffffffff, 0xffffffff},
	}

	conn, err := netlink.Dial(unix.NETLINK_INET_DIAG, nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	message := netlink.Message{
		Header: netlink.Header{
			Type:  20, // SOCK_DIAG_BY_FAMILY
			Flags: netlink.Request | netlink.Dump,
		},
		Data: (*(*[unsafe.Sizeof(*request)]byte)(unsafe.Pointer(request)))[:],
	}

	messages, err := conn.Execute(message)
	if err != nil {
		return nil, err
	}

	var entries []tableEntry
	for _, msg := range messages {
		if len(msg.Data) < int(unsafe.Sizeof(inetDiagResponse{})) {
			continue
		}

		response := (*inetDiagResponse)(unsafe.Pointer(&msg.Data[0]))

		port := binary.BigEndian.Uint16(response.SrcPort[:])
		if port == 0 {
			continue
		}

		entries = append(entries, tableEntry{
			inode: strconv.FormatUint(uint64(response.INode), 10),
			port:  strconv.FormatUint(uint64(port), 10),
		})
	}

	return entries, nil
}
