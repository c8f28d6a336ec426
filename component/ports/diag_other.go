//go:build !linux

package ports

func dumpTCPTable(_ string) ([]tableEntry, error) {
	return nil, ErrPlatformNotSupport
}
