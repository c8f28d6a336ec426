package constant

import (
	"encoding/json"
	"runtime"
)

// Supported host platforms
const (
	Windows Platform = iota
	Darwin
	Linux
	Unknown
)

type Platform int

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Darwin:
		return "darwin"
	case Linux:
		return "linux"
	default:
		return "unknown"
	}
}

func (p Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// HostPlatform reports the platform the current process runs on.
func HostPlatform() Platform {
	return ParsePlatform(runtime.GOOS)
}

// ParsePlatform maps a GOOS-style identifier to a Platform. Identifiers
// outside the supported set map to Unknown.
func ParsePlatform(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	case "linux":
		return Linux
	default:
		return Unknown
	}
}
