package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// HostnamePrefix is the naming scheme of the helmet boards. The camera index
// is the numeric suffix of the hostname.
const HostnamePrefix = "rpihelmet"

type Board struct {
	Hostname    string
	CameraIndex int
	Reachable   bool
}

// CameraDir is the per-camera directory name used both on the board and in
// the local tree.
func (b Board) CameraDir() string {
	return fmt.Sprintf("helmet-cam%d", b.CameraIndex)
}

func (b Board) String() string {
	return fmt.Sprintf("%s (cam%d)", b.Hostname, b.CameraIndex)
}

// CameraIndexFromHostname derives the camera number from an rpihelmet<N>
// hostname. Anything else maps to camera 1, as the firmware does.
func CameraIndexFromHostname(hostname string) int {
	name := strings.TrimSpace(hostname)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if !strings.HasPrefix(name, HostnamePrefix) {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, HostnamePrefix))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FilterBoards returns the boards matching hostname, or all boards when
// hostname is empty.
func FilterBoards(boards []Board, hostname string) []Board {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		out := make([]Board, len(boards))
		copy(out, boards)
		return out
	}
	var out []Board
	for _, b := range boards {
		if b.Hostname == hostname {
			out = append(out, b)
		}
	}
	return out
}
