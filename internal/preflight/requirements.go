package preflight

import "camsync/internal/infra/remote"

// Operations with distinct tool needs.
const (
	OpTransfer = "transfer"
	OpDelete   = "delete"
	OpReorg    = "reorg"
	OpSessions = "sessions"
	OpCheck    = "check"
)

// RequirementsFor lists the programs op needs. delta selects rsync over scp
// for transfers; remote marks read-only operations that talk to boards.
func RequirementsFor(op string, delta, remoteAccess bool) []Requirement {
	ping := Requirement{Name: "ping", Command: remote.PingBinary, Description: "reachability probe"}
	ssh := Requirement{Name: "ssh", Command: remote.SSHBinary, Description: "remote shell"}
	switch op {
	case OpTransfer:
		copier := Requirement{Name: "scp", Command: remote.SCPBinary, Description: "remote copy"}
		if delta {
			copier = Requirement{Name: "rsync", Command: remote.RsyncBinary, Description: "delta remote copy"}
		}
		return []Requirement{ping, ssh, copier}
	case OpDelete, OpCheck:
		return []Requirement{ping, ssh}
	default:
		if remoteAccess {
			return []Requirement{ping, ssh}
		}
		return nil
	}
}
