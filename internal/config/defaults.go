package config

import "fmt"

const (
	defaultConfigPath            = "~/.config/camsync/config.toml"
	defaultRemoteBaseDir         = "/home/pi/photos"
	defaultRemoteUser            = "pi"
	defaultRemotePort            = 22
	defaultConnectTimeoutSeconds = 10
	defaultCommandTimeoutSeconds = 60
	defaultLocalBaseDir          = "~/helmet-photos"
	defaultConcurrency           = 3
	defaultTransferMode          = ModeSessions
	defaultTransferTimeout       = 60
	defaultProbeTimeoutSeconds   = 3
	defaultLogDir                = "~/.local/share/camsync/logs"
	defaultLogLevel              = "info"
	defaultBoardCount            = 4
)

// Transfer modes.
const (
	ModeSessions = "sessions"
	ModeDelta    = "delta"
)

// Default returns a Config populated with repository defaults. The board
// inventory is filled in by normalize when the file does not list one.
func Default() Config {
	return Config{
		Remote: Remote{
			BaseDir:               defaultRemoteBaseDir,
			User:                  defaultRemoteUser,
			Port:                  defaultRemotePort,
			ConnectTimeoutSeconds: defaultConnectTimeoutSeconds,
			CommandTimeoutSeconds: defaultCommandTimeoutSeconds,
		},
		Local: Local{
			BaseDir: defaultLocalBaseDir,
		},
		Transfer: Transfer{
			Concurrency:    defaultConcurrency,
			Mode:           defaultTransferMode,
			TimeoutMinutes: defaultTransferTimeout,
		},
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Logging: Logging{
			Dir:   defaultLogDir,
			Level: defaultLogLevel,
		},
	}
}

func defaultBoards() []BoardEntry {
	boards := make([]BoardEntry, 0, defaultBoardCount)
	for i := 1; i <= defaultBoardCount; i++ {
		boards = append(boards, BoardEntry{Hostname: fmt.Sprintf("rpihelmet%d", i), CameraIndex: i})
	}
	return boards
}
