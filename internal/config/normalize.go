package config

import (
	"fmt"
	"strings"

	"camsync/internal/domain"
)

func (c *Config) normalize() error {
	var err error
	if c.Local.BaseDir, err = expandPath(strings.TrimSpace(c.Local.BaseDir)); err != nil {
		return fmt.Errorf("local.base_dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	if c.Remote.IdentityFile, err = expandPath(strings.TrimSpace(c.Remote.IdentityFile)); err != nil {
		return fmt.Errorf("remote.identity_file: %w", err)
	}

	// Remote paths are interpreted on the board and only trimmed here.
	c.Remote.BaseDir = strings.TrimRight(strings.TrimSpace(c.Remote.BaseDir), "/")
	c.Remote.User = strings.TrimSpace(c.Remote.User)
	c.Transfer.Mode = strings.ToLower(strings.TrimSpace(c.Transfer.Mode))
	if c.Transfer.Mode == "" {
		c.Transfer.Mode = defaultTransferMode
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if len(c.Boards) == 0 {
		c.Boards = defaultBoards()
	}
	for i := range c.Boards {
		c.Boards[i].Hostname = strings.TrimSpace(c.Boards[i].Hostname)
		if c.Boards[i].CameraIndex == 0 {
			c.Boards[i].CameraIndex = domain.CameraIndexFromHostname(c.Boards[i].Hostname)
		}
	}
	return nil
}
