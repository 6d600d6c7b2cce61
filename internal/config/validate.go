package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validateBoards(); err != nil {
		return err
	}
	if c.Local.BaseDir == "" {
		return errors.New("local.base_dir is required")
	}
	if c.Probe.TimeoutSeconds <= 0 {
		return fmt.Errorf("probe.timeout_seconds must be positive, got %d", c.Probe.TimeoutSeconds)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateRemote() error {
	if c.Remote.BaseDir == "" || !strings.HasPrefix(c.Remote.BaseDir, "/") {
		return fmt.Errorf("remote.base_dir must be an absolute path, got %q", c.Remote.BaseDir)
	}
	if c.Remote.Port <= 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("remote.port out of range: %d", c.Remote.Port)
	}
	if c.Remote.ConnectTimeoutSeconds <= 0 {
		return errors.New("remote.connect_timeout_seconds must be positive")
	}
	if c.Remote.CommandTimeoutSeconds <= 0 {
		return errors.New("remote.command_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTransfer() error {
	if c.Transfer.Concurrency < 1 {
		return fmt.Errorf("transfer.concurrency must be at least 1, got %d", c.Transfer.Concurrency)
	}
	switch c.Transfer.Mode {
	case ModeSessions, ModeDelta:
	default:
		return fmt.Errorf("transfer.mode must be %q or %q, got %q", ModeSessions, ModeDelta, c.Transfer.Mode)
	}
	if c.Transfer.TimeoutMinutes <= 0 {
		return errors.New("transfer.timeout_minutes must be positive")
	}
	return nil
}

func (c *Config) validateBoards() error {
	seen := make(map[string]struct{}, len(c.Boards))
	for i, b := range c.Boards {
		if b.Hostname == "" {
			return fmt.Errorf("boards[%d]: hostname is required", i)
		}
		if strings.ContainsAny(b.Hostname, " /\t") {
			return fmt.Errorf("boards[%d]: invalid hostname %q", i, b.Hostname)
		}
		if b.CameraIndex < 1 {
			return fmt.Errorf("boards[%d]: camera_index must be positive", i)
		}
		if _, dup := seen[b.Hostname]; dup {
			return fmt.Errorf("boards[%d]: duplicate hostname %q", i, b.Hostname)
		}
		seen[b.Hostname] = struct{}{}
	}
	return nil
}
