package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"camsync/internal/domain"
)

//go:embed sample_config.toml
var sampleConfig string

// Remote describes how boards are reached and where the capture application
// writes sessions on them.
type Remote struct {
	BaseDir               string   `toml:"base_dir"`
	User                  string   `toml:"user"`
	Port                  int      `toml:"port"`
	IdentityFile          string   `toml:"identity_file"`
	ConnectTimeoutSeconds int      `toml:"connect_timeout_seconds"`
	CommandTimeoutSeconds int      `toml:"command_timeout_seconds"`
	SSHOptions            []string `toml:"ssh_options"`
}

type Local struct {
	BaseDir string `toml:"base_dir"`
}

type Transfer struct {
	Concurrency    int    `toml:"concurrency"`
	Mode           string `toml:"mode"`
	TimeoutMinutes int    `toml:"timeout_minutes"`
}

type Probe struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type Logging struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// BoardEntry is one inventory line. CameraIndex may be omitted for
// rpihelmet<N> hostnames.
type BoardEntry struct {
	Hostname    string `toml:"hostname"`
	CameraIndex int    `toml:"camera_index"`
}

type Config struct {
	Remote   Remote       `toml:"remote"`
	Local    Local        `toml:"local"`
	Transfer Transfer     `toml:"transfer"`
	Probe    Probe        `toml:"probe"`
	Logging  Logging      `toml:"logging"`
	Boards   []BoardEntry `toml:"boards"`
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error: defaults apply. Environment overrides are applied after
// the file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Inventory returns the boards in configuration order.
func (c *Config) Inventory() []domain.Board {
	boards := make([]domain.Board, 0, len(c.Boards))
	for _, entry := range c.Boards {
		boards = append(boards, domain.Board{
			Hostname:    entry.Hostname,
			CameraIndex: entry.CameraIndex,
		})
	}
	return boards
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = envOrEmpty("CAMSYNC_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("camsync.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) applyEnv() {
	if v := envOrEmpty("CAMSYNC_LOCAL_DIR"); v != "" {
		c.Local.BaseDir = v
	}
	if v := envOrEmpty("CAMSYNC_REMOTE_DIR"); v != "" {
		c.Remote.BaseDir = v
	}
	if v := envOrEmpty("CAMSYNC_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
	if envTruthy("CAMSYNC_VERBOSE") {
		c.Logging.Level = "debug"
	}
}

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
