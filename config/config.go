package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

const (
	// AppDirectoryName is the per-user application data directory name.
	AppDirectoryName = "gostream"
	// configFileName is the persisted configuration file.
	configFileName = "config.json"

	// DefaultHTTPPort is the host control port before any override.
	DefaultHTTPPort = 47989
	// DefaultHTTPSPort is assumed when a host omits its HttpsPort field.
	DefaultHTTPSPort = 47984

	// DefaultMinServerVersion and DefaultMaxServerVersion bound the host
	// generations this client talks to.
	DefaultMinServerVersion = 3
	DefaultMaxServerVersion = 7

	// DefaultSunshineVersionSentinel: a fourth version-quad component
	// below this marks the alternate (Sunshine) host family.
	DefaultSunshineVersionSentinel = 0

	// DefaultDeviceName is the name hosts display for this client.
	DefaultDeviceName = "roth"
)

// Settings contains the persistent client configuration. Protocol constants
// that vary by deployment (ports, version bounds, timeouts) live here so
// they stay reviewable rather than buried in code.
type Settings struct {
	UniqueID   string `json:"unique_id"`
	DeviceName string `json:"device_name"`

	HTTPPort  int `json:"http_port"`
	HTTPSPort int `json:"https_port"`

	MinServerVersion        int `json:"min_server_version"`
	MaxServerVersion        int `json:"max_server_version"`
	SunshineVersionSentinel int `json:"sunshine_version_sentinel"`

	TimeoutShortSeconds  int `json:"timeout_short_seconds"`
	TimeoutMediumSeconds int `json:"timeout_medium_seconds"`
	TimeoutLongSeconds   int `json:"timeout_long_seconds"`

	CertificatePath string `json:"certificate_path"`
	PrivateKeyPath  string `json:"private_key_path"`

	Stream StreamSettings `json:"stream"`
}

// StreamSettings are the defaults applied to launch requests when the
// caller does not override them.
type StreamSettings struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	FPS        int  `json:"fps"`
	SOPS       bool `json:"sops"`
	LocalAudio bool `json:"local_audio"`
	Surround   bool `json:"surround"`
}

// ResolveDataDir returns the OS-aware app data directory.
//
// If GOSTREAM_DATA_DIR is set, its value is used as an explicit override.
func ResolveDataDir() (string, error) {
	if override := os.Getenv("GOSTREAM_DATA_DIR"); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(base, AppDirectoryName), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppDirectoryName), nil
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, AppDirectoryName), nil
	}
}

// ConfigPath returns the full path to config.json for a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// KeysDir returns the directory holding the client certificate and key.
func KeysDir(dataDir string) string {
	return filepath.Join(dataDir, "keys")
}

// BoxArtDir returns the on-disk cache directory for application box art.
func BoxArtDir(dataDir string) string {
	return filepath.Join(dataDir, "boxart")
}

// EnsureDataDirectories creates the app data directory layout if needed.
func EnsureDataDirectories(dataDir string) error {
	dirs := []string{
		dataDir,
		KeysDir(dataDir),
		BoxArtDir(dataDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	return nil
}

// Load reads and unmarshals config.json from disk.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Settings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// Save marshals and writes config.json to disk.
func Save(path string, cfg *Settings) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// LoadOrCreate ensures directories and config exist under the default data
// directory, then returns both the settings and the config file path.
func LoadOrCreate() (*Settings, string, error) {
	dataDir, err := ResolveDataDir()
	if err != nil {
		return nil, "", err
	}
	return LoadOrCreateAt(dataDir)
}

// LoadOrCreateAt is LoadOrCreate with an explicit data directory.
func LoadOrCreateAt(dataDir string) (*Settings, string, error) {
	if err := EnsureDataDirectories(dataDir); err != nil {
		return nil, "", err
	}

	cfgPath := ConfigPath(dataDir)
	cfg, err := Load(cfgPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}

		cfg = defaultSettings(dataDir)
		if err := Save(cfgPath, cfg); err != nil {
			return nil, "", err
		}
		return cfg, cfgPath, nil
	}

	if normalizeDefaults(cfg, dataDir) {
		if err := Save(cfgPath, cfg); err != nil {
			return nil, "", err
		}
	}

	return cfg, cfgPath, nil
}

// NewUniqueID derives a fresh 16-hex-character client identity string.
func NewUniqueID() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:8]))
}

func defaultSettings(dataDir string) *Settings {
	keysDir := KeysDir(dataDir)
	return &Settings{
		UniqueID:                NewUniqueID(),
		DeviceName:              DefaultDeviceName,
		HTTPPort:                DefaultHTTPPort,
		HTTPSPort:               DefaultHTTPSPort,
		MinServerVersion:        DefaultMinServerVersion,
		MaxServerVersion:        DefaultMaxServerVersion,
		SunshineVersionSentinel: DefaultSunshineVersionSentinel,
		TimeoutShortSeconds:     5,
		TimeoutMediumSeconds:    15,
		TimeoutLongSeconds:      120,
		CertificatePath:         filepath.Join(keysDir, "client.pem"),
		PrivateKeyPath:          filepath.Join(keysDir, "key.pem"),
		Stream: StreamSettings{
			Width:  1280,
			Height: 720,
			FPS:    60,
			SOPS:   true,
		},
	}
}

func normalizeDefaults(cfg *Settings, dataDir string) bool {
	defaults := defaultSettings(dataDir)
	updated := false

	if cfg.UniqueID == "" {
		cfg.UniqueID = NewUniqueID()
		updated = true
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = defaults.DeviceName
		updated = true
	}
	if cfg.HTTPPort <= 0 {
		cfg.HTTPPort = defaults.HTTPPort
		updated = true
	}
	if cfg.HTTPSPort <= 0 {
		cfg.HTTPSPort = defaults.HTTPSPort
		updated = true
	}
	if cfg.MinServerVersion <= 0 {
		cfg.MinServerVersion = defaults.MinServerVersion
		updated = true
	}
	if cfg.MaxServerVersion <= 0 {
		cfg.MaxServerVersion = defaults.MaxServerVersion
		updated = true
	}
	if cfg.TimeoutShortSeconds <= 0 {
		cfg.TimeoutShortSeconds = defaults.TimeoutShortSeconds
		updated = true
	}
	if cfg.TimeoutMediumSeconds <= 0 {
		cfg.TimeoutMediumSeconds = defaults.TimeoutMediumSeconds
		updated = true
	}
	if cfg.TimeoutLongSeconds <= 0 {
		cfg.TimeoutLongSeconds = defaults.TimeoutLongSeconds
		updated = true
	}
	if cfg.CertificatePath == "" {
		cfg.CertificatePath = defaults.CertificatePath
		updated = true
	}
	if cfg.PrivateKeyPath == "" {
		cfg.PrivateKeyPath = defaults.PrivateKeyPath
		updated = true
	}
	if cfg.Stream.Width <= 0 || cfg.Stream.Height <= 0 {
		cfg.Stream.Width = defaults.Stream.Width
		cfg.Stream.Height = defaults.Stream.Height
		updated = true
	}
	if cfg.Stream.FPS <= 0 {
		cfg.Stream.FPS = defaults.Stream.FPS
		updated = true
	}

	return updated
}
