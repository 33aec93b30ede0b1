package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/fsutil"
)

// Config is the resolved shelf configuration. Every path is absolute.
type Config struct {
	Store   StoreConfig
	Log     LogConfig
	Camera  CameraConfig
	Library LibraryConfig
	Share   ShareConfig
}

// StoreConfig selects the catalog store.
type StoreConfig struct {
	Driver string // bolt, sqlite, file or memory
	Path   string
}

// LogConfig controls the log file.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// CameraConfig holds the capture command. An empty command disables the
// camera.
type CameraConfig struct {
	Command string
	Dir     string
}

// LibraryConfig is where relative library paths start.
type LibraryConfig struct {
	Root string
}

// ShareConfig selects the share target.
type ShareConfig struct {
	Target string // clipboard, dir or s3
	Dir    string
	S3     S3Config
}

// S3Config configures the bucket share target.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	PresignMinutes  int
	Concurrency     int
}

const (
	defaultConfigPath = "~/.config/shelf/config.toml"
	defaultDataDir    = "~/.local/share/shelf"
	defaultDriver     = "bolt"
	defaultLogLevel   = "info"
	defaultLogSizeMB  = 10
	defaultLogBackups = 3
	defaultLogAgeDays = 28
	defaultCameraDir  = "~/Pictures/shelf"
	defaultLibrary    = "~/Pictures"
	defaultTarget     = "clipboard"
	defaultShareDir   = "~/Pictures/shelf-shared"
	defaultPresignMin = 24 * 60
)

type fileConfig struct {
	Store struct {
		Driver string `toml:"driver"`
		Path   string `toml:"path"`
	} `toml:"store"`
	Log struct {
		Level      string `toml:"level"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAgeDays int    `toml:"max_age_days"`
	} `toml:"log"`
	Camera struct {
		Command string `toml:"command"`
		Dir     string `toml:"dir"`
	} `toml:"camera"`
	Library struct {
		Root string `toml:"root"`
	} `toml:"library"`
	Share struct {
		Target string `toml:"target"`
		Dir    string `toml:"dir"`
		S3     struct {
			Bucket          string `toml:"bucket"`
			Region          string `toml:"region"`
			Endpoint        string `toml:"endpoint"`
			Prefix          string `toml:"prefix"`
			AccessKeyID     string `toml:"access_key_id"`
			SecretAccessKey string `toml:"secret_access_key"`
			PathStyle       bool   `toml:"path_style"`
			PresignMinutes  int    `toml:"presign_minutes"`
			Concurrency     int    `toml:"concurrency"`
		} `toml:"s3"`
	} `toml:"share"`
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return fsutil.MustExpand(defaultConfigPath)
}

// Load reads the config at path, or the default location when path is empty.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return normalize(raw), nil
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return normalize(raw), nil
}

func normalize(raw fileConfig) Config {
	var cfg Config

	cfg.Store.Driver = strings.ToLower(orDefault(raw.Store.Driver, defaultDriver))
	cfg.Store.Path = strings.TrimSpace(raw.Store.Path)
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.Store.Driver)
	}
	if cfg.Store.Path != "" {
		cfg.Store.Path = fsutil.MustExpand(cfg.Store.Path)
	}

	cfg.Log.Level = strings.ToLower(orDefault(raw.Log.Level, defaultLogLevel))
	cfg.Log.File = fsutil.MustExpand(orDefault(raw.Log.File, defaultDataDir+"/shelf.log"))
	cfg.Log.MaxSizeMB = positiveOr(raw.Log.MaxSizeMB, defaultLogSizeMB)
	cfg.Log.MaxBackups = positiveOr(raw.Log.MaxBackups, defaultLogBackups)
	cfg.Log.MaxAgeDays = positiveOr(raw.Log.MaxAgeDays, defaultLogAgeDays)

	cfg.Camera.Command = strings.TrimSpace(raw.Camera.Command)
	cfg.Camera.Dir = fsutil.MustExpand(orDefault(raw.Camera.Dir, defaultCameraDir))

	cfg.Library.Root = fsutil.MustExpand(orDefault(raw.Library.Root, defaultLibrary))

	cfg.Share.Target = strings.ToLower(orDefault(raw.Share.Target, defaultTarget))
	cfg.Share.Dir = fsutil.MustExpand(orDefault(raw.Share.Dir, defaultShareDir))
	s3 := raw.Share.S3
	cfg.Share.S3 = S3Config{
		Bucket:          strings.TrimSpace(s3.Bucket),
		Region:          strings.TrimSpace(s3.Region),
		Endpoint:        strings.TrimSpace(s3.Endpoint),
		Prefix:          strings.Trim(strings.TrimSpace(s3.Prefix), "/"),
		AccessKeyID:     strings.TrimSpace(s3.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(s3.SecretAccessKey),
		PathStyle:       s3.PathStyle,
		PresignMinutes:  positiveOr(s3.PresignMinutes, defaultPresignMin),
		Concurrency:     s3.Concurrency,
	}
	return cfg
}

func defaultStorePath(driver string) string {
	switch driver {
	case "memory":
		return ""
	case "sqlite":
		return defaultDataDir + "/shelf.sqlite"
	case "file":
		return defaultDataDir + "/store"
	default:
		return defaultDataDir + "/shelf.db"
	}
}

// PrefsPath returns the preferences file that sits next to the config.
func PrefsPath(configPath string) string {
	if strings.TrimSpace(configPath) == "" {
		configPath = DefaultPath()
	}
	return filepath.Join(filepath.Dir(fsutil.MustExpand(configPath)), "prefs.toml")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return fsutil.ExpandPath(defaultConfigPath)
	}
	return fsutil.ExpandPath(path)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
