// Package config loads layoutlens settings from defaults, an optional YAML
// file and LAYOUTLENS_ environment variables, and reloads them when the file
// changes.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/annotate"
	"github.com/tsawler/layoutlens/layout"
	"github.com/tsawler/layoutlens/ocr"
	"github.com/tsawler/layoutlens/raster"
)

// EnvPrefix is prepended to every environment override, e.g.
// LAYOUTLENS_SERVER_PORT.
const EnvPrefix = "LAYOUTLENS"

// Config is the full application configuration.
type Config struct {
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Annotate   AnnotateConfig   `mapstructure:"annotate" yaml:"annotate"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Host        string `mapstructure:"host" yaml:"host"`
	Port        int    `mapstructure:"port" yaml:"port"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// ExtractionConfig mirrors the tunables of layoutlens.Options.
type ExtractionConfig struct {
	DPI                  int     `mapstructure:"dpi" yaml:"dpi"`
	OCRLanguage          string  `mapstructure:"ocr_language" yaml:"ocr_language"`
	PageSegMode          int     `mapstructure:"page_seg_mode" yaml:"page_seg_mode"`
	Rasterizer           string  `mapstructure:"rasterizer" yaml:"rasterizer"`
	DigitalConfidence    float64 `mapstructure:"digital_confidence" yaml:"digital_confidence"`
	OCRDefaultConfidence float64 `mapstructure:"ocr_default_confidence" yaml:"ocr_default_confidence"`
	TitleMaxLength       int     `mapstructure:"title_max_length" yaml:"title_max_length"`
	TitleCutoff          int     `mapstructure:"title_cutoff" yaml:"title_cutoff"`
	HeaderCutoff         int     `mapstructure:"header_cutoff" yaml:"header_cutoff"`
}

// AnnotateConfig sets the default annotation canvas and the largest side a
// request may ask for.
type AnnotateConfig struct {
	CanvasWidth  int `mapstructure:"canvas_width" yaml:"canvas_width"`
	CanvasHeight int `mapstructure:"canvas_height" yaml:"canvas_height"`
	MaxCanvas    int `mapstructure:"max_canvas" yaml:"max_canvas"`
}

// Default returns the built-in configuration.
func Default() Config {
	cls := layout.DefaultClassifierConfig()
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			MaxUploadMB: 10,
		},
		Extraction: ExtractionConfig{
			DPI:                  raster.DefaultDPI,
			OCRLanguage:          layoutlens.DefaultLanguage,
			PageSegMode:          int(ocr.PSM_AUTO),
			Rasterizer:           "embedded",
			DigitalConfidence:    layoutlens.DefaultDigitalConfidence,
			OCRDefaultConfidence: layoutlens.DefaultOCRConfidence,
			TitleMaxLength:       cls.TitleMaxLength,
			TitleCutoff:          cls.TitleCutoff,
			HeaderCutoff:         cls.HeaderCutoff,
		},
		Annotate: AnnotateConfig{
			CanvasWidth:  annotate.DefaultWidth,
			CanvasHeight: annotate.DefaultHeight,
			MaxCanvas:    annotate.MaxCanvas,
		},
	}
}

// defaults flattens Default into viper keys.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"log_level":                         d.LogLevel,
		"server.host":                       d.Server.Host,
		"server.port":                       d.Server.Port,
		"server.max_upload_mb":              d.Server.MaxUploadMB,
		"extraction.dpi":                    d.Extraction.DPI,
		"extraction.ocr_language":           d.Extraction.OCRLanguage,
		"extraction.page_seg_mode":          d.Extraction.PageSegMode,
		"extraction.rasterizer":             d.Extraction.Rasterizer,
		"extraction.digital_confidence":     d.Extraction.DigitalConfidence,
		"extraction.ocr_default_confidence": d.Extraction.OCRDefaultConfidence,
		"extraction.title_max_length":       d.Extraction.TitleMaxLength,
		"extraction.title_cutoff":           d.Extraction.TitleCutoff,
		"extraction.header_cutoff":          d.Extraction.HeaderCutoff,
		"annotate.canvas_width":             d.Annotate.CanvasWidth,
		"annotate.canvas_height":            d.Annotate.CanvasHeight,
		"annotate.max_canvas":               d.Annotate.MaxCanvas,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Options builds extraction options from the configuration.
func (c *Config) Options(logger *slog.Logger) (layoutlens.Options, error) {
	r, err := raster.New(c.Extraction.Rasterizer)
	if err != nil {
		return layoutlens.Options{}, err
	}
	opts := layoutlens.DefaultOptions()
	opts.DPI = c.Extraction.DPI
	opts.Language = c.Extraction.OCRLanguage
	opts.PageSegMode = ocr.PageSegMode(c.Extraction.PageSegMode)
	opts.DigitalConfidence = c.Extraction.DigitalConfidence
	opts.OCRDefaultConfidence = c.Extraction.OCRDefaultConfidence
	opts.Classifier = layout.ClassifierConfig{
		TitleMaxLength: c.Extraction.TitleMaxLength,
		TitleCutoff:    c.Extraction.TitleCutoff,
		HeaderCutoff:   c.Extraction.HeaderCutoff,
	}
	opts.Rasterizer = r
	if logger != nil {
		opts.Logger = logger
	}
	return opts, nil
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager. An empty cfgFile searches for
// config.yaml in the working directory and ~/.config/layoutlens; a missing
// file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}

	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}

	if err := m.load(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	for k, val := range defaults() {
		m.v.SetDefault(k, val)
	}

	m.v.SetEnvPrefix(EnvPrefix)
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if cfgFile != "" {
		m.v.SetConfigFile(cfgFile)
	} else {
		m.v.SetConfigName("config")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			m.v.AddConfigPath(filepath.Join(home, ".config", "layoutlens"))
		}
	}

	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() error {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// File is the config file in use, or "" when running on defaults.
func (m *Manager) File() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers a callback invoked after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig starts watching the config file. Reloads that fail to
// unmarshal keep the previous configuration.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		if err := m.load(); err != nil {
			slog.Error("config reload failed", "file", e.Name, "error", err)
			return
		}

		m.mu.RLock()
		cfg := m.config
		callbacks := append(([]func(*Config))(nil), m.callbacks...)
		m.mu.RUnlock()

		slog.Info("config reloaded", "file", e.Name)
		for _, cb := range callbacks {
			cb(cfg)
		}
	})
	m.v.WatchConfig()
}

// WriteDefault writes the default configuration as YAML.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
