package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/photobooth-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

const (
	DefaultPollIntervalMs = 250
	DefaultTempMarker     = "tmpfile"
	DefaultTunnelAPI      = "http://localhost:4040/api/tunnels"
	// URLRootAuto derives the share link root from the first LAN address and the listen port.
	URLRootAuto = "auto"
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		URLRoot:        "http://localhost",
		ImageRoot:      "fotos",
		ZipRoot:        "zips",
		ArchiveName:    "09.07. - Bilder_vom_Gemeinderat", // shows up as the download file name on phones
		PollIntervalMs: DefaultPollIntervalMs,
		TempMarker:     DefaultTempMarker, // gphoto2 writes tmpfileXXXX before renaming
		Listen:         "127.0.0.1:8787",
		Viewport:       types.Viewport{Width: 1500, Height: 1000},
		QRSize:         512,
		Capture: types.CaptureConfig{
			Enabled:       true,
			Binary:        "gphoto2",
			MinIntervalMs: 1500,
		},
		TunnelAPI:     DefaultTunnelAPI,
		ServeArchives: false,
	}
}

// LoadConfig reads path (or ConfigPath), writing a default config when the file is missing.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	fillZeroValues(&cfg)

	CurrentConfig = cfg
	return cfg, nil
}

// fillZeroValues restores defaults for keys an older config file does not carry.
func fillZeroValues(cfg *types.AppConfig) {
	def := defaultConfig()
	if cfg.ImageRoot == "" {
		cfg.ImageRoot = def.ImageRoot
	}
	if cfg.ZipRoot == "" {
		cfg.ZipRoot = def.ZipRoot
	}
	if cfg.ArchiveName == "" {
		cfg.ArchiveName = def.ArchiveName
	}
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = def.PollIntervalMs
	}
	if cfg.TempMarker == "" {
		cfg.TempMarker = def.TempMarker
	}
	if cfg.Listen == "" {
		cfg.Listen = def.Listen
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = def.Viewport
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = def.QRSize
	}
	if cfg.Capture.Binary == "" {
		cfg.Capture.Binary = def.Capture.Binary
	}
	if cfg.TunnelAPI == "" {
		cfg.TunnelAPI = def.TunnelAPI
	}
}

// ApplyFlagOverrides merges non-empty CLI overrides into cfg.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UseImageRoot != "" {
		cfg.ImageRoot = flags.UseImageRoot
	}
	if flags.UseZipRoot != "" {
		cfg.ZipRoot = flags.UseZipRoot
	}
	if flags.UseURLRoot != "" {
		cfg.URLRoot = flags.UseURLRoot
	}
	if flags.UseListen != "" {
		cfg.Listen = flags.UseListen
	}
	if flags.SkipNotify {
		cfg.NotifySocket = ""
	}
	CurrentConfig = *cfg
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetCurrentConfig returns the config in effect after flag overrides.
func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
