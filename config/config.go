// Package config loads stormwatch's process-level configuration: the bits
// that are fixed for the life of the process (listen address, capture
// device, encoder pool size) as opposed to the camera's runtime-tunable
// properties, which live in camera.Settings and are mutated over HTTP.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level process configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Capture CaptureConfig `toml:"capture" json:"capture"`
	Library LibraryConfig `toml:"library" json:"library"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// ServerConfig holds the HTTP listener settings, mirroring the --address
// and --port CLI flags so a config file can set the same defaults without
// a flag.
type ServerConfig struct {
	Address string `toml:"address" json:"address"`
	Port    int    `toml:"port" json:"port"`
}

// CaptureConfig holds the device the capture worker opens.
type CaptureConfig struct {
	DeviceIndex int `toml:"device_index" json:"device_index"`
}

// LibraryConfig holds clip-storage settings.
type LibraryConfig struct {
	DataRootOverride string `toml:"data_root_override" json:"data_root_override"`
	EncoderPoolSize  int    `toml:"encoder_pool_size" json:"encoder_pool_size"`
}

// LoggingConfig holds the default log level, overridable by --log-level.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// Load reads configPath if present, overlaying it onto defaults; a missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address: "localhost",
			Port:    8080,
		},
		Capture: CaptureConfig{
			DeviceIndex: 0,
		},
		Library: LibraryConfig{
			EncoderPoolSize: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", configPath, err)
		}
	}

	return cfg, nil
}
