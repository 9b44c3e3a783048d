package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type clientConfig struct {
	Server string `mapstructure:"server"`
	APIKey string `mapstructure:"api_key"`
	Room   string `mapstructure:"room"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roomez.yaml"
	}
	return filepath.Join(home, ".roomez.yaml")
}

// loadConfig reads path, then lets ROOMEZ_SERVER, ROOMEZ_API_KEY and ROOMEZ_ROOM
// override it. A missing file is not an error.
func loadConfig(path string) (*clientConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ROOMEZ")
	v.AutomaticEnv()

	v.SetDefault("server", "http://localhost:3100")
	v.SetDefault("api_key", "")
	v.SetDefault("room", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg clientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// override applies non-empty command line values.
func (c *clientConfig) override(server, apiKey, room string) {
	if server != "" {
		c.Server = server
	}
	if apiKey != "" {
		c.APIKey = apiKey
	}
	if room != "" {
		c.Room = room
	}
}
