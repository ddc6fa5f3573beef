package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"github.com/kaybarkbark/gbcater/catalog"
	"github.com/kaybarkbark/gbcater/log"
)

type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
}

type CatalogConfig struct {
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	Output     string   `toml:"output"`
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("gbcater")
	if err := configdir.MakePath(dir); err != nil {
		log.ModConfig.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

var defaultConfig = Config{
	Catalog: CatalogConfig{
		Extensions: catalog.DefaultExtensions,
		Jobs:       0, // one per CPU
		Output:     "catalog.csv",
	},
}

const cfgFilename = "config.toml"

// ConfigPath returns the location of the configuration file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfigOrDefault loads the configuration from the gbcater config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(ConfigPath(), &cfg)
	if err != nil {
		return defaultConfig
	}
	return cfg
}

// SaveConfig into gbcater config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), buf, 0644)
}
