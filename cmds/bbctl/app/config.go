package app

import (
	"os"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

const DEFAULT_CATALOG = "amace"

type Config struct {
	Catalog  *string `json:"catalog,omitempty"`
	Snapshot *string `json:"snapshot,omitempty"`
	Port     *int    `json:"port,omitempty"`
}

// GetConfig merges the .bbctl config files found in the home
// directory, the user config directory and the current directory.
// The environment variable BBCTL_CATALOG overrides the catalog.
func GetConfig(fs vfs.FileSystem) *Config {
	var cfg Config

	dir, err := os.UserHomeDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, ".bbctl")))
	}
	dir, err = os.UserConfigDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, ".bbctl")))
	}
	MergeConfig(&cfg, ReadConfig(fs, ".bbctl"))

	if v := os.Getenv("BBCTL_CATALOG"); v != "" {
		cfg.Catalog = utils.Pointer(v)
	}
	if cfg.Catalog == nil || *cfg.Catalog == "" {
		cfg.Catalog = utils.Pointer(DEFAULT_CATALOG)
	}
	if cfg.Port == nil {
		cfg.Port = utils.Pointer(8080)
	}
	return &cfg
}

func ReadConfig(fs vfs.FileSystem, path string) *Config {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil
	}
	return &cfg
}

func MergeConfig(cfg *Config, add *Config) {
	if add == nil {
		return
	}
	if add.Catalog != nil {
		cfg.Catalog = add.Catalog
	}
	if add.Snapshot != nil {
		cfg.Snapshot = add.Snapshot
	}
	if add.Port != nil {
		cfg.Port = add.Port
	}
}
