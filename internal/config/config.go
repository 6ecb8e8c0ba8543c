// Package config loads the loom configuration file. The file is HCL and
// entirely optional: every field has a default, and a missing file is not an
// error unless its path was given explicitly.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the full configuration surface.
//
//	db_path     = "/var/lib/loom/library.db"
//	server_name = "loom"
type Config struct {
	// DBPath is the SQLite database file backing the pattern library.
	DBPath string `hcl:"db_path,optional"`
	// ServerName is advertised to MCP clients during initialization.
	ServerName string `hcl:"server_name,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DBPath:     "loom.db",
		ServerName: "loom",
	}
}

// Load reads an HCL config file and fills in defaults for unset fields.
// When explicit is false, a missing file silently yields the defaults;
// when true, the caller asked for this exact file and a missing one is an
// error.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	var file Config
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.ServerName != "" {
		cfg.ServerName = file.ServerName
	}
	return cfg, nil
}
