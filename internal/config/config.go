package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig `yaml:"server" json:"server"`
	Storage   Storage      `yaml:"storage" json:"storage"`
	SeededRNG SeededRNG    `yaml:"seeded_rng" json:"seeded_rng"`
	Balance   Balance      `yaml:"balance" json:"balance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr" env:"SCOUNDREL_ADDR"`
}

type Storage struct {
	// Driver selects the save backend: "sqlite" or "memory".
	Driver string `yaml:"driver" json:"driver" env:"SCOUNDREL_STORAGE_DRIVER"`
	DBPath string `yaml:"db_path" json:"db_path" env:"SCOUNDREL_DB_PATH"`
}

type SeededRNG struct {
	// Seed pins the run RNG for reproducible dungeons; 0 seeds from the
	// clock.
	Seed int64 `yaml:"seed" json:"seed" env:"SCOUNDREL_SEED"`
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
}

func (s *Storage) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = "sqlite"
	}
	if s.DBPath == "" {
		s.DBPath = "data/scoundrel.db"
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

// Load reads a yaml config file and fills in defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}
