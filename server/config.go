// File: server/config.go
// Package server defines the echo server configuration surface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config fixes the startup parameters of the service. Worker count, queue
// capacity and chunk size never change after construction.
type Config struct {
	// ListenAddr is the TCP address to bind, e.g. ":9001". ":0" picks a
	// free port, reported by Server.Addr.
	ListenAddr string `yaml:"listen_addr"`

	// Workers is the fixed size N of the echo worker pool.
	Workers int `yaml:"workers"`

	// QueueCapacity is the fixed capacity C of the hand-off queue. A full
	// queue stalls the reactor goroutine: this is the backpressure knob.
	QueueCapacity int `yaml:"queue_capacity"`

	// ChunkSize is the maximum bytes of one read; larger client writes
	// are observed and echoed as multiple independent chunks.
	ChunkSize int `yaml:"chunk_size"`
}

// DefaultConfig returns a working configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:    ":9001",
		Workers:       4,
		QueueCapacity: 64,
		ChunkSize:     1024,
	}
}

// Validate rejects configurations the core cannot run with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("config: queue_capacity must be >= 1, got %d", c.QueueCapacity)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("config: chunk_size must be >= 1, got %d", c.ChunkSize)
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults; absent keys keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
