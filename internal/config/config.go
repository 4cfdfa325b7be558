package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "tictactoe/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// ServerConfig holds settings for the HTTP frontend.
type ServerConfig struct {
	Addr             string `json:"addr"`
	HeartbeatSeconds int    `json:"heartbeat_seconds"`
	SendBuffer       int    `json:"send_buffer"`
	IdleMinutes      int    `json:"idle_minutes"`
}

// Heartbeat returns the SSE keep-alive interval.
func (s ServerConfig) Heartbeat() time.Duration {
	return time.Duration(s.HeartbeatSeconds) * time.Second
}

// IdleTimeout returns how long an untouched session survives.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// GameConfig holds defaults applied to new sessions.
type GameConfig struct {
	Descending bool `json:"descending"`
}

// Theme holds terminal colors as ANSI palette numbers or "#rrggbb".
type Theme struct {
	XColor   string `json:"x_color"`
	OColor   string `json:"o_color"`
	WinColor string `json:"win_color"`
}

type Config struct {
	Server ServerConfig `json:"server"`
	Game   GameConfig   `json:"game"`
	Theme  Theme        `json:"theme"`
}

// InitConfig loads the user's config file over DefaultConfig.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &InvalidConfig{"server.addr must not be empty"}
	}
	if c.Server.HeartbeatSeconds < 1 {
		return &InvalidConfig{"server.heartbeat_seconds must be positive"}
	}
	if c.Server.SendBuffer < 1 {
		return &InvalidConfig{"server.send_buffer must be positive"}
	}
	if c.Server.IdleMinutes < 1 {
		return &InvalidConfig{"server.idle_minutes must be positive"}
	}
	return nil
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, c *Config, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, c *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
