package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	Pages    int    `toml:"pages"`
	StrictWX bool   `toml:"strict_wx"`
	LogLevel string `toml:"log_level"`
	Disasm   bool   `toml:"disasm"`
}

func defaultConfig() config {
	return config{Pages: 1, LogLevel: "info", Disasm: true}
}

func loadConfig(path string, cfg *config) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("read config: unknown keys %v", undecoded)
	}
	return nil
}

func (c config) validate() error {
	if c.Pages <= 0 {
		return fmt.Errorf("pages must be positive, got %d", c.Pages)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
