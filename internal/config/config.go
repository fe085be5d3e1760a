// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr            string
	AllowedOrigins  []string
	ClockTime       time.Duration
	MatchInterval   time.Duration
	LogLevel        log.Level
	ReadBufferSize  int
	WriteBufferSize int
}

func Default() Config {
	return Config{
		Addr:            ":3000",
		AllowedOrigins:  []string{"http://localhost:5173"},
		ClockTime:       600 * time.Second,
		MatchInterval:   time.Second,
		LogLevel:        log.LevelInfo,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// FromEnv overlays CHESS_* variables on the defaults.
func FromEnv() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("CHESS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v := getenv("CHESS_CLOCK_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("CHESS_CLOCK_SECONDS: want a positive integer, got %q", v)
		}
		cfg.ClockTime = time.Duration(secs) * time.Second
	}
	if v := getenv("CHESS_MATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("CHESS_MATCH_INTERVAL: want a positive duration, got %q", v)
		}
		cfg.MatchInterval = d
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func parseLevel(v string) (log.Level, error) {
	switch strings.ToLower(v) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("CHESS_LOG_LEVEL: unknown level %q", v)
}

// AllowOrigins is the comma joined form fiber's cors middleware expects.
func (c Config) AllowOrigins() string {
	return strings.Join(c.AllowedOrigins, ", ")
}
