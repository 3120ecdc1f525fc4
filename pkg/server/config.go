/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// DefaultPort is the port the API traditionally listens on.
const DefaultPort = 9696

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            DefaultPort,
		RateLimit:       100, // 100 req/s
		RateLimitBurst:  200, // burst of 200
		MaxBodyBytes:    1 << 20,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        slog.LevelInfo.String(),
	}

	// Override with environment variables if set
	if portStr := os.Getenv("PORT"); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			cfg.Port = port
		}
	}

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		cfg.LogLevel = logLevelStr
	}

	return cfg
}

// addr returns the listen address.
func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
