package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
// format "console" switches production output to the console encoder; "" and "json" keep JSON.
func NewLogger(debug bool, format string) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	switch format {
	case "", "json":
	case "console":
		cfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("unknown log format %q (supported: json, console)", format)
	}
	return cfg.Build()
}
