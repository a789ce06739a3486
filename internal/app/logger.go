package app

import (
	"os"

	"vendorconnect/internal/config"
	"vendorconnect/internal/logx"
)

// NewLogger returns the process JSON logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, logx.ParseLevel(cfg.LogLevel))
}
