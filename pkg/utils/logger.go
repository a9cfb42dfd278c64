package utils

import "go.uber.org/zap"

// NewLogger builds the process logger. Debug mode selects zap's development
// config (console encoding, level debug); otherwise the production config
// (JSON, level info) applies.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
