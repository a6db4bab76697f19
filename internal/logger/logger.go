package logger

import (
	"go.uber.org/zap"

	"careerhub-api/internal/config"
)

// New builds a development logger in dev mode and a JSON production logger otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
