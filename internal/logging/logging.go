package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/mixins/internal/config"
)

// New builds a logger for the configured level and format. Console loggers
// use the development encoder; json loggers the production one. When the
// logger cannot be constructed a no-op logger is returned.
func New(settings *config.Settings) *zap.Logger {
	if settings == nil {
		settings = config.Default()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(settings.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if settings.Log.Format == config.FormatJSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		if settings.Output.NoColor {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		} else {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
