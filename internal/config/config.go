package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings represents the mixinctl tool configuration
type Settings struct {
	Log        LogSettings        `mapstructure:"log"`
	Resolution ResolutionSettings `mapstructure:"resolution"`
	Output     OutputSettings     `mapstructure:"output"`
}

// LogSettings represents logging configuration
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResolutionSettings represents mixin resolution configuration
type ResolutionSettings struct {
	StrictReplacement bool `mapstructure:"strict_replacement"`
}

// OutputSettings represents terminal output configuration
type OutputSettings struct {
	NoColor bool `mapstructure:"no_color"`
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var validLevels = []string{"debug", "info", "warn", "error"}

// Default returns the settings used when nothing is configured
func Default() *Settings {
	return &Settings{
		Log: LogSettings{Level: "info", Format: FormatConsole},
	}
}

// Load loads the settings from path, or from mixinctl.yml in the working
// directory when path is empty. A missing config file is not an error.
// Environment variables prefixed with MIXINCTL_ override file values.
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", FormatConsole)
	v.SetDefault("resolution.strict_replacement", false)
	v.SetDefault("output.no_color", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mixinctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MIXINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func validate(s *Settings) error {
	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	s.Log.Format = strings.ToLower(strings.TrimSpace(s.Log.Format))

	valid := false
	for _, level := range validLevels {
		if s.Log.Level == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("log.level must be one of %s, got: %s", strings.Join(validLevels, ", "), s.Log.Level)
	}

	if s.Log.Format != FormatConsole && s.Log.Format != FormatJSON {
		return fmt.Errorf("log.format must be %q or %q, got: %s", FormatConsole, FormatJSON, s.Log.Format)
	}
	return nil
}
