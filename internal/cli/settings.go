package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ProjectFile is the base name of the project settings file.
	ProjectFile = "table-mapper"
	// EnvPrefix prefixes the environment variables read by the CLI.
	EnvPrefix = "TABLEMAPPER"
)

// Settings are the resolved CLI settings.
type Settings struct {
	Packages    []string `mapstructure:"packages"`
	Config      string   `mapstructure:"config"`
	Dir         string   `mapstructure:"dir"`
	Conventions string   `mapstructure:"conventions"`
	Format      string   `mapstructure:"format"`
	Verbose     bool     `mapstructure:"verbose"`
	NoColor     bool     `mapstructure:"no-color"`
}

// loadSettings reads the project file and the environment into v, on top of
// the flags already bound to it.
func loadSettings(v *viper.Viper, flags *pflag.FlagSet) (*Settings, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetDefault("format", formatText)
	v.SetDefault("packages", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("project"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ProjectFile)
		v.SetConfigType("yaml")

		if dir := v.GetString("dir"); dir != "" {
			v.AddConfigPath(dir)
		}

		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read project settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode project settings: %w", err)
	}

	return &s, nil
}

// patterns returns the package patterns of the command line, or the
// configured ones when none were given.
func (s *Settings) patterns(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if len(s.Packages) > 0 {
		return s.Packages, nil
	}

	return nil, errors.New("no packages given: pass package patterns or set packages in " + ProjectFile + ".yaml")
}
