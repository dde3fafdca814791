// Package config loads a coverage run's settings — target launch
// parameters, module/source filters, and report output — from a YAML
// file (with environment-variable overrides) via spf13/viper. Nothing
// downstream of Load ever imports viper: the runner façade and CLI only
// see the plain Config struct, keeping the third-party config library an
// implementation detail of this one package.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/glthr/covrun/internal/filter"
)

// TargetConfig describes the process to launch under the debugger.
type TargetConfig struct {
	Path       string            `mapstructure:"path"`
	WorkingDir string            `mapstructure:"working_dir"`
	Args       []string          `mapstructure:"args"`
	Env        map[string]string `mapstructure:"env"`
}

// ReportConfig describes where and how to render the finished Run.
type ReportConfig struct {
	// Format selects a report.Renderer: "cobertura", "html", or "text".
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Config is the fully decoded, validated settings for one coverage run.
type Config struct {
	Target  TargetConfig      `mapstructure:"target"`
	Modules filter.PatternSet `mapstructure:"modules"`
	Sources filter.PatternSet `mapstructure:"sources"`
	Report  ReportConfig      `mapstructure:"report"`
}

const envPrefix = "COVRUN"

// Load reads path (any format viper supports by extension — YAML is the
// documented one) and environment variables prefixed COVRUN_ (e.g.
// COVRUN_TARGET_PATH overrides target.path), and returns a validated
// Config. Malformed glob patterns in either PatternSet are rejected here
// so a bad config never reaches the Filter's per-path hot path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("report.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a Config's module and source glob patterns independent
// of how it was constructed — Load calls it, and tests that build a Config
// by hand should too. It does not check that target.path or any other
// field is set.
func Validate(cfg *Config) error {
	if err := filter.ValidatePatterns(cfg.Modules); err != nil {
		return err
	}
	if err := filter.ValidatePatterns(cfg.Sources); err != nil {
		return err
	}
	return nil
}
