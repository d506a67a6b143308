package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yeqown/medrec"
)

const (
	formatText   = "text"
	formatSQLite = "sqlite"

	defaultDataPath = "./patients.txt"
	defaultLogLevel = "warning"
)

type config struct {
	Data   dataConfig   `yaml:"data"`
	Limits limitsConfig `yaml:"limits"`
	Log    logConfig    `yaml:"log"`
}

type dataConfig struct {
	Path   string `yaml:"path"`   // record file
	Format string `yaml:"format"` // text or sqlite
}

// limitsConfig bounds field sizes in bytes. 0 keeps the default, a negative
// value disables the check.
type limitsConfig struct {
	Name   int `yaml:"name"`
	Gender int `yaml:"gender"`
	Text   int `yaml:"text"`
}

type logConfig struct {
	Level string `yaml:"level"`
}

func defaultConfig() *config {
	limits := medrec.DefaultLimits()
	return &config{
		Data: dataConfig{
			Path:   defaultDataPath,
			Format: formatText,
		},
		Limits: limitsConfig{
			Name:   limits.Name,
			Gender: limits.Gender,
			Text:   limits.Text,
		},
		Log: logConfig{
			Level: defaultLogLevel,
		},
	}
}

// loadConfig reads the YAML file at path over the defaults. An empty path
// returns the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config failed")
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config failed")
	}

	if err = applyDefaults(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *config) error {
	defaults := defaultConfig()

	if cfg.Data.Path == "" {
		cfg.Data.Path = defaults.Data.Path
	}
	cfg.Data.Format = strings.ToLower(cfg.Data.Format)
	if cfg.Data.Format == "" {
		cfg.Data.Format = defaults.Data.Format
	}
	if err := checkFormat(cfg.Data.Format); err != nil {
		return err
	}

	if cfg.Limits.Name == 0 {
		cfg.Limits.Name = defaults.Limits.Name
	}
	if cfg.Limits.Gender == 0 {
		cfg.Limits.Gender = defaults.Limits.Gender
	}
	if cfg.Limits.Text == 0 {
		cfg.Limits.Text = defaults.Limits.Text
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatSQLite:
		return nil
	}

	return errors.Errorf("unknown data format %q, want %s or %s", format, formatText, formatSQLite)
}

// limits converts the config into registry limits, negative means unlimited.
func (cfg *config) limits() medrec.Limits {
	unlimited := func(n int) int {
		if n < 0 {
			return 0
		}
		return n
	}

	return medrec.Limits{
		Name:   unlimited(cfg.Limits.Name),
		Gender: unlimited(cfg.Limits.Gender),
		Text:   unlimited(cfg.Limits.Text),
	}
}
