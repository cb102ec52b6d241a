package main

import (
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the settings shared by every command. A TOML file sets
// them and flags override the file:
//
//	max_errors  = 50
//	max_tokens  = 10000
//	max_depth   = 8
//	log_level   = "debug"
//	no_location = false
type Config struct {
	MaxErrors  int    `toml:"max_errors"`
	MaxTokens  int    `toml:"max_tokens"`
	MaxDepth   int    `toml:"max_depth"`
	LogLevel   string `toml:"log_level"`
	NoLocation bool   `toml:"no_location"`
}

func defaultConfig() Config {
	return Config{LogLevel: logrus.WarnLevel.String()}
}

// loadConfig reads the TOML file at path over the defaults. Unknown keys
// are an error.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return config, errors.Wrapf(err, "loading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return config, errors.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return config, nil
}

// overrides are the flags that replace values of the file when given.
type overrides struct {
	maxErrors  *int
	maxTokens  *int
	maxDepth   *int
	logLevel   *string
	noLocation *bool
}

func (o overrides) apply(config *Config) {
	if *o.maxErrors > 0 {
		config.MaxErrors = *o.maxErrors
	}
	if *o.maxTokens > 0 {
		config.MaxTokens = *o.maxTokens
	}
	if *o.maxDepth > 0 {
		config.MaxDepth = *o.maxDepth
	}
	if *o.logLevel != "" {
		config.LogLevel = *o.logLevel
	}
	if *o.noLocation {
		config.NoLocation = true
	}
}

func (c Config) logger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log_level")
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	return log, nil
}
