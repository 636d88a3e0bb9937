// Package config loads process-wide tunables for the promise runtime from a
// small YAML document, with sane defaults when no file is present.
package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Dispatch configures the host thread pool used by ContinuationDispatch to run
// continuations that opt out of inline execution.
type Dispatch struct {
	// WorkerCount is the number of goroutines in the shared dispatch pool.
	WorkerCount int `yaml:"workerCount"`
}

// Logging configures the process-wide logger, mirrored into logger.Config.
type Logging struct {
	JSON        bool       `yaml:"json"`
	MinLevel    slog.Level `yaml:"minLevel"`
	LegacyLevel slog.Level `yaml:"legacyLevel"`
	Output      string     `yaml:"output"`
}

// Config is the root configuration document for a process embedding this module.
type Config struct {
	Dispatch Dispatch `yaml:"dispatch"`
	Logging  Logging  `yaml:"logging"`
}

const defaultWorkerCount = 10

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		Dispatch: Dispatch{WorkerCount: defaultWorkerCount},
		Logging: Logging{
			JSON:        false,
			MinLevel:    slog.LevelInfo,
			LegacyLevel: slog.LevelInfo,
			Output:      "stdout",
		},
	}
}

// Load reads a YAML configuration file from path, falling back to Default()
// values for any field the file omits. A missing file is not an error; it
// yields Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Dispatch.WorkerCount <= 0 {
		cfg.Dispatch.WorkerCount = defaultWorkerCount
	}

	return cfg, nil
}
