package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all edurisk configuration. Values come from defaults, then
// an optional YAML file, then EDURISK_* environment variables.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Engine   EngineConfig   `yaml:"engine"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

// IngestConfig holds upload parsing settings.
type IngestConfig struct {
	ChunkSize int                 `yaml:"chunk_size"`
	Aliases   map[string][]string `yaml:"aliases"` // canonical field → extra header spellings
}

// EngineConfig holds scoring engine settings.
type EngineConfig struct {
	AugmentModel   string `yaml:"augment_model"`   // .onnx or .safetensors; empty disables augmentation
	RuntimeLibrary string `yaml:"runtime_library"` // ONNX Runtime shared library
	Concurrency    int    `yaml:"concurrency"`     // 0 = GOMAXPROCS
}

// OutputConfig holds result destination settings.
type OutputConfig struct {
	Kind        string `yaml:"kind"`    // stdout|file|both
	Path        string `yaml:"path"`    // may contain {run}
	Summary     bool   `yaml:"summary"` // write <path>.summary.json on close
	Pretty      bool   `yaml:"pretty"`
	Verbosity   string `yaml:"verbosity"` // minimal|standard|full
	MaxSize     int64  `yaml:"max_size"`
	AsyncBuffer int    `yaml:"async_buffer"` // 0 = synchronous
	DropOnFull  bool   `yaml:"drop_on_full"`
}

// PipelineConfig holds streaming batch settings.
type PipelineConfig struct {
	FlushWindow time.Duration `yaml:"flush_window"`
	MaxBatch    int           `yaml:"max_batch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Ingest: IngestConfig{ChunkSize: 32 << 10},
		Output: OutputConfig{
			Kind:      "stdout",
			Verbosity: "standard",
		},
		Pipeline: PipelineConfig{
			FlushWindow: 500 * time.Millisecond,
			MaxBatch:    256,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// EDURISK_CONFIG is consulted, and no file is read if both are unset.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("EDURISK_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Log.Level = getenv("EDURISK_LOG_LEVEL", c.Log.Level)

	c.Ingest.ChunkSize = getenvInt("EDURISK_CHUNK_SIZE", c.Ingest.ChunkSize)

	c.Engine.AugmentModel = getenv("EDURISK_AUGMENT_MODEL", c.Engine.AugmentModel)
	c.Engine.RuntimeLibrary = getenv("EDURISK_ORT_LIBRARY", c.Engine.RuntimeLibrary)
	c.Engine.Concurrency = getenvInt("EDURISK_CONCURRENCY", c.Engine.Concurrency)

	c.Output.Kind = getenv("EDURISK_OUTPUT", c.Output.Kind)
	c.Output.Path = getenv("EDURISK_OUTPUT_PATH", c.Output.Path)
	c.Output.Summary = getenvBool("EDURISK_OUTPUT_SUMMARY", c.Output.Summary)
	c.Output.Pretty = getenvBool("EDURISK_OUTPUT_PRETTY", c.Output.Pretty)
	c.Output.Verbosity = getenv("EDURISK_VERBOSITY", c.Output.Verbosity)
	c.Output.MaxSize = int64(getenvInt("EDURISK_OUTPUT_MAX_SIZE", int(c.Output.MaxSize)))
	c.Output.AsyncBuffer = getenvInt("EDURISK_ASYNC_BUFFER", c.Output.AsyncBuffer)
	c.Output.DropOnFull = getenvBool("EDURISK_DROP_ON_FULL", c.Output.DropOnFull)

	c.Pipeline.FlushWindow = getenvDuration("EDURISK_FLUSH_WINDOW", c.Pipeline.FlushWindow)
	c.Pipeline.MaxBatch = getenvInt("EDURISK_MAX_BATCH", c.Pipeline.MaxBatch)
}

// Validate reports every setting that cannot be used.
func (c Config) Validate() error {
	var errs []error
	switch c.Output.Kind {
	case "stdout":
	case "file", "both":
		if c.Output.Path == "" {
			errs = append(errs, errors.New("output.path is required for file output"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown output kind %q", c.Output.Kind))
	}
	switch c.Output.Verbosity {
	case "minimal", "standard", "full":
	default:
		errs = append(errs, fmt.Errorf("unknown verbosity %q", c.Output.Verbosity))
	}
	if c.Ingest.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest.chunk_size must be positive, got %d", c.Ingest.ChunkSize))
	}
	if c.Engine.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("engine.concurrency must not be negative, got %d", c.Engine.Concurrency))
	}
	if c.Pipeline.FlushWindow <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.flush_window must be positive, got %v", c.Pipeline.FlushWindow))
	}
	if c.Pipeline.MaxBatch < 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_batch must not be negative, got %d", c.Pipeline.MaxBatch))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
