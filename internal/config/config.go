package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/toc"
)

// DefaultFile is looked up in the working directory when -c is not given.
const DefaultFile = ".doctoc.yaml"

// Config is the .doctoc.yaml file.
type Config struct {
	Markers        MarkersConfig `yaml:"markers"`
	Extensions     []string      `yaml:"extensions"`
	HeadingOffset  int           `yaml:"heading_offset"`
	MaxDepth       int           `yaml:"max_depth"`
	SkipCodeBlocks bool          `yaml:"skip_code_blocks"`
	Logging        LoggingConfig `yaml:"logging"`
	State          StateConfig   `yaml:"state"`
	Events         EventsConfig  `yaml:"events"`
}

// MarkersConfig holds the comment tokens recognised in documents.
type MarkersConfig struct {
	TOC    string   `yaml:"toc"`
	TOF    string   `yaml:"tof"`
	End    []string `yaml:"end"`
	Figure string   `yaml:"figure"`
	Body   string   `yaml:"body"`
}

// StateConfig locates the fingerprint database used by incremental runs.
type StateConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig enables publishing rewrite events. An empty NATSURL disables it.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	m := toc.DefaultMarkers()
	return &Config{
		Markers: MarkersConfig{
			TOC:    m.TOC,
			TOF:    m.TOF,
			End:    append([]string(nil), m.End...),
			Figure: m.Figure,
			Body:   m.Body,
		},
		Extensions: []string{".md"},
		Logging:    LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		State:      StateConfig{Path: filepath.Join(".doctoc", "state.db")},
		Events:     EventsConfig{Subject: "doctoc.rewritten"},
	}
}

// Load reads configPath. A missing file yields Default(). .env files next to
// the config file are loaded first and ${VAR} references are expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	if err := cfg.normalize(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			WithContext("path", configPath).
			Fatal().
			Build()
	}
	return cfg, nil
}

// normalize fills blanks left by a partial file and validates the rest.
func (c *Config) normalize() error {
	def := Default()

	if c.Markers.TOC == "" {
		c.Markers.TOC = def.Markers.TOC
	}
	if c.Markers.TOF == "" {
		c.Markers.TOF = def.Markers.TOF
	}
	if len(c.Markers.End) == 0 {
		c.Markers.End = def.Markers.End
	}
	if c.Markers.Figure == "" {
		c.Markers.Figure = def.Markers.Figure
	}
	if c.Markers.Body == "" {
		c.Markers.Body = def.Markers.Body
	}
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return errors.ValidationError("extension must not be empty").Build()
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.HeadingOffset < 0 {
		return errors.ValidationError("heading_offset must not be negative").
			WithContext("heading_offset", c.HeadingOffset).
			Build()
	}
	if c.MaxDepth < 0 {
		return errors.ValidationError("max_depth must not be negative").
			WithContext("max_depth", c.MaxDepth).
			Build()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if err := c.Logging.normalize(); err != nil {
		return err
	}
	if c.State.Path == "" {
		c.State.Path = def.State.Path
	}
	if c.Events.Subject == "" {
		c.Events.Subject = def.Events.Subject
	}

	_, err := toc.NewSyntax(c.TOCMarkers())
	return err
}

// TOCMarkers converts the marker section for the engine.
func (c *Config) TOCMarkers() toc.Markers {
	return toc.Markers{
		TOC:    c.Markers.TOC,
		TOF:    c.Markers.TOF,
		End:    c.Markers.End,
		Figure: c.Markers.Figure,
		Body:   c.Markers.Body,
	}
}

// TOCOptions builds engine options from the configuration.
func (c *Config) TOCOptions() toc.Options {
	return toc.Options{
		Markers:       c.TOCMarkers(),
		HeadingOffset: c.HeadingOffset,
		MaxDepth:      c.MaxDepth,
	}
}

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal default config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
