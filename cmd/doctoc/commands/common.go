package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/doctoc/internal/config"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	RunID  string
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:".doctoc.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `env:"DOCTOC_LOG_LEVEL" help:"Override the configured log level (${log_levels})"`
	LogFormat string           `env:"DOCTOC_LOG_FORMAT" help:"Override the configured log format (text, json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Regenerate tables of contents, figures and captions in place"`
	Check    CheckCmd    `cmd:"" help:"Report documents whose generated content is out of date"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate documents whenever they change"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file"`

	cfg    *config.Config
	cfgErr error
}

// AfterApply runs after flag parsing; loads the configuration and installs
// the default logger once. A configuration error is kept for the command to
// report so init can still replace a broken file.
func (c *CLI) AfterApply(g *Global) error {
	c.cfg, c.cfgErr = config.Load(c.Config)

	logging := config.Default().Logging
	if c.cfgErr == nil {
		logging = c.cfg.Logging
	}
	if c.LogLevel != "" {
		logging.Level = config.NormalizeLogLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		logging.Format = config.NormalizeLogFormat(c.LogFormat)
	}
	level := logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	if g.RunID == "" {
		g.RunID = uuid.NewString()
	}
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	// The processor tags its own records with the run id.
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger.With(logfields.RunID(g.RunID)))
	return nil
}

// Vars are the kong interpolation variables the CLI help refers to.
func Vars(versionString string) kong.Vars {
	return kong.Vars{
		"version":    versionString,
		"log_levels": strings.Join(config.LogLevels(), ", "),
	}
}

// LoadedConfig returns the configuration parsed in AfterApply.
func (c *CLI) LoadedConfig() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, c.cfgErr
	}
	if c.cfg == nil {
		return config.Default(), nil
	}
	return c.cfg, nil
}
