package config

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/inovacc/zinflate/compression/zlib"
)

const (
	EnvVarPrefix = "ZINFLATE"

	CommandDecompress = "decompress <src> <dst>"
	CommandCompress   = "compress <src> <dst>"

	HomeConfigFile = ".zinflate.toml"

	DefaultLogLevel   = "info"
	DefaultBufferSize = 32 * 1024
	DefaultLevel      = -1

	MinBufferSize = 512
	MaxBufferSize = 16 * 1024 * 1024
	MinLevel      = -2
	MaxLevel      = 9
)

var (
	// VERSION gets set during build
	VERSION = "0.0.0"

	validLogLevels = map[string]struct{}{
		"debug": {},
		"info":  {},
		"warn":  {},
		"error": {},
	}
)

type Config struct {
	CLI     *CLI
	TOML    *TOML
	Command string
}

type TOML struct {
	Config *TOMLConfig `toml:"config"`
}

type TOMLConfig struct {
	LogLevel       string `toml:"log_level"`
	MaxOutput      int    `toml:"max_output"`
	BufferSize     int    `toml:"buffer_size"`
	Level          *int   `toml:"level"`
	IgnoreChecksum bool   `toml:"ignore_checksum"`
}

type CLI struct {
	ConfigFile     string `kong:"help='Path to a TOML config file (default ~/.zinflate.toml if present)',type='path',name='config',short='c'"`
	IgnoreChecksum bool   `kong:"help='Do not verify the Adler-32 trailer'"`
	MaxOutput      int    `kong:"help='Refuse to decompress more than this many bytes (0 keeps the config value)'"`
	Digest         bool   `kong:"help='Print a BLAKE2b-256 digest of the written file'"`

	Debug   bool             `kong:"help='Enable debug output',short='d'"`
	Version kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`

	Decompress FileArgs `kong:"cmd,help='Decompress a zlib file'"`
	Compress   FileArgs `kong:"cmd,help='Compress a file into zlib format'"`
}

type FileArgs struct {
	Src string `kong:"arg,help='Input file',type='path'"`
	Dst string `kong:"arg,help='Output file',type='path'"`
}

// NewConfig parses args (without the program name), then the optional TOML
// file, and validates the result.
func NewConfig(args []string) (*Config, error) {
	// Attempt to load .env
	_ = godotenv.Load(".env")

	cli, command, err := readCLIArgs(args)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing CLI args")
	}

	if cli.ConfigFile == "" {
		cli.ConfigFile = homeConfigFile()
	}

	tomlConfig := &TOML{}
	if cli.ConfigFile != "" {
		tomlConfig, err = readTOML(cli.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	if err := setTOMLDefaults(tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error setting TOML defaults")
	}

	cfg := &Config{
		CLI:     cli,
		TOML:    tomlConfig,
		Command: command,
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Files returns the source and destination of the selected sub-command.
func (c *Config) Files() (string, string) {
	if c.Command == CommandCompress {
		return c.CLI.Compress.Src, c.CLI.Compress.Dst
	}
	return c.CLI.Decompress.Src, c.CLI.Decompress.Dst
}

// Options merges the file settings with the flags; flags win.
func (c *Config) Options() []zlib.OptsFn {
	t := c.TOML.Config

	opts := []zlib.OptsFn{
		zlib.WithBufferSize(t.BufferSize),
		zlib.WithLevel(*t.Level),
	}

	if c.CLI.IgnoreChecksum || t.IgnoreChecksum {
		opts = append(opts, zlib.WithIgnoreChecksum())
	}

	switch {
	case c.CLI.MaxOutput > 0:
		opts = append(opts, zlib.WithMaxOutput(c.CLI.MaxOutput))
	case t.MaxOutput > 0:
		opts = append(opts, zlib.WithMaxOutput(t.MaxOutput))
	}

	return opts
}

func (c *Config) DebugEnabled() bool {
	return c.CLI.Debug || c.TOML.Config.LogLevel == "debug"
}

func setTOMLDefaults(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if t.Config == nil {
		t.Config = &TOMLConfig{}
	}

	if t.Config.LogLevel == "" {
		t.Config.LogLevel = DefaultLogLevel
	}

	if t.Config.BufferSize == 0 {
		t.Config.BufferSize = DefaultBufferSize
	}

	if t.Config.Level == nil {
		level := DefaultLevel
		t.Config.Level = &level
	}

	return nil
}

func Validate(c *Config) error {
	if err := validateCLIArgs(c.CLI); err != nil {
		return errors.Wrap(err, "error validating CLI args")
	}

	if err := validateTOML(c.TOML); err != nil {
		return errors.Wrap(err, "error validating toml config")
	}

	return nil
}

func validateTOML(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if err := validateTOMLConfig(t.Config); err != nil {
		return errors.Wrap(err, "config error(s)")
	}

	return nil
}

func validateTOMLConfig(c *TOMLConfig) error {
	if c == nil {
		return errors.New("config cannot be empty")
	}

	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return errors.Errorf("config.log_level %s is invalid", c.LogLevel)
	}

	if c.MaxOutput < 0 {
		return errors.New("config.max_output cannot be negative")
	}

	if c.BufferSize < MinBufferSize || c.BufferSize > MaxBufferSize {
		return errors.Errorf("config.buffer_size must be between %d and %d", MinBufferSize, MaxBufferSize)
	}

	if c.Level == nil {
		return errors.New("config.level cannot be empty")
	}

	if *c.Level < MinLevel || *c.Level > MaxLevel {
		return errors.Errorf("config.level must be between %d and %d", MinLevel, MaxLevel)
	}

	return nil
}

func readCLIArgs(args []string) (*CLI, string, error) {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zinflate"),
		kong.Description("Decompress and compress zlib files"),
		kong.UsageOnError(),
		kong.DefaultEnvars(EnvVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": VERSION,
		})
	if err != nil {
		return nil, "", errors.Wrap(err, "error building CLI parser")
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, "", err
	}

	if err := validateCLIArgs(cli); err != nil {
		return nil, "", errors.Wrap(err, "error validating args")
	}

	return cli, ctx.Command(), nil
}

func readTOML(file string) (*TOML, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}

	tomlConfig := &TOML{}

	if err := toml.Unmarshal(data, tomlConfig); err != nil {
		return nil, errors.Wrap(err, "error parsing TOML config")
	}

	return tomlConfig, nil
}

// homeConfigFile returns $HOME/.zinflate.toml if it exists.
func homeConfigFile() string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE")
	}
	if homeDir == "" {
		return ""
	}

	file := filepath.Join(homeDir, HomeConfigFile)
	if info, err := os.Stat(file); err != nil || info.IsDir() {
		return ""
	}
	return file
}

func validateCLIArgs(cli *CLI) error {
	if cli == nil {
		return errors.New("config cannot be nil")
	}

	if cli.MaxOutput < 0 {
		return errors.New("--max-output cannot be negative")
	}

	return nil
}
