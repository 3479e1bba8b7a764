package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/zinflate/compression/zlib"
)

func writeTOML(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "zinflate.toml")
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o600))
	return file
}

func applied(cfg *Config) *zlib.Config {
	return zlib.NewConfig(cfg.Options()...)
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewConfig([]string{"decompress", "in.z", "out"})
	require.NoError(t, err)

	assert.Equal(t, CommandDecompress, cfg.Command)
	src, dst := cfg.Files()
	assert.Equal(t, "in.z", filepath.Base(src))
	assert.Equal(t, "out", filepath.Base(dst))

	assert.Equal(t, DefaultLogLevel, cfg.TOML.Config.LogLevel)
	assert.False(t, cfg.DebugEnabled())

	opts := applied(cfg)
	assert.False(t, opts.IgnoreChecksum())
	assert.Equal(t, DefaultBufferSize, opts.BufferSize())
	assert.Equal(t, DefaultLevel, opts.Level())
	assert.Equal(t, zlib.NewConfig().MaxOutput(), opts.MaxOutput())
}

func TestNewConfigCompress(t *testing.T) {
	cfg, err := NewConfig([]string{"compress", "plain", "plain.z"})
	require.NoError(t, err)

	assert.Equal(t, CommandCompress, cfg.Command)
	src, dst := cfg.Files()
	assert.Equal(t, "plain", filepath.Base(src))
	assert.Equal(t, "plain.z", filepath.Base(dst))
}

func TestNewConfigTOML(t *testing.T) {
	file := writeTOML(t, `
[config]
log_level = "debug"
max_output = 4096
buffer_size = 1024
level = 9
ignore_checksum = true
`)

	cfg, err := NewConfig([]string{"-c", file, "decompress", "a", "b"})
	require.NoError(t, err)
	assert.True(t, cfg.DebugEnabled())

	opts := applied(cfg)
	assert.True(t, opts.IgnoreChecksum())
	assert.Equal(t, 4096, opts.MaxOutput())
	assert.Equal(t, 1024, opts.BufferSize())
	assert.Equal(t, 9, opts.Level())
}

func TestFlagsOverrideTOML(t *testing.T) {
	file := writeTOML(t, `
[config]
max_output = 4096
level = 0
`)

	cfg, err := NewConfig([]string{"--config", file, "--max-output", "100", "--ignore-checksum", "-d", "decompress", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, file, cfg.CLI.ConfigFile)
	assert.True(t, cfg.DebugEnabled())

	opts := applied(cfg)
	assert.Equal(t, 100, opts.MaxOutput())
	assert.True(t, opts.IgnoreChecksum())
	assert.Equal(t, 0, opts.Level())
}

func TestEnvVars(t *testing.T) {
	file := writeTOML(t, "[config]\nlevel = 4\n")
	t.Setenv("ZINFLATE_CONFIG", file)
	t.Setenv("ZINFLATE_MAX_OUTPUT", "2048")
	t.Setenv("ZINFLATE_DIGEST", "true")

	cfg, err := NewConfig([]string{"decompress", "a", "b"})
	require.NoError(t, err)
	assert.True(t, cfg.CLI.Digest)
	assert.Equal(t, file, cfg.CLI.ConfigFile)
	assert.Equal(t, 4, applied(cfg).Level())
	assert.Equal(t, 2048, applied(cfg).MaxOutput())
}

func TestNewConfigErrors(t *testing.T) {
	testCases := []struct {
		name    string
		toml    string
		args    []string
		wantErr string
	}{
		{name: "no command", args: []string{}, wantErr: "error parsing CLI args"},
		{name: "missing dst", args: []string{"decompress", "a"}, wantErr: "error parsing CLI args"},
		{name: "negative max output flag", args: []string{"--max-output=-1", "decompress", "a", "b"}, wantErr: "--max-output cannot be negative"},
		{name: "bad log level", toml: "[config]\nlog_level = \"loud\"", wantErr: "config.log_level loud is invalid"},
		{name: "negative max output", toml: "[config]\nmax_output = -1", wantErr: "config.max_output cannot be negative"},
		{name: "small buffer", toml: "[config]\nbuffer_size = 10", wantErr: "config.buffer_size must be between"},
		{name: "bad level", toml: "[config]\nlevel = 10", wantErr: "config.level must be between -2 and 9"},
		{name: "bad toml", toml: "[config\n", wantErr: "error parsing TOML config"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := tc.args
			if tc.toml != "" {
				args = []string{"-c", writeTOML(t, tc.toml), "decompress", "a", "b"}
			}

			_, err := NewConfig(args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := NewConfig([]string{"-c", filepath.Join(t.TempDir(), "nope.toml"), "decompress", "a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestHomeConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, HomeConfigFile), []byte("[config]\nlevel = 3\n"), 0o600))

	cfg, err := NewConfig([]string{"compress", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, HomeConfigFile), cfg.CLI.ConfigFile)
	assert.Equal(t, 3, applied(cfg).Level())

	// An explicit file wins over the home one.
	file := writeTOML(t, "[config]\nlevel = 7\n")
	cfg, err = NewConfig([]string{"-c", file, "compress", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 7, applied(cfg).Level())
}
