package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"

	"github.com/inovacc/zinflate/compression/zlib"
	"github.com/inovacc/zinflate/config"
)

func main() {
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}

	if cfg.DebugEnabled() {
		logrus.Info("debug mode enabled")
		logrus.SetLevel(logrus.DebugLevel)
	} else if lvl, err := logrus.ParseLevel(cfg.TOML.Config.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	displayConfig(cfg)

	if err := run(afero.NewOsFs(), cfg); err != nil {
		logrus.Errorf("%s failed: %s", cfg.Command, err)
		os.Exit(1)
	}
}

func run(fs afero.Fs, cfg *config.Config) error {
	src, dst := cfg.Files()
	logrus.Debugf("%s: %s -> %s", cfg.Command, src, dst)

	started := time.Now()

	var err error
	switch cfg.Command {
	case config.CommandCompress:
		_, err = zlib.CompressFile(fs, src, dst, cfg.Options()...)
	case config.CommandDecompress:
		_, err = zlib.DecompressFile(fs, src, dst, cfg.Options()...)
	default:
		err = errors.Errorf("unknown command %q", cfg.Command)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(started)

	inSize, err := fileSize(fs, src)
	if err != nil {
		return err
	}
	outSize, err := fileSize(fs, dst)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"src":     src,
		"dst":     dst,
		"in":      inSize,
		"out":     outSize,
		"elapsed": elapsed,
	}).Info("done")

	if cfg.CLI.Digest {
		sum, err := digest(fs, dst)
		if err != nil {
			return err
		}
		logrus.Infof("blake2b-256 %s  %s", sum, dst)
	}

	return nil
}

func fileSize(fs afero.Fs, name string) (int64, error) {
	info, err := fs.Stat(name)
	if err != nil {
		return 0, errors.Wrapf(err, "error reading %s", name)
	}
	return info.Size(), nil
}

func digest(fs afero.Fs, name string) (string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return "", errors.Wrapf(err, "error opening %s", name)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "error hashing %s", name)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func displayConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	src, dst := cfg.Files()

	logrus.Info("zinflate settings:")
	logrus.Info("  [CLI]")
	logrus.Infof("  version: %s", config.VERSION)
	logrus.Infof("  command: %s", cfg.Command)
	logrus.Infof("  src: %s", src)
	logrus.Infof("  dst: %s", dst)
	logrus.Infof("  config file: %s", cfg.CLI.ConfigFile)
	logrus.Infof("  max output: %d", cfg.CLI.MaxOutput)
	logrus.Infof("  ignore checksum: %v", cfg.CLI.IgnoreChecksum)
	logrus.Infof("  digest: %v", cfg.CLI.Digest)
	logrus.Info("")
	logrus.Info("  [CONFIG]")
	logrus.Infof("  config.log_level: %s", cfg.TOML.Config.LogLevel)
	logrus.Infof("  config.max_output: %d", cfg.TOML.Config.MaxOutput)
	logrus.Infof("  config.buffer_size: %d", cfg.TOML.Config.BufferSize)
	logrus.Infof("  config.level: %d", *cfg.TOML.Config.Level)
	logrus.Infof("  config.ignore_checksum: %v", cfg.TOML.Config.IgnoreChecksum)
}
