package main

import (
	"errors"
	"io"
	"os"

	"github.com/handiism/bgm/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errCancelled is returned when the user interrupts a download.
var errCancelled = errors.New("download cancelled")

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bgm",
		Short: "BGM Downloader - fetch background music for your theme",
		Long: `bgm downloads a single background-music file, commits it atomically
to the configured destination and reads its title and artist tags.

For interactive mode, use: bgm-tui`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides config)")

	root.AddCommand(
		newFetchCmd(opts),
		newTagsCmd(opts),
		newConfigCmd(opts),
	)

	return root
}

// load reads settings and builds a logger writing to w.
func (o *rootOptions) load(w io.Writer) (*config.Settings, *logrus.Logger, error) {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		settings.LogLevel = o.logLevel
		if err := settings.Validate(); err != nil {
			return nil, nil, err
		}
	}

	return settings, newLogger(settings, w), nil
}

func newLogger(settings *config.Settings, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(settings.Level())
	return logger
}
