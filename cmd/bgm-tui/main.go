package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/bgm/internal/config"
	ioutils "github.com/handiism/bgm/internal/io"
	"github.com/handiism/bgm/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var configPath, logPath string

	cmd := &cobra.Command{
		Use:          "bgm-tui",
		Short:        "Interactive BGM Downloader",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// The terminal belongs to the UI, so logs go to a file.
			if err := ioutils.EnsureDir(filepath.Dir(logPath)); err != nil {
				return err
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			logger := logrus.New()
			logger.SetOutput(logFile)
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
			logger.SetLevel(settings.Level())

			return tui.Run(settings, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	cmd.Flags().StringVar(&logPath, "log-file", filepath.Join(filepath.Dir(config.DefaultPath()), "bgm.log"), "Path to log file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
