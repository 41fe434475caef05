package main

import (
	"fmt"
	"os"

	"github.com/handiism/bgm/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, _, err := root.load(cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "config:               %s\n", root.configPath)
				fmt.Fprintf(out, "url:                  %s\n", settings.URL)
				fmt.Fprintf(out, "destination:          %s\n", settings.Destination())
				fmt.Fprintf(out, "timeout:              %s\n", settings.Timeout)
				fmt.Fprintf(out, "insecure_skip_verify: %t\n", settings.InsecureSkipVerify)
				fmt.Fprintf(out, "bgm_enabled:          %t\n", settings.BGMEnabled)
				fmt.Fprintf(out, "volume:               %d\n", settings.Volume)
				fmt.Fprintf(out, "log_level:            %s\n", settings.LogLevel)
				return nil
			},
		},
		newConfigInitCmd(root),
	)

	return cmd
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var (
		force bool
		url   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(root.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", root.configPath)
			}

			settings := config.DefaultSettings()
			settings.URL = url
			if err := settings.Validate(); err != nil {
				return err
			}
			if err := settings.Save(root.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", root.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&url, "url", "", "Download URL to store")

	return cmd
}
