package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/config"
)

// ConfigCmd returns the `libris config` command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change client settings",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetURLCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			source := "default"
			switch {
			case strings.TrimSpace(os.Getenv(config.EnvAPIURL)) != "":
				source = config.EnvAPIURL
			case cfg.APIURL != "":
				source = "config file"
			}
			level := cfg.LogLevel
			if level == "" {
				level = "info"
			}
			theme := cfg.Theme
			if theme == "" {
				theme = "default"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config     %s\n", config.Path())
			fmt.Fprintf(out, "api_url    %s (%s)\n", cfg.BaseURL(), source)
			fmt.Fprintf(out, "log_level  %s\n", level)
			fmt.Fprintf(out, "log_file   %s\n", config.LogPath())
			fmt.Fprintf(out, "telemetry  %t\n", cfg.Telemetry)
			fmt.Fprintf(out, "theme      %s\n", theme)
			fmt.Fprintf(out, "vim_keys   %t\n", cfg.VimKeys)
			return nil
		},
	}
}

func configSetURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <url>",
		Short: "Point the client at another backend (default " + api.DefaultBaseURL + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.APIURL = strings.TrimRight(strings.TrimSpace(args[0]), "/")
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_url set to %s\n", cfg.APIURL)
			if env := strings.TrimSpace(os.Getenv(config.EnvAPIURL)); env != "" {
				fmt.Fprintf(out, "note: %s=%s still takes precedence\n", config.EnvAPIURL, env)
			}
			return nil
		},
	}
}
