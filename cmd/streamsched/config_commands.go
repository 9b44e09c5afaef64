package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"streamsched/internal/config"
	"streamsched/internal/configsvc"
	"streamsched/internal/logging"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigDocumentCommand(ctx))
	configCmd.AddCommand(newConfigThemesCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set paths.api_token before exposing the API beyond localhost.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file and config document",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")

			docs := configsvc.New(cfg.Paths.ConfigFile, logging.NewNop())
			doc, err := docs.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("config document %s: %w", docs.Path(), err)
			}
			if err := docs.Validate(doc); err != nil {
				return fmt.Errorf("config document %s: %w", docs.Path(), err)
			}
			fmt.Fprintf(out, "Config document valid (%s)\n", docs.Path())
			return nil
		},
	}
}

func newConfigDocumentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "document",
		Short: "Print the config document served at /api/config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b backend) error {
				doc, err := b.Document(cmd.Context())
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; showing defaults\n", err)
				}
				return writeJSON(cmd, doc)
			})
		},
	}
}

func newConfigThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "themes",
		Short:       "List overlay themes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			themes := configsvc.Themes()
			rows := make([][]string, 0, len(themes))
			for _, theme := range themes {
				rows = append(rows, []string{theme.Name, theme.Label, theme.Accent})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Label", "Accent"}, rows, nil, 0))
			return nil
		},
	}
}
