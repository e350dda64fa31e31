package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/dexsync/configs"
	"github.com/Aman-CERP/dexsync/internal/config"
	"github.com/Aman-CERP/dexsync/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user/global configuration file.

User configuration holds machine-wide settings such as the Dex API
key, rate limit, sync concurrency, and dedupe thresholds.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/dexsync/config.yaml)
  3. Project config (.dexsync.yaml)
  4. Environment variables (DEX_API_KEY, DEXSYNC_*)`,
		Example: `  # Create user config from template
  dexsync config init

  # Show effective configuration (merged from all sources)
  dexsync config show

  # Print user config file path
  dexsync config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user/global configuration file from a template.

The configuration file is created at ~/.config/dexsync/config.yaml
(or $XDG_CONFIG_HOME/dexsync/config.yaml if XDG_CONFIG_HOME is set).`,
		Example: `  # Create user config
  dexsync config init

  # Overwrite existing config
  dexsync config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging all sources.

The API key is redacted; everything else is printed as loaded.`,
		Example: `  # Show merged configuration
  dexsync config show

  # Show as JSON
  dexsync config show --json

  # Show only user config
  dexsync config show --source user`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Long:  `Print the path to the user configuration file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.GetUserConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	configPath, err := config.GetUserConfigPath()
	if err != nil {
		return err
	}

	if fileExists(configPath) && !force {
		out.Warning("User configuration already exists")
		out.Statusf("📁", "Location: %s", configPath)
		out.Newline()
		out.Status("💡", "Use --force to overwrite with the template")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Add your Dex API key (or set DEX_API_KEY)")
	out.Status("", "  2. Run 'dexsync config show' to verify")
	out.Status("", "  3. Run 'dexsync sync' to pull your contacts")

	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var cfg *config.Config
	var sourceDesc string

	switch source {
	case "merged":
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + project + env)"

	case "user":
		configPath, err := config.GetUserConfigPath()
		if err != nil {
			return err
		}
		if !fileExists(configPath) {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", configPath)
			out.Status("💡", "Run 'dexsync config init' to create one")
			return nil
		}

		cfg = config.NewConfig()
		if err := unmarshalYAMLFile(configPath, cfg); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("user (%s)", configPath)

	case "project":
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		var configPath string
		for _, name := range []string{".dexsync.yaml", ".dexsync.yml"} {
			if p := filepath.Join(cwd, name); fileExists(p) {
				configPath = p
				break
			}
		}
		if configPath == "" {
			out.Warning("No project configuration file found")
			out.Statusf("📁", "Expected at: %s", filepath.Join(cwd, ".dexsync.yaml"))
			return nil
		}

		cfg = config.NewConfig()
		if err := unmarshalYAMLFile(configPath, cfg); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("project (%s)", configPath)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return fmt.Errorf("invalid source: %s (use: merged, user, project, defaults)", source)
	}

	// Never echo the API key back to the terminal.
	if cfg.API.Key != "" {
		cfg.API.Key = "(redacted)"
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}

func unmarshalYAMLFile(path string, cfg *config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
