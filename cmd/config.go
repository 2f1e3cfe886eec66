package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration after defaults, the config file and
READLEVEL_* environment variables are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		path := resolveConfigPath(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "# config file: %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "# config file: %s (not found, using defaults)\n", path)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		case "toml":
			return toml.NewEncoder(out).Encode(cfg)
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		default:
			return fmt.Errorf("unknown format %q (want yaml, toml or json)", format)
		}
	},
}

func init() {
	configCmd.Flags().String("format", "yaml", "Output format: yaml, toml or json")
}
