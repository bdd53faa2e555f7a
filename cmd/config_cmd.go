package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

// configShowCmd prints the resolved configuration after file, env, and
// flag merging.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.IsSet(args[0]) {
			return fmt.Errorf("unknown configuration key: %s", args[0])
		}
		fmt.Println(viper.Get(args[0]))
		return nil
	},
}

func runConfigShow() error {
	cfg := GetConfig()

	// Never print the key itself, only whether one is present.
	redacted := *cfg
	if redacted.Review.APIKey != "" {
		redacted.Review.APIKey = "(set)"
	}

	out, err := yaml.Marshal(&redacted)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Printf("# config file: %s\n", used)
	} else {
		fmt.Println("# config file: (none, defaults and environment only)")
	}
	fmt.Print(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
}
