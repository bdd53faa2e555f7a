package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

// initCmd writes a starter configuration file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default .focusradar.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configName + ".yaml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		cfg := map[string]interface{}{
			"language": GetConfig().Language,
			"project": map[string]interface{}{
				"rootDir": GetConfig().Project.RootDir,
			},
			"data": map[string]interface{}{
				"file":   "tasks_v0.json",
				"format": "json",
			},
			"review": map[string]interface{}{
				"provider":              "gemini",
				"modelName":             "gemini-2.5-flash",
				"requestTimeoutSeconds": 60,
			},
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		if err := os.MkdirAll(GetConfig().Project.RootDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		fmt.Printf("Wrote %s (data directory: %s)\n", path, GetConfig().Project.RootDir)
		fmt.Println("Set your API key via FOCUSRADAR_REVIEW_APIKEY or GEMINI_API_KEY.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
