package cmd

import (
	"fmt"
	"os"

	"github.com/focusradar/focusradar/store"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks to stdout or a file",
	Long:  `Export the full task collection as JSON, YAML, or TOML, regardless of the configured storage format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch exportFormat {
		case "json", "yaml", "toml":
		default:
			return fmt.Errorf("unsupported format %q: use json, yaml, or toml", exportFormat)
		}

		taskStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = taskStore.Close() }()

		data, err := store.MarshalTasks(taskStore.ListTasks(nil, nil), exportFormat)
		if err != nil {
			return fmt.Errorf("failed to marshal tasks: %w", err)
		}

		if exportOutput == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d tasks to %s\n", len(taskStore.ListTasks(nil, nil)), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml, toml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}
