package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/focusradar/focusradar/models"
	"github.com/focusradar/focusradar/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focusradar",
	Short: "Focus Radar plans your day and reconciles it at night.",
	Long: `Focus Radar is a personal task-planning and daily-review tool.

Plan tasks for the day, mark progress as you go, and at day's end describe
in plain language what actually happened. An AI reviewer reconciles your
reflection against the plan into update suggestions you accept or reject.
A weekly statistics view shows how your estimates compare to reality.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.focusradar.yaml or $HOME/.focusradar.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetTaskFilePath returns the full path to the tasks data file.
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetStore initializes and returns the task store. Callers own the returned
// store and must Close it so the final save happens.
func GetStore() (store.TaskStore, error) {
	s := store.NewFileTaskStore()
	config := GetConfig()

	taskFilePath := GetTaskFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return s, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from
// a list, optionally narrowed by a filter function.
func selectTaskInteractive(taskStore store.TaskStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks := taskStore.ListTasks(filterFn, nil)
	if len(tasks) == 0 {
		return models.Task{}, fmt.Errorf("no tasks found matching your criteria")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .Status }}, {{ .ActualHours }}h/{{ .EstimateHours }}h)`,
		Inactive: `  {{ .Title | faint }} ({{ .Status }}, {{ .ActualHours }}h/{{ .EstimateHours }}h)`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }}`,
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return tasks[idx], nil
}
