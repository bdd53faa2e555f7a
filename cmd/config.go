package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/focusradar/focusradar/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	configName = ".focusradar"
	envPrefix  = "FOCUSRADAR"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in the config file and ENV variables if set.
func InitConfig() {
	// Load .env first if present; API keys usually live there.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. FOCUSRADAR_REVIEW_APIKEY
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")  // ./.focusradar.yaml
		viper.AddConfigPath(home) // $HOME/.focusradar.yaml
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	viper.SetDefault("language", "")
	viper.SetDefault("project.rootDir", defaultRootDir())
	viper.SetDefault("data.file", "tasks_v0.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("review.provider", "gemini")
	viper.SetDefault("review.modelName", "gemini-2.5-flash")
	viper.SetDefault("review.requestTimeoutSeconds", 60)

	// Gemini API keys are commonly provided via GEMINI_API_KEY; honor it
	// when the prefixed variable is not set.
	if viper.GetString("review.apiKey") == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			viper.Set("review.apiKey", key)
		} else if key := os.Getenv("OPENAI_API_KEY"); key != "" && viper.GetString("review.provider") == "openai" {
			viper.Set("review.apiKey", key)
		}
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error unmarshalling config:", err)
		os.Exit(1)
	}
	GlobalAppConfig.Review.Debug = GlobalAppConfig.Verbose

	if GlobalAppConfig.Language == "" {
		GlobalAppConfig.Language = systemLanguage()
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error validating config:", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

func defaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusradar"
	}
	return home + string(os.PathSeparator) + ".focusradar"
}

// systemLanguage resolves the default summary language from the locale:
// any Chinese locale maps to zh, everything else to en. This mirrors the
// config > system > English resolution order.
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if i := strings.IndexAny(val, ".@"); i >= 0 {
			val = val[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(val, "_", "-"))
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		if base.String() == "zh" {
			return "zh"
		}
		return "en"
	}
	return "en"
}
