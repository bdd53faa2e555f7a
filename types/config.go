package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool          `mapstructure:"verbose"`
	Config   string        `mapstructure:"config"`
	Language string        `mapstructure:"language" validate:"omitempty,oneof=en zh"`
	Project  ProjectConfig `mapstructure:"project" validate:"required"`
	Data     DataConfig    `mapstructure:"data" validate:"required"`
	Review   ReviewConfig  `mapstructure:"review" validate:"omitempty"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// ReviewConfig holds configuration for the review collaborator
type ReviewConfig struct {
	Provider  string `mapstructure:"provider" validate:"omitempty,oneof=gemini openai"`
	ModelName string `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey    string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	// RequestTimeoutSeconds controls the HTTP client timeout for collaborator calls
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	// Debug enables extra request/response logging within the provider (generally tied to --verbose)
	Debug bool `mapstructure:"debug"`
}
