package config

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	ServiceName string
	Level       string
	Format      string
	LogFile     string
	MaxSize     int
	MaxBackups  int
	MaxAge      int
}

// LoadLoggerConfig loads logging configuration from environment variables
func LoadLoggerConfig(getenv func(string) string) LoggerConfig {
	config := LoggerConfig{
		ServiceName: "sitesearch",
		Level:       getenv("LOG_LEVEL"),
		Format:      getenv("LOG_FORMAT"),
		LogFile:     getenv("LOG_FILE"),
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      7,
	}
	if config.Level == "" {
		config.Level = "info"
	}
	if config.Format == "" {
		config.Format = "console"
	}
	return config
}
