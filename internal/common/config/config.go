package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// TracingConfig holds settings for the optional Jaeger trace export.
type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds settings for the HTTP shell.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AllowOrigin     string `mapstructure:"allow_origin"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`

	WebSearch struct {
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		EngineID   string `mapstructure:"engine_id"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
		MaxResults int    `mapstructure:"max_results"`
	} `mapstructure:"web_search"`
}

// PipelineConfig holds the generation pipeline policy knobs.
type PipelineConfig struct {
	HistoryWindow     int      `mapstructure:"history_window"`
	MaxTokens         int      `mapstructure:"max_tokens"`
	Temperature       float64  `mapstructure:"temperature"`
	TitleMaxTokens    int      `mapstructure:"title_max_tokens"`
	TitleTemperature  float64  `mapstructure:"title_temperature"`
	SearchTriggers    []string `mapstructure:"search_triggers"`
	SearchQualifier   string   `mapstructure:"search_qualifier"`
	NetworkPatterns   []string `mapstructure:"network_patterns"`
	SensitiveKeywords []string `mapstructure:"sensitive_keywords"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
