package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Digest struct {
		MaxItems  int           `yaml:"max_items" json:"max_items" jsonschema:"default=5,minimum=1,description=Number of insights per digest"`
		MaxAge    time.Duration `yaml:"max_age" json:"max_age" jsonschema:"default=36h,description=Freshness window for feed entries"`
		MaxLength int           `yaml:"max_length" json:"max_length" jsonschema:"default=4000,description=Hard cap on digest message length"`
	} `yaml:"digest" json:"digest" jsonschema:"description=Digest composition settings"`

	Feeds []domain.Source `yaml:"feeds" json:"feeds" jsonschema:"description=Feed sources to poll"`

	Schedule struct {
		Hour     int    `yaml:"hour" json:"hour" jsonschema:"default=9,minimum=0,maximum=23,description=Daily run hour (local wall clock)"`
		Minute   int    `yaml:"minute" json:"minute" jsonschema:"default=30,minimum=0,maximum=59,description=Daily run minute"`
		Timezone string `yaml:"timezone" json:"timezone" jsonschema:"default=Asia/Tehran,description=IANA timezone for the daily schedule"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Daily schedule configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for summarization and translation"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Full-text extraction configuration"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram delivery configuration"`
}

// LLMConfig holds LLM settings for both model calls
type LLMConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (default official API)"`
	APIKey         string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (use environment variable expansion)"`
	SummaryModel   string        `yaml:"summary_model" json:"summary_model" jsonschema:"default=gpt-4o,description=Model for English executive summaries"`
	TranslateModel string        `yaml:"translate_model" json:"translate_model" jsonschema:"default=gpt-4o-mini,description=Cheaper model for Persian translation"`
	Temperature    float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for both calls"`
	MaxTokens      int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens per response"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
}

// ExtractionConfig holds full-text extraction settings
type ExtractionConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=DailyBrief/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length to consider valid"`
	FallbackLimit int           `yaml:"fallback_limit" json:"fallback_limit" jsonschema:"default=2000,description=Truncation limit for sanitized feed summaries"`
}

// TelegramConfig holds delivery settings
type TelegramConfig struct {
	Token   string        `yaml:"token" json:"token" jsonschema:"description=Bot token (use environment variable expansion)"`
	ChatID  string        `yaml:"chat_id" json:"chat_id" jsonschema:"description=Destination chat ID"`
	APIBase string        `yaml:"api_base" json:"api_base" jsonschema:"default=https://api.telegram.org,description=Telegram API base URL"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Send request timeout"`
}

// defaultFeeds cover consistently available free leadership/strategy content
var defaultFeeds = []domain.Source{
	{Name: "McKinsey Insights", URL: "https://www.mckinsey.com/featured-insights/rss"},
	{Name: "Harvard Business Review", URL: "https://feeds.harvardbusiness.org/harvardbusiness"},
	{Name: "Fortune Leadership", URL: "https://fortune.com/category/leadership/feed"},
	{Name: "World Economic Forum", URL: "https://www.weforum.org/agenda/feed"},
	{Name: "KPMG", URL: "https://home.kpmg/us/en/blogs/home.rss"},
}

// Load reads configuration from a YAML file. An empty path yields the
// built-in defaults with credentials taken from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with defaults matching the original bot behavior
func (c *Config) setDefaults() {
	if c.Digest.MaxItems == 0 {
		c.Digest.MaxItems = 5
	}
	if c.Digest.MaxAge == 0 {
		c.Digest.MaxAge = 36 * time.Hour
	}
	if c.Digest.MaxLength == 0 {
		c.Digest.MaxLength = 4000
	}

	if len(c.Feeds) == 0 {
		c.Feeds = defaultFeeds
	}

	if c.Schedule.Hour == 0 && c.Schedule.Minute == 0 {
		c.Schedule.Hour = 9
		c.Schedule.Minute = 30
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Asia/Tehran"
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.SummaryModel == "" {
		c.LLM.SummaryModel = "gpt-4o"
	}
	if c.LLM.TranslateModel == "" {
		c.LLM.TranslateModel = "gpt-4o-mini"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "DailyBrief/1.0"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 100
	}
	if c.Extraction.FallbackLimit == 0 {
		c.Extraction.FallbackLimit = 2000
	}

	if c.Telegram.Token == "" {
		c.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness. Delivery credentials are
// checked up front so a misconfigured run fails before any network call.
func validate(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram chat_id is required (TELEGRAM_CHAT_ID)")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}

	if cfg.Digest.MaxItems < 1 {
		return fmt.Errorf("digest.max_items must be at least 1")
	}
	if cfg.Digest.MaxLength < 1 || cfg.Digest.MaxLength > 4096 {
		return fmt.Errorf("digest.max_length must be between 1 and 4096")
	}

	if cfg.Schedule.Hour < 0 || cfg.Schedule.Hour > 23 {
		return fmt.Errorf("schedule.hour must be between 0 and 23")
	}
	if cfg.Schedule.Minute < 0 || cfg.Schedule.Minute > 59 {
		return fmt.Errorf("schedule.minute must be between 0 and 59")
	}
	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	for i, f := range cfg.Feeds {
		if f.Name == "" || f.URL == "" {
			return fmt.Errorf("feeds[%d] must have both name and url", i)
		}
	}

	if cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction.timeout must be at least 1 second")
	}

	return nil
}

// Location returns the parsed schedule timezone, validated by Load
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetExtractionConfig returns content extraction configuration
func (c *Config) GetExtractionConfig() ExtractionConfig {
	return c.Extraction
}

// GetTelegramConfig returns delivery configuration
func (c *Config) GetTelegramConfig() TelegramConfig {
	return c.Telegram
}
