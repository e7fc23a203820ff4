package config

import "time"

// LLMConfig represents the configuration for the narrative provider
type LLMConfig struct {
	Provider string
}

// GoogleConfig represents the configuration for Google API access
type GoogleConfig struct {
	CredentialsPath    string
	GmailTokenPath     string
	CalendarTokenPath  string
	WorkspaceTokenPath string
	RateLimitPerSecond int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region       string
	ModelID      string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// TodoistConfig represents the configuration for the Todoist task source
type TodoistConfig struct {
	APIKey  string
	BaseURL string
}

// TodosConfig represents the configuration for the todo forwarding workflow
type TodosConfig struct {
	ForwardAddress string
	DaysBack       int
	MaxEmails      int
	Transport      string
	Workers        int
}

// SMTPConfig represents the configuration for the SMTP relay transport
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
}

// CacheConfig represents the configuration for the narrative cache
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              string
	CleanupFrequency string
	SqlitePath       string
	MysqlDSN         string
}

// BriefingConfig represents the configuration for briefing generation
type BriefingConfig struct {
	EmailDaysBack    int
	MaxEmails        int
	DocSearchResults int
	StageTimeout     time.Duration
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGoogle returns the Google API configuration
func (c *Config) GetGoogle() GoogleConfig {
	return GoogleConfig{
		CredentialsPath:    c.GetString("google.credentials_path"),
		GmailTokenPath:     c.GetString("google.gmail_token_path"),
		CalendarTokenPath:  c.GetString("google.calendar_token_path"),
		WorkspaceTokenPath: c.GetString("google.workspace_token_path"),
		RateLimitPerSecond: c.GetInt("google.rate_limit_per_second"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:       c.GetString("gemini.api_key"),
		ModelName:    c.GetString("gemini.model_name"),
		MaxTokens:    c.GetInt("gemini.max_tokens"),
		Temperature:  float32(c.GetFloat64("gemini.temperature")),
		TopP:         float32(c.GetFloat64("gemini.top_p")),
		MaxInputSize: c.GetInt("gemini.max_input_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       c.GetString("openai.api_key"),
		ModelName:    c.GetString("openai.model_name"),
		MaxTokens:    c.GetInt("openai.max_tokens"),
		Temperature:  float32(c.GetFloat64("openai.temperature")),
		TopP:         float32(c.GetFloat64("openai.top_p")),
		MaxInputSize: c.GetInt("openai.max_input_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:       c.GetString("bedrock.region"),
		ModelID:      c.GetString("bedrock.model_id"),
		MaxTokens:    c.GetInt("bedrock.max_tokens"),
		Temperature:  float32(c.GetFloat64("bedrock.temperature")),
		TopP:         float32(c.GetFloat64("bedrock.top_p")),
		MaxInputSize: c.GetInt("bedrock.max_input_size"),
	}
}

// GetTodoist returns the Todoist configuration
func (c *Config) GetTodoist() TodoistConfig {
	return TodoistConfig{
		APIKey:  c.GetString("todoist.api_key"),
		BaseURL: c.GetString("todoist.base_url"),
	}
}

// GetTodos returns the todo forwarding configuration
func (c *Config) GetTodos() TodosConfig {
	return TodosConfig{
		ForwardAddress: c.GetString("todos.forward_address"),
		DaysBack:       c.GetInt("todos.days_back"),
		MaxEmails:      c.GetInt("todos.max_emails"),
		Transport:      c.GetString("todos.transport"),
		Workers:        c.GetInt("todos.workers"),
	}
}

// GetSMTP returns the SMTP relay configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
	}
}

// GetCache returns the narrative cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              c.GetString("cache.ttl"),
		CleanupFrequency: c.GetString("cache.cleanup_frequency"),
		SqlitePath:       c.GetString("cache.sqlite_path"),
		MysqlDSN:         c.GetString("cache.mysql_dsn"),
	}
}

// GetBriefing returns the briefing configuration
func (c *Config) GetBriefing() BriefingConfig {
	return BriefingConfig{
		EmailDaysBack:    c.GetInt("briefing.email_days_back"),
		MaxEmails:        c.GetInt("briefing.max_emails"),
		DocSearchResults: c.GetInt("briefing.doc_search_results"),
		StageTimeout:     c.v.GetDuration("briefing.stage_timeout"),
	}
}
