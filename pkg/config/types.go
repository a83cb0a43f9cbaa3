// Package config holds the persistent emily configuration and its viper
// wiring. Values flow, highest precedence first, from CLI flags, EMILY_
// environment variables, an optional config.toml, and the defaults here.
package config

// Config represents the full emily configuration. The TOML layout uses
// sections for logical grouping.
type Config struct {
	API        APIConfig        `mapstructure:"api" toml:"api"`
	Completion CompletionConfig `mapstructure:"completion" toml:"completion"`
	Memory     MemoryConfig     `mapstructure:"memory" toml:"memory"`
	Session    SessionConfig    `mapstructure:"session" toml:"session"`
	Transcript TranscriptConfig `mapstructure:"transcript" toml:"transcript"`
	Chat       ChatConfig       `mapstructure:"chat" toml:"chat"`
	Prompt     PromptConfig     `mapstructure:"prompt" toml:"prompt"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string `mapstructure:"listen" toml:"listen,omitempty"`
}

// CompletionConfig holds completion backend settings.
type CompletionConfig struct {
	Target string `mapstructure:"target" toml:"target,omitempty"`
	Model  string `mapstructure:"model" toml:"model,omitempty"`
	APIKey string `mapstructure:"api_key" toml:"api_key,omitempty"`
}

// MemoryConfig selects and configures the durable memory store.
type MemoryConfig struct {
	Provider    string `mapstructure:"provider" toml:"provider,omitempty"`
	SQLitePath  string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`
	SupabaseURL string `mapstructure:"supabase_url" toml:"supabase_url,omitempty"`
	SupabaseKey string `mapstructure:"supabase_key" toml:"supabase_key,omitempty"`
}

// SessionConfig selects and configures the session registry.
type SessionConfig struct {
	Provider  string `mapstructure:"provider" toml:"provider,omitempty"`
	RedisAddr string `mapstructure:"redis_addr" toml:"redis_addr,omitempty"`
	TTL       string `mapstructure:"ttl" toml:"ttl,omitempty"`
}

// TranscriptConfig controls durable transcript recording. The transcript
// writes through the same Supabase project as the memory store.
type TranscriptConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled,omitempty"`
}

// ChatConfig holds orchestrator settings.
type ChatConfig struct {
	MaxHistory int    `mapstructure:"max_history" toml:"max_history,omitempty"`
	Extraction string `mapstructure:"extraction" toml:"extraction,omitempty"`
}

// PromptConfig holds system prompt settings. An empty path means the
// embedded default prompt.
type PromptConfig struct {
	Path string `mapstructure:"path" toml:"path,omitempty"`
}
