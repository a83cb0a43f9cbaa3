package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from
// configDir (when non-empty; otherwise the working directory), and binds
// environment variables with the EMILY_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (EMILY_API_LISTEN, EMILY_COMPLETION_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery.
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: EMILY_API_LISTEN, EMILY_MEMORY_PROVIDER, etc.
	v.SetEnvPrefix("EMILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper unmarshals the resolved viper state into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Completion
	v.SetDefault("completion.target", d.Completion.Target)
	v.SetDefault("completion.model", d.Completion.Model)
	v.SetDefault("completion.api_key", d.Completion.APIKey)

	// Memory
	v.SetDefault("memory.provider", d.Memory.Provider)
	v.SetDefault("memory.sqlite_path", d.Memory.SQLitePath)
	v.SetDefault("memory.supabase_url", d.Memory.SupabaseURL)
	v.SetDefault("memory.supabase_key", d.Memory.SupabaseKey)

	// Session
	v.SetDefault("session.provider", d.Session.Provider)
	v.SetDefault("session.redis_addr", d.Session.RedisAddr)
	v.SetDefault("session.ttl", d.Session.TTL)

	// Transcript
	v.SetDefault("transcript.enabled", d.Transcript.Enabled)

	// Chat
	v.SetDefault("chat.max_history", d.Chat.MaxHistory)
	v.SetDefault("chat.extraction", d.Chat.Extraction)

	// Prompt
	v.SetDefault("prompt.path", d.Prompt.Path)
}
