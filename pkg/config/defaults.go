package config

const (
	defaultAPIListen = ":8080"

	defaultCompletionTarget = "https://api.openai.com/v1"
	defaultCompletionModel  = "gpt-4o-mini"

	defaultMemoryProvider = "sqlite"
	defaultSQLitePath     = "emily.db"

	defaultSessionProvider = "inmemory"
	defaultRedisAddr       = "localhost:6379"
	defaultSessionTTL      = "24h"

	defaultMaxHistory = 40
	defaultExtraction = "rules"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Completion: CompletionConfig{
			Target: defaultCompletionTarget,
			Model:  defaultCompletionModel,
		},
		Memory: MemoryConfig{
			Provider:   defaultMemoryProvider,
			SQLitePath: defaultSQLitePath,
		},
		Session: SessionConfig{
			Provider:  defaultSessionProvider,
			RedisAddr: defaultRedisAddr,
			TTL:       defaultSessionTTL,
		},
		Chat: ChatConfig{
			MaxHistory: defaultMaxHistory,
			Extraction: defaultExtraction,
		},
	}
}
