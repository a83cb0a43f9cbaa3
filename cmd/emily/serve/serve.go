// Package servecmder provides the serve command for running the chat API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/flowwed/emily/api"
	"github.com/flowwed/emily/pkg/chat"
	"github.com/flowwed/emily/pkg/config"
	"github.com/flowwed/emily/pkg/extract"
	"github.com/flowwed/emily/pkg/llm/openai"
	"github.com/flowwed/emily/pkg/logger"
	"github.com/flowwed/emily/pkg/memory"
	meminmemory "github.com/flowwed/emily/pkg/memory/inmemory"
	memsqlite "github.com/flowwed/emily/pkg/memory/sqlite"
	memsupabase "github.com/flowwed/emily/pkg/memory/supabase"
	"github.com/flowwed/emily/pkg/prompt"
	"github.com/flowwed/emily/pkg/session"
	"github.com/flowwed/emily/pkg/transcript"
)

type ServeCommander struct {
	listen string
	debug  bool

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the Emily chat API server.

The server exposes POST /chat for the studio frontend and GET / as a
health check. Configuration comes from flags, EMILY_ environment
variables, and an optional config.toml, in that order of precedence.

Examples:
  emily serve
  emily serve --listen :9090
  EMILY_COMPLETION_API_KEY=sk-... emily serve`

const serveShortDesc string = "Run the Emily chat API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				v.Set("api.listen", cmder.listen)
			}

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return err
			}

			return cmder.run(v)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8080", "Address for the API server to listen on")

	return cmd
}

func (c *ServeCommander) run(v *viper.Viper) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	prompts, err := prompt.NewLoader(c.cfg.Prompt.Path, c.logger)
	if err != nil {
		return fmt.Errorf("loading prompt: %w", err)
	}
	defer prompts.Close()

	engine := openai.New(openai.Config{
		BaseURL: c.cfg.Completion.Target,
		Model:   c.cfg.Completion.Model,
		APIKey:  c.cfg.Completion.APIKey,
	})

	memories, err := c.newMemoryStore()
	if err != nil {
		return err
	}
	defer memories.Close()

	sessions, err := c.newSessionStore()
	if err != nil {
		return err
	}
	defer sessions.Close()

	recorder, err := c.newRecorder()
	if err != nil {
		return err
	}
	defer recorder.Close()

	extractors := []extract.Extractor{extract.NewRules()}
	if c.cfg.Chat.Extraction == "llm" {
		extractors = append(extractors, extract.NewLLM(engine))
	}

	orch, err := chat.New(chat.Options{
		Engine:     engine,
		Memories:   memories,
		Sessions:   sessions,
		Prompts:    prompts,
		Extractors: extractors,
		Transcript: recorder,
		MaxHistory: c.cfg.Chat.MaxHistory,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}

	server := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
	}, orch, c.logger)

	c.logger.Info("starting emily",
		zap.String("listen", c.cfg.API.Listen),
		zap.String("completion_target", c.cfg.Completion.Target),
		zap.String("model", c.cfg.Completion.Model),
		zap.String("extraction", c.cfg.Chat.Extraction),
		zap.String("config_file", v.ConfigFileUsed()),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *ServeCommander) newMemoryStore() (memory.Store, error) {
	switch c.cfg.Memory.Provider {
	case "sqlite":
		store, err := memsqlite.NewStore(context.Background(), memsqlite.Config{Path: c.cfg.Memory.SQLitePath})
		if err != nil {
			return nil, fmt.Errorf("creating sqlite memory store: %w", err)
		}
		c.logger.Info("using sqlite memory store", zap.String("path", c.cfg.Memory.SQLitePath))
		return store, nil
	case "supabase":
		store, err := memsupabase.NewStore(memsupabase.Config{
			URL:    c.cfg.Memory.SupabaseURL,
			APIKey: c.cfg.Memory.SupabaseKey,
		})
		if err != nil {
			return nil, fmt.Errorf("creating supabase memory store: %w", err)
		}
		c.logger.Info("using supabase memory store", zap.String("url", c.cfg.Memory.SupabaseURL))
		return store, nil
	case "inmemory":
		c.logger.Info("using in-memory memory store")
		return meminmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown memory provider: %q", c.cfg.Memory.Provider)
	}
}

func (c *ServeCommander) newSessionStore() (session.Store, error) {
	switch c.cfg.Session.Provider {
	case "redis":
		ttl, err := time.ParseDuration(c.cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid session ttl %q: %w", c.cfg.Session.TTL, err)
		}
		client := redis.NewClient(&redis.Options{Addr: c.cfg.Session.RedisAddr})
		c.logger.Info("using redis session store",
			zap.String("addr", c.cfg.Session.RedisAddr),
			zap.Duration("ttl", ttl),
		)
		return session.NewRedisStore(client, ttl), nil
	case "inmemory":
		c.logger.Info("using in-memory session store")
		return session.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session provider: %q", c.cfg.Session.Provider)
	}
}

func (c *ServeCommander) newRecorder() (transcript.Recorder, error) {
	if !c.cfg.Transcript.Enabled {
		return transcript.Nop{}, nil
	}

	recorder, err := transcript.NewSupabase(transcript.SupabaseConfig{
		URL:    c.cfg.Memory.SupabaseURL,
		APIKey: c.cfg.Memory.SupabaseKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating transcript recorder: %w", err)
	}

	c.logger.Info("transcript recording enabled")
	return recorder, nil
}
