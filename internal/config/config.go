package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	EnvBotConfig = "BOT_CONFIG_PATH"
)

var defaultComponentTimeout = 2 * time.Minute

type Config struct {
	Logger *zap.Logger
	bot    *BotConfig
}

type BotConfig struct {
	GuildID                 string `json:"guild_id"`
	ComponentTimeoutSeconds int    `json:"component_timeout_seconds"`
	AuditDir                string `json:"audit_directory"`
}

func New() *Config {
	return &Config{
		Logger: NewLogger(),
	}
}

func NewLogger() *zap.Logger {
	logCfg := zap.NewProductionConfig()
	logCfg.DisableStacktrace = true
	logger, _ := logCfg.Build()
	return logger
}

func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

func (c *Config) Load() error {
	if err := c.loadBotConfig(); err != nil {
		return err
	}

	return nil
}

// GetGuildID returns the guild commands are scoped to, empty meaning global.
func (c *Config) GetGuildID() string {
	return c.bot.GuildID
}

// ComponentTimeout is how long a command handler waits for a follow-up
// component interaction before giving up.
func (c *Config) ComponentTimeout() time.Duration {
	if c.bot.ComponentTimeoutSeconds <= 0 {
		return defaultComponentTimeout
	}
	return time.Duration(c.bot.ComponentTimeoutSeconds) * time.Second
}

// GetAuditDir returns the local spool directory for interaction audit logs.
func (c *Config) GetAuditDir() string {
	return c.bot.AuditDir
}

func (c *Config) loadBotConfig() error {
	filePath, ok := os.LookupEnv(EnvBotConfig)
	if !ok {
		return fmt.Errorf("missing env for bot config path: [%s]", EnvBotConfig)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return c.loadBotConfigFile(fileData)
}

func (c *Config) loadBotConfigFile(fileData []byte) error {
	var botCfg *BotConfig
	if err := json.Unmarshal(fileData, &botCfg); err != nil {
		return err
	}
	if botCfg == nil {
		return fmt.Errorf("empty bot config")
	}

	c.bot = botCfg
	return nil
}
