package commands

import (
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/config"
	"slash-framework/pkg/discord"
	customError "slash-framework/pkg/errors"
)

const (
	EnvApplicationID = "APPLICATION_ID"
	EnvBotToken      = "BOT_TOKEN"

	registerLoggerName = "cmd-register"

	registerFailErrorFormat = "following commands failed to register: %s"
	removeFailErrorFormat   = "following commands failed to remove: %s"
)

// RegisterClient registers and clears the application's slash commands.
type RegisterClient struct {
	logger *zap.Logger
	cfg    *config.Config

	// Env variables
	appId string
	token string

	discordSession discord.SessionIFace
}

func NewRegisterClient(cfg *config.Config) *RegisterClient {
	return &RegisterClient{
		logger: cfg.Logger.Named(registerLoggerName),
		cfg:    cfg,
	}
}

func (c *RegisterClient) Connect() error {
	// Get expected env variables
	if err := c.loadEnv(); err != nil {
		return err
	}

	discordSession, err := discordgo.New(fmt.Sprintf(discord.BotTokenFormat, c.token))
	c.discordSession = discordSession
	return err
}

func (c *RegisterClient) Register() error {
	guildId := c.cfg.GetGuildID()

	// Register each command
	c.logger.Info("registering commands", zap.Int("TotalCommands", len(definitions)))
	fails := make([]string, 0, len(definitions))
	for _, cmd := range definitions {
		_, err := c.discordSession.ApplicationCommandCreate(c.appId, guildId, cmd)
		if err != nil {
			c.logger.Error("could not register command", zap.Error(err), zap.String("cmd", cmd.Name))
			fails = append(fails, cmd.Name)
		}
	}
	if len(fails) > 0 {
		return fmt.Errorf(registerFailErrorFormat, fails)
	}

	c.logger.Info("all commands were registered successfully")
	return nil
}

func (c *RegisterClient) Clear() error {
	guildId := c.cfg.GetGuildID()

	// Get all currently registered commands
	cmds, err := c.discordSession.ApplicationCommands(c.appId, guildId)
	if err != nil {
		return err
	}

	// Delete each command
	c.logger.Info("removing commands", zap.Int("TotalCommands", len(cmds)))
	fails := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		err := c.discordSession.ApplicationCommandDelete(c.appId, guildId, cmd.ID)
		if err != nil {
			c.logger.Error("could not delete command", zap.Error(err), zap.String("cmd", cmd.Name))
			fails = append(fails, cmd.Name)
		}
	}
	if len(fails) > 0 {
		return fmt.Errorf(removeFailErrorFormat, fails)
	}

	c.logger.Info("all commands were removed successfully")
	return nil
}

func (c *RegisterClient) loadEnv() error {
	c.appId = os.Getenv(EnvApplicationID)
	c.token = os.Getenv(EnvBotToken)
	if c.appId == "" || c.token == "" {
		return customError.MissingEnvErr{EnvMap: map[string]string{
			EnvApplicationID: c.appId,
			EnvBotToken:      c.token,
		}}
	}
	return nil
}
