// Package service wires the bot together: config, dispatcher, built-in
// commands, audit trail, and the interactions endpoint.
package service

import (
	"os"

	"go.uber.org/zap"

	"slash-framework/internal/audit"
	"slash-framework/internal/bot"
	"slash-framework/internal/commands"
	"slash-framework/internal/config"
	"slash-framework/internal/dispatch"
)

const loggerName = "service"

type Service struct {
	cfg    *config.Config
	logger *zap.Logger
}

func New() *Service {
	cfg := config.New()
	return &Service{
		cfg:    cfg,
		logger: cfg.Logger.Named(loggerName),
	}
}

func (s *Service) Run() error {
	// Load bot config
	if err := s.cfg.Load(); err != nil {
		return err
	}

	// Connect bot server first so handlers get a live session
	auditClient := audit.New(s.cfg)
	dispatcher := dispatch.New(s.cfg, nil)
	botServer := bot.New(s.cfg, dispatcher, auditClient)
	if err := botServer.Connect(); err != nil {
		return err
	}

	// Bind built-in command handlers
	dispatcher.SetSession(botServer.Session())
	commands.New(s.cfg).Bind(dispatcher)

	// Upload audit logs while the bot runs, when a bucket is configured
	if os.Getenv(audit.EnvAuditBucket) != "" {
		if err := auditClient.Connect(); err != nil {
			return err
		}
		done := make(chan struct{})
		defer close(done)
		auditClient.Schedule(done)
	} else {
		s.logger.Info("audit upload disabled, no bucket configured")
	}

	s.logger.Info("starting interaction server")
	return botServer.Run()
}
