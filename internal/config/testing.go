package config

import (
	_ "embed"
)

//go:embed testdata/botconfig.json
var mockBotConfigFile []byte

const (
	// Mock bot config data
	MockGuildID                 = "mock-guild"
	MockComponentTimeoutSeconds = 30
	MockAuditDir                = "testdata/audit"
)

func NewTestConfig() (*Config, error) {
	cfg := &Config{
		Logger: NewTestLogger(),
	}
	if err := cfg.loadBotConfigFile(mockBotConfigFile); err != nil {
		return nil, err
	}

	return cfg, nil
}
