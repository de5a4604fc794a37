package main

import (
	"slash-framework/internal/commands"
	"slash-framework/internal/config"
)

func main() {
	cfg := config.New()
	if err := cfg.Load(); err != nil {
		panic(err)
	}

	c := commands.NewRegisterClient(cfg)
	if err := c.Connect(); err != nil {
		panic(err)
	}
	if err := c.Register(); err != nil {
		panic(err)
	}
}
