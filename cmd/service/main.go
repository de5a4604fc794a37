package main

import (
	"log"

	"slash-framework/internal/service"
)

func main() {
	s := service.New()
	if err := s.Run(); err != nil {
		log.Fatal(err)
	}
}
