package main

import (
	"log"

	"github.com/MrSnakeDoc/blockpanel/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ blockpanel failed to start: %v", err)
	}
}
