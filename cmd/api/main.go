package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"votekit/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (schema + vote plugin + store + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM.
func main() {
	log.Println("votekit api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("votekit api stopped with error: %v", err)
		return
	}
}
