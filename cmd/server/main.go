package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/luminastudio/lumina/internal/api"
	"github.com/luminastudio/lumina/internal/config"
	"github.com/luminastudio/lumina/internal/engine"
	"github.com/luminastudio/lumina/internal/store"
)

func main() {
	cfg := config.Load()

	// Open the gallery database.
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	gallery, err := store.New(db)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the model client.
	var client engine.Client
	if cfg.UseStubs() {
		log.Println("GEMINI_API_KEY not set, using stub model client")
		client = &engine.StubClient{}
	} else {
		log.Println("using Gemini model client")
		client, err = engine.NewGeminiClient(ctx, cfg.GeminiKey)
		if err != nil {
			log.Fatalf("init gemini client: %v", err)
		}
	}

	studio := engine.NewStudio(client, gallery,
		engine.WithTextModel(cfg.TextModel),
		engine.WithBatchPolicy(cfg.BatchPolicy),
	)

	// Start API server.
	srv := api.New(studio, gallery, cfg.CORSOrigin, api.WithTimeout(cfg.HTTPTimeout))
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
		httpServer.Shutdown(context.Background())
	}()

	fmt.Printf("lumina server listening on http://localhost:%s\n", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
