package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-group-router/internal/database"
	"city-group-router/internal/server"
	"city-group-router/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	config, err := database.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := getEnv("LEDGER_ADDR", config.LedgerAddr)
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	dbPath := getEnv("LEDGER_DB", config.DatabasePath)

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}

	srv, err := server.New(server.Config{Addr: addr}, store)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}
	actualAddr, err := srv.Start()
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Printf("[LEDGER] Serving runs from %s at http://%s", dbPath, actualAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
