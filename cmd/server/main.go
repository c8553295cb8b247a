package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-hub/internal"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"chat-hub/runtime/workers"
	"chat-hub/services"
	"chat-hub/storage"
	"chat-hub/transport/ws"
	"chat-hub/udp"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	// 2. Storage (upload directory + BadgerDB for accounts)
	store, err := storage.NewFileStore(config.UploadDir)
	if err != nil {
		return fmt.Errorf("upload directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Coordination core
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry, config.DeliveryTimeout)
	chatService := services.NewChatService(log, registry, router)
	groupService := services.NewGroupService(log, router)
	authService := services.NewAuthService(repositories.NewUserRepository(db))

	// 4. Workers: the two UDP loops and the client transport
	uploadReceiver := udp.NewUploadReceiver(log, store, chatService, config.UploadAddr())
	downloadResponder := udp.NewDownloadResponder(log, store, config.DownloadAddr())
	server := ws.NewServer(log, config.ListenAddr(), config.ConnectionBufferSize,
		registry, authService, chatService, groupService, store)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervise until shutdown
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(uploadReceiver, downloadResponder, server)
	sup.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}
