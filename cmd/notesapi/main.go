package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesapi/internal/handler"
	"notesapi/internal/repo"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultAddr     = ":8080"
	DefaultMongoURI = "mongodb://localhost:27017"
	DatabaseName    = "notesapi"
	CollectionName  = "notes"

	ShutdownTimeout = 5 * time.Second
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// zapSugaredLogger
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapLogger, err := config.Build()
	if err != nil {
		log.Fatal(err)
	}
	logger := zapLogger.Sugar()
	defer func() {
		syncErr := logger.Sync()
		if syncErr != nil {
			log.Fatal(syncErr)
		}
	}()
	logger.Info("zapSugaredLogger initialized")

	jwtSecret := os.Getenv("NOTESAPI_JWT_SECRET")
	if jwtSecret == "" {
		logger.Panic("NOTESAPI_JWT_SECRET is not set")
	}

	// MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	notesRepo, err := repo.NewMongoRepo(ctx,
		envOr("NOTESAPI_MONGO_URI", DefaultMongoURI), DatabaseName, CollectionName)
	cancel()
	if err != nil {
		logger.Panic(err)
	}
	defer func() {
		disconnectErr := notesRepo.Close(context.Background())
		if disconnectErr != nil {
			logger.Error(disconnectErr)
		}
	}()

	err = notesRepo.EnsureIndexes(context.Background())
	if err != nil {
		logger.Panic(err)
	}
	logger.Info("MongoDB connection established")

	// HTTP server
	notesHandler := handler.NewNotesHandler(logger, notesRepo, []byte(jwtSecret))
	server := &http.Server{
		Addr:    envOr("NOTESAPI_ADDR", DefaultAddr),
		Handler: notesHandler.Router(),
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Infof("got signal %v, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer shutdownCancel()
		shutdownErr := server.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Error(shutdownErr)
		}
	}()

	logger.Infof("listening on %v", server.Addr)
	err = server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		logger.Panic(err)
	}
	logger.Info("server closed")
}
