package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/config"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/repository"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/service"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/transport/advisor"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-advisor/transport/rest"
)

const shutdownTimeout = 10 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	shutdownTracing, err := telemetry.Setup(ctx, conf.Tracing, os.Stderr)
	if err != nil {
		return fmt.Errorf("could not set up tracing: %w", err)
	}

	defer func() {
		if tracingErr := shutdownTracing(context.Background()); tracingErr != nil {
			log.Error("could not flush traces", "error", tracingErr)
		}
	}()

	sessionRepo, closeStorage, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	botService := service.NewBotService(nil)

	var moveAdvisor service.Advisor
	if conf.Advisor.URL != "" {
		log.Info("Using remote move advisor", "url", conf.Advisor.URL)
		moveAdvisor = advisor.New(conf.Advisor.URL, conf.Advisor.Timeout)
	} else {
		log.Info("Using built-in move advisor", "difficulty", conf.Advisor.Difficulty)
		moveAdvisor = service.NewBotAdvisor(botService, conf.Advisor.Difficulty)
	}

	gateway := service.NewAdvisorGateway(logger, moveAdvisor, nil, conf.Advisor.Timeout)
	sessionService := service.NewSessionService(sessionRepo)
	gamePlayService := service.NewGamePlayService(logger, sessionService, gateway, 2*conf.Advisor.Timeout)
	gameUseCase := usecase.NewGameUseCase(sessionService, gamePlayService)

	router := rest.NewRouter(
		rest.NewPingHandler(),
		rest.NewSessionHandlers(logger, gameUseCase),
		rest.NewAdvisorHandler(logger, botService, conf.Advisor.Difficulty),
	)
	server := rest.New(logger, conf.HTTPPort, router)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if conf.Storage == config.StorageMemory {
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSessionRepository(redisStorage.Connection, conf.SessionTTL), redisStorage.Close, nil
}
