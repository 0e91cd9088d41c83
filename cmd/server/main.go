package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/coinflip/pkg/api"
	"github.com/cbodonnell/coinflip/pkg/config"
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/messages"
	"github.com/cbodonnell/coinflip/pkg/network"
	"github.com/cbodonnell/coinflip/pkg/presenters"
	"github.com/cbodonnell/coinflip/pkg/queue"
	"github.com/cbodonnell/coinflip/pkg/random"
	"github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	"github.com/cbodonnell/coinflip/pkg/session"
	"github.com/cbodonnell/coinflip/pkg/state"
	"github.com/cbodonnell/coinflip/pkg/timing"
	"github.com/cbodonnell/coinflip/pkg/version"
	"github.com/cbodonnell/coinflip/pkg/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	port := flag.Int("port", cfg.APIPort, "port to listen on")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	flipDelay := flag.Duration("flip-delay", cfg.FlipDelay, "How long a flip takes to land")
	tickInterval := flag.Duration("tick-interval", cfg.TickInterval, "Session loop interval")
	databaseURL := flag.String("database-url", cfg.DatabaseURL, "Flip journal connection string (sqlite://... or postgresql://...)")
	flag.Parse()

	cfg.LogLevel = *logLevel
	cfg.FlipDelay = *flipDelay
	cfg.TickInterval = *tickInterval
	cfg.APIPort = *port
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, cfg.ParsedLogLevel())
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", logger.Level())

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	randomSource, err := random.NewCryptoSource()
	if err != nil {
		panic(fmt.Sprintf("Failed to create random source: %v", err))
	}

	sessionID := session.NewSessionID()
	clientManager := network.NewClientManager()
	stateManager := state.NewInMemoryStateManager()

	var repository repositories.Repository
	var journalChan chan models.JournalEntry
	journalDone := make(chan struct{})
	if *databaseURL != "" {
		repository, err = repositories.Open(ctx, *databaseURL)
		if err != nil {
			panic(fmt.Sprintf("Failed to open flip journal: %v", err))
		}
		defer repository.Close(context.Background())

		journalChannelSize := 100
		journalChan = make(chan models.JournalEntry, journalChannelSize)
		journalWorker := workers.NewJournalWorker(workers.NewJournalWorkerOptions{
			Repository:  repository,
			JournalChan: journalChan,
		})
		go func() {
			journalWorker.Start(ctx)
			close(journalDone)
		}()
	} else {
		log.Info("No database configured, flip journal disabled")
		close(journalDone)
	}

	messageChannelSize := 100
	messageChan := make(chan *messages.Message, messageChannelSize)
	broadcastWorker := workers.NewBroadcastWorker(workers.NewBroadcastWorkerOptions{
		ClientManager: clientManager,
		MessageChan:   messageChan,
	})
	go broadcastWorker.Start(ctx)

	go func() {
		for event := range clientManager.GetClientEventChan() {
			log.Debug("Client %s %s (%d connected)", event.ClientID, event.Type, clientManager.Count())
		}
	}()

	schedulerQueue := queue.NewInMemoryQueue(16)
	scheduler := timing.NewLoopScheduler(schedulerQueue)
	engine := flip.NewEngine(flip.NewEngineOptions{
		Random: randomSource,
		Presenter: presenters.Multi{
			presenters.NewLogging(logger.WithField("session", sessionID)),
			presenters.NewEvents(presenters.NewEventsOptions{
				SessionID:   sessionID,
				Clock:       timing.SystemClock,
				MessageChan: messageChan,
				JournalChan: journalChan,
			}),
		},
		Clock:     timing.SystemClock,
		Scheduler: scheduler,
		FlipDelay: *flipDelay,
	})

	commandQueue := queue.NewInMemoryQueue(64)
	sessionManager := session.NewManager(session.NewManagerOptions{
		SessionID:    sessionID,
		Engine:       engine,
		Scheduler:    scheduler,
		CommandQueue: commandQueue,
		StateManager: stateManager,
		TickInterval: *tickInterval,
	})

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		SessionID:     sessionID,
		ClientManager: clientManager,
		StateManager:  stateManager,
	})

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         *port,
		SessionID:    sessionID,
		Commander:    sessionManager,
		StateManager: stateManager,
		Repository:   repository,
		WebSocket:    wsServer,
	})
	go apiServer.Start()

	log.Info("Starting session manager")
	if err := sessionManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start session manager: %v", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	select {
	case <-journalDone:
	case <-shutdownCtx.Done():
		log.Warn("Timed out waiting for the flip journal to flush")
	}
}
