package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cbodonnell/coinflip/client/game"
	"github.com/cbodonnell/coinflip/client/scenes"
	"github.com/cbodonnell/coinflip/pkg/config"
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/presenters"
	"github.com/cbodonnell/coinflip/pkg/queue"
	"github.com/cbodonnell/coinflip/pkg/random"
	"github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	"github.com/cbodonnell/coinflip/pkg/session"
	"github.com/cbodonnell/coinflip/pkg/timing"
	"github.com/cbodonnell/coinflip/pkg/version"
	"github.com/cbodonnell/coinflip/pkg/workers"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	debug := flag.Bool("debug", false, "Show the debug overlay")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	flipDelay := flag.Duration("flip-delay", cfg.FlipDelay, "How long a flip takes to land")
	databaseURL := flag.String("database-url", cfg.DatabaseURL, "Flip journal connection string (sqlite://... or postgresql://...)")
	flag.Parse()

	cfg.LogLevel = *logLevel
	cfg.FlipDelay = *flipDelay
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, cfg.ParsedLogLevel())
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", logger.Level())

	log.Info("Starting client version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	randomSource, err := random.NewCryptoSource()
	if err != nil {
		panic(fmt.Sprintf("Failed to create random source: %v", err))
	}

	sessionID := session.NewSessionID()
	viewPresenters := presenters.Multi{presenters.NewLogging(logger.WithField("session", sessionID))}

	var journalDone chan struct{}
	if *databaseURL != "" {
		repository, err := repositories.Open(ctx, *databaseURL)
		if err != nil {
			panic(fmt.Sprintf("Failed to open flip journal: %v", err))
		}
		defer repository.Close(context.Background())

		journalChannelSize := 100
		journalChan := make(chan models.JournalEntry, journalChannelSize)
		journalWorker := workers.NewJournalWorker(workers.NewJournalWorkerOptions{
			Repository:  repository,
			JournalChan: journalChan,
		})
		journalDone = make(chan struct{})
		go func() {
			journalWorker.Start(ctx)
			close(journalDone)
		}()

		viewPresenters = append(viewPresenters, presenters.NewEvents(presenters.NewEventsOptions{
			SessionID:   sessionID,
			Clock:       timing.SystemClock,
			JournalChan: journalChan,
		}))
		log.Info("Journaling flips of session %s", sessionID)
	}

	schedulerQueue := queue.NewInMemoryQueue(16)
	scheduler := timing.NewLoopScheduler(schedulerQueue)

	var engine *flip.Engine
	coinScene, err := scenes.NewCoinScene(scenes.CoinSceneOptions{
		OnFlip:       func() { engine.RequestFlip() },
		OnReset:      func() { engine.Reset() },
		FlipDelay:    *flipDelay,
		ScreenWidth:  game.DefaultScreenWidth,
		ScreenHeight: game.DefaultScreenHeight,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create coin scene: %v", err))
	}

	engine = flip.NewEngine(flip.NewEngineOptions{
		Random:    randomSource,
		Presenter: append(presenters.Multi{coinScene}, viewPresenters...),
		Clock:     timing.SystemClock,
		Scheduler: scheduler,
		FlipDelay: *flipDelay,
	})

	g, err := game.NewGame(game.NewGameOptions{
		Debug:     *debug,
		Scheduler: scheduler,
		Scene:     coinScene,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}
	// the scene widgets exist now, so the initial state can be drawn
	engine.Init()

	ebiten.SetWindowSize(game.DefaultScreenWidth, game.DefaultScreenHeight)
	ebiten.SetWindowTitle("Coin Flip")
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}

	cancel()
	if journalDone != nil {
		select {
		case <-journalDone:
		case <-time.After(5 * time.Second):
			log.Warn("Timed out waiting for the flip journal to flush")
		}
	}
}
