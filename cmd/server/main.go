package main

import (
	"context"
	"log"
	"net/http"
	"time"

	httpDelivery "github.com/moldovancsaba/narimato-sub003/internal/delivery/http"
	"github.com/moldovancsaba/narimato-sub003/internal/elo"
	"github.com/moldovancsaba/narimato-sub003/internal/events"
	"github.com/moldovancsaba/narimato-sub003/internal/expiry"
	"github.com/moldovancsaba/narimato-sub003/internal/hierarchical"
	"github.com/moldovancsaba/narimato-sub003/internal/hierarchy"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/play"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"github.com/moldovancsaba/narimato-sub003/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(&cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Shutdown()

	cardStore := store.NewInMemoryCardStore()
	playStore := store.NewInMemoryPlayStore()
	rankingStore := store.NewInMemoryGlobalRankingStore()

	resolver := hierarchy.New(cardStore)
	bus := events.NewInMemoryEventBus()
	defer bus.Close()

	engine := play.New(playStore, cardStore, resolver, bus, cfg.PlayTTL)

	controller := hierarchical.New(playStore, cardStore, resolver, engine, bus, cfg.MaxHierarchyDepth)
	engine.SetCompletionHandler(controller)

	aggregator := elo.New(playStore, cardStore, rankingStore, cfg.EloWindow, cfg.EloK)
	bus.Subscribe(events.TypePlayCompleted, recomputeOnCompletion(aggregator))

	sweeper := expiry.NewSweeper(playStore, 5*time.Minute)
	go sweeper.Run(context.Background())
	defer sweeper.Stop()

	handler := httpDelivery.NewHandler(engine, aggregator, rankingStore, sweeper)
	router := httpDelivery.NewRouter(handler, nil)

	logger.Info("narimato server starting", zap.String("port", cfg.Port))

	if err := router.Run(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

// recomputeOnCompletion triggers a global ranking recompute on every
// top-level play completion. Child sub-session completions are internal
// steps of a still-running parent and are covered once the parent
// itself finalizes.
func recomputeOnCompletion(aggregator *elo.Aggregator) events.EventListener {
	return func(ctx context.Context, e events.Event) error {
		payload, ok := e.GetPayload().(events.PlayCompletedPayload)
		if !ok || payload.IsChildPlay {
			return nil
		}
		_, err := aggregator.RecomputeGlobal(ctx, e.GetTenantID())
		return err
	}
}

