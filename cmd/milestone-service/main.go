package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/trialops/pkg/common/config"
	"github.com/synaptica-ai/trialops/pkg/common/database"
	"github.com/synaptica-ai/trialops/pkg/common/kafka"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/dashboard"
	"github.com/synaptica-ai/trialops/pkg/gateway/middleware"
	"github.com/synaptica-ai/trialops/pkg/hgrac"
	"github.com/synaptica-ai/trialops/pkg/milestone"
	"github.com/synaptica-ai/trialops/pkg/observability/metrics"
)

func main() {
	logger.Init()
	cfg := config.Load()

	catalog, err := milestone.LoadCatalog(cfg.DefinitionsPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.DefinitionsPath).Fatal("failed to load milestone definitions")
	}

	var source hgrac.Source
	if cfg.HGRACEnabled {
		source = hgracSource(cfg)
	}

	var publisher dashboard.Publisher
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaRiskTopic)
		defer producer.Close()
		publisher = producer
	}

	store := dashboard.NewStore(cfg.DatasetTTL)
	service := dashboard.NewService(store, catalog, source, publisher)
	handler := dashboard.NewHandler(service)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweep(ctx, store, cfg.DatasetTTL)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"addr":       address,
			"milestones": len(catalog.Definitions),
			"hgrac":      cfg.HGRACEnabled,
			"kafka":      cfg.KafkaEnabled,
		}).Info("Milestone service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start milestone service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down milestone service...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Milestone service forced to shutdown")
	}
	if err := database.CloseHGRAC(); err != nil {
		logger.Log.WithError(err).Warn("failed to close HGRAC database")
	}
	if err := database.CloseHGRACCache(); err != nil {
		logger.Log.WithError(err).Warn("failed to close HGRAC cache")
	}
	logger.Log.Info("Milestone service stopped")
}

// hgracSource builds the database lookup with a redis cache in front. A
// connection failure leaves the source nil and the report without HGRAC rows.
func hgracSource(cfg *config.Config) hgrac.Source {
	db, err := database.GetHGRAC(cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("HGRAC database unavailable, continuing without it")
		return nil
	}
	repo := hgrac.NewRepository(db, cfg.HGRACTable)
	cache := hgrac.NewRedisCache(database.GetHGRACCache(cfg))
	return hgrac.NewCachedSource(repo, cache, cfg.HGRACCacheTTL)
}

func sweep(ctx context.Context, store *dashboard.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Log.WithField("removed", n).Info("Expired datasets removed")
			}
		}
	}
}
