package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/synaptica-ai/trialops/pkg/common/config"
	"github.com/synaptica-ai/trialops/pkg/common/kafka"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/common/models"
)

func main() {
	logger.Init()
	cfg := config.Load()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaRiskTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down risk notifier...")
		cancel()
	}()

	logger.Log.WithFields(map[string]interface{}{
		"topic":   cfg.KafkaRiskTopic,
		"group":   cfg.KafkaGroupID,
		"brokers": cfg.KafkaBrokers,
	}).Info("Risk notifier started")

	if err := consumer.Consume(ctx, notify); err != nil && err != context.Canceled {
		logger.Log.WithError(err).Fatal("consumer stopped")
	}
	logger.Log.Info("Risk notifier stopped")
}

func notify(ctx context.Context, event models.Event) error {
	entry := logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"study":      event.Data["study"],
		"ta":         event.Data["ta"],
		"sourcing":   event.Data["sourcing"],
	})
	switch event.Type {
	case models.EventMilestonePastDue:
		entry.WithField("milestones", event.Data["milestones"]).Warn("Milestones missed in the last 5 weeks")
	case models.EventMilestoneAtRisk:
		entry.WithFields(map[string]interface{}{
			"window":  event.Data["window"],
			"reasons": event.Data["reasons"],
		}).Warn("Milestone at risk")
	default:
		entry.Debug("Ignoring unrelated event")
	}
	return nil
}
