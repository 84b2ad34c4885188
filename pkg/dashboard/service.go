package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/common/models"
	"github.com/synaptica-ai/trialops/pkg/dataset"
	"github.com/synaptica-ai/trialops/pkg/hgrac"
	"github.com/synaptica-ai/trialops/pkg/milestone"
	"github.com/synaptica-ai/trialops/pkg/observability/metrics"
)

const eventSource = "milestone-service"

// Publisher delivers risk events. Implemented by the kafka producer.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source, key string, data map[string]interface{}) error
}

type Service struct {
	store     *Store
	catalog   milestone.Catalog
	hgrac     hgrac.Source
	publisher Publisher
}

// NewService wires the evaluation pipeline. src and pub may be nil.
func NewService(store *Store, catalog milestone.Catalog, src hgrac.Source, pub Publisher) *Service {
	return &Service{store: store, catalog: catalog, hgrac: hgrac.NewBestEffort(src), publisher: pub}
}

func (s *Service) Catalog() milestone.Catalog {
	return s.catalog
}

func (s *Service) Upload(ctx context.Context, r io.Reader) (models.DatasetSummary, error) {
	ds, err := dataset.Load(r)
	if err != nil {
		reason := "read"
		if dataset.IsSchemaError(err) {
			reason = "schema"
		}
		metrics.DatasetsRejected.WithLabelValues(reason).Inc()
		logger.Log.WithError(err).Warn("Rejected dataset upload")
		return models.DatasetSummary{}, err
	}
	metrics.DatasetsLoaded.Inc()

	summary := s.store.Put(ds)
	logger.Log.WithFields(map[string]interface{}{
		"dataset_id": summary.ID,
		"studies":    summary.Studies,
		"rows":       summary.Rows,
	}).Info("Dataset stored")
	return summary, nil
}

func (s *Service) Delete(id string) error {
	return s.store.Delete(id)
}

// Evaluate builds the report for a stored dataset and publishes one event per
// flagged study. Publishing failures never fail the evaluation.
func (s *Service) Evaluate(ctx context.Context, id string, filter milestone.Filter, now time.Time) (*Report, error) {
	ds, _, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := BuildReport(ds, s.catalog, filter, now)
	report.DatasetID = id
	report.HGRAC, err = s.hgracRows(ctx, ds, filter, now)
	if err != nil {
		return nil, err
	}
	metrics.ObserveEvaluation(time.Since(start))
	metrics.ObserveRiskFlags("past_due", len(report.PastDue))
	metrics.ObserveRiskFlags("next_5w", len(report.NextFiveWeeks))
	metrics.ObserveRiskFlags("beyond_5w", len(report.BeyondFiveWeeks))

	s.publish(ctx, &report)
	return &report, nil
}

// HGRAC returns the regulatory table restricted to the filtered studies.
func (s *Service) HGRAC(ctx context.Context, id string, filter milestone.Filter, now time.Time) ([]hgrac.Row, error) {
	ds, _, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return s.hgracRows(ctx, ds, filter, now)
}

func (s *Service) hgracRows(ctx context.Context, ds *dataset.Dataset, filter milestone.Filter, now time.Time) ([]hgrac.Row, error) {
	records, err := s.hgrac.Fetch(ctx, ds.StudyNumbers())
	if err != nil {
		return nil, fmt.Errorf("hgrac lookup: %w", err)
	}
	var keep []string
	if !filter.IsEmpty() {
		keep = filter.Apply(ds, s.catalog, now).StudyNumbers()
	}
	return hgrac.BuildRows(records, keep, now), nil
}

func (s *Service) publish(ctx context.Context, report *Report) {
	if s.publisher == nil {
		return
	}
	var errs []error
	for _, pd := range report.PastDue {
		errs = append(errs, s.publisher.PublishEvent(ctx, models.EventMilestonePastDue, eventSource, pd.Study, map[string]interface{}{
			"dataset_id": report.DatasetID,
			"study":      pd.Study,
			"ta":         pd.TA,
			"sourcing":   pd.Sourcing,
			"milestones": pd.Milestones,
		}))
	}
	windows := []struct {
		name   string
		groups []milestone.RiskGroup
	}{
		{"next_5w", report.NextFiveWeeks},
		{"beyond_5w", report.BeyondFiveWeeks},
	}
	for _, w := range windows {
		for _, g := range w.groups {
			errs = append(errs, s.publisher.PublishEvent(ctx, models.EventMilestoneAtRisk, eventSource, g.Study, map[string]interface{}{
				"dataset_id": report.DatasetID,
				"study":      g.Study,
				"ta":         g.TA,
				"sourcing":   g.Sourcing,
				"window":     w.name,
				"reasons":    g.Reasons,
			}))
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Log.WithError(err).WithField("dataset_id", report.DatasetID).Error("Failed to publish some risk events")
	}
}
