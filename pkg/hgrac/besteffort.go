package hgrac

import (
	"context"

	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/observability/metrics"
)

// BestEffort never fails: errors from the wrapped source are logged and an
// empty result is returned instead.
type BestEffort struct {
	next Source
}

func NewBestEffort(next Source) *BestEffort {
	return &BestEffort{next: next}
}

func (b *BestEffort) Fetch(ctx context.Context, studyNumbers []string) ([]Record, error) {
	if b.next == nil {
		return []Record{}, nil
	}
	records, err := b.next.Fetch(ctx, studyNumbers)
	if err != nil {
		metrics.ObserveHGRACLookup("error")
		logger.Log.WithError(err).WithField("studies", len(studyNumbers)).Error("HGRAC lookup failed, continuing without it")
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
