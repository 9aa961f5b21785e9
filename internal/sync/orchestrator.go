package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
	"github.com/Sphere-Cloud/SyncPoShopify/pkg/uid"
)

// Cycle statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Summary is the terminal report of one synchronization cycle.
type Summary struct {
	CycleID         string        `json:"cycle_id"`
	Status          string        `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	OperationTime   time.Duration `json:"operation_time"`
	Extracted       int           `json:"extracted_count"`
	ChangesDetected int           `json:"changes_detected"`
	UpdatesApplied  int           `json:"updates_applied"`
	CreatesApplied  int           `json:"creates_applied"`
	Error           string        `json:"error,omitempty"`
}

// Orchestrator sequences one full cycle: extract the source snapshot, fetch
// the cache snapshot, detect changes, dispatch them, reconcile the cache and
// persist the audit log. Stages are strict and non-overlapping; there is no
// resumption from a partial run, and concurrent cycles must be serialized by
// the caller.
type Orchestrator struct {
	extractor    SourceExtractor
	cache        CacheLevelProvider
	detector     *Detector
	dispatcher   *Dispatcher
	writer       CacheWriter
	logWriter    SyncLogWriter
	cycleTimeout time.Duration
	log          logrus.FieldLogger
}

// NewOrchestrator wires the cycle stages together. cycleTimeout bounds the
// whole cycle; zero disables the deadline.
func NewOrchestrator(
	extractor SourceExtractor,
	cache CacheLevelProvider,
	detector *Detector,
	dispatcher *Dispatcher,
	writer CacheWriter,
	logWriter SyncLogWriter,
	cycleTimeout time.Duration,
	log logrus.FieldLogger,
) *Orchestrator {
	return &Orchestrator{
		extractor:    extractor,
		cache:        cache,
		detector:     detector,
		dispatcher:   dispatcher,
		writer:       writer,
		logWriter:    logWriter,
		cycleTimeout: cycleTimeout,
		log:          log,
	}
}

// Execute runs one synchronization cycle and always returns a terminal
// summary. A failure in extraction, cache read or dispatch yields a FAILED
// summary with the elapsed time. Per-item remote failures and reconciliation
// write errors do not fail the cycle; the former are visible in the sync log
// and the latter are logged and skipped.
func (o *Orchestrator) Execute(ctx context.Context) Summary {
	start := time.Now()
	summary := Summary{
		CycleID:   uid.New(),
		StartedAt: start,
	}
	log := o.log.WithField("cycle_id", summary.CycleID)

	if o.cycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cycleTimeout)
		defer cancel()
	}

	items, err := o.extractor.Extract(ctx)
	if err != nil {
		return o.fail(summary, start, fmt.Errorf("%w: %v", ErrExtraction, err))
	}
	summary.Extracted = len(items)
	log.WithField("count", len(items)).Info("source items extracted")

	records, err := o.cache.CurrentLevels(ctx)
	if err != nil {
		return o.fail(summary, start, fmt.Errorf("%w: %v", ErrCacheRead, err))
	}
	log.WithField("count", len(records)).Info("cache snapshot loaded")

	changes := o.detector.Detect(items, records)
	summary.ChangesDetected = len(changes)
	log.WithField("count", len(changes)).Info("changes detected")

	if len(changes) == 0 {
		summary.Status = StatusSuccess
		summary.OperationTime = time.Since(start)
		log.Info("nothing to synchronize")
		return summary
	}

	outcome, err := o.dispatcher.Dispatch(ctx, changes)
	if err != nil {
		// Context expired mid-batch. The remote calls that already succeeded
		// must still reach the cache and the audit log, so reconcile on a
		// context detached from the expired deadline.
		o.reconcile(context.WithoutCancel(ctx), log, outcome)
		return o.fail(summary, start, fmt.Errorf("dispatch aborted: %w", err))
	}

	o.reconcile(ctx, log, outcome)

	for _, res := range outcome.Results {
		if !res.Successful() {
			continue
		}
		switch res.SyncType {
		case model.SyncTypeUpdate:
			summary.UpdatesApplied++
		case model.SyncTypeCreate:
			summary.CreatesApplied++
		}
	}

	summary.Status = StatusSuccess
	summary.OperationTime = time.Since(start)
	log.WithFields(logrus.Fields{
		"updates_applied": summary.UpdatesApplied,
		"creates_applied": summary.CreatesApplied,
		"elapsed":         summary.OperationTime,
	}).Info("cycle finished")
	return summary
}

// reconcile applies the dispatcher's cache writes and persists the audit log.
// Individual write failures are logged and skipped so one bad row cannot lose
// the rest of the reconciliation.
func (o *Orchestrator) reconcile(ctx context.Context, log logrus.FieldLogger, outcome Outcome) {
	for _, w := range outcome.QuantityWrites {
		if err := o.writer.ApplyQuantity(ctx, w.SKU, w.LocationID, w.Quantity); err != nil {
			log.WithFields(logrus.Fields{
				"sku":         w.SKU,
				"location_id": w.LocationID,
			}).WithError(err).Error("cache quantity write failed")
		}
	}
	for _, ent := range outcome.Materialized {
		if err := o.writer.Materialize(ctx, ent); err != nil {
			log.WithFields(logrus.Fields{
				"sku":         ent.SKU,
				"location_id": ent.LocationID,
			}).WithError(err).Error("cache materialization failed")
		}
	}
	if len(outcome.Results) > 0 {
		if err := o.logWriter.Append(ctx, outcome.Results); err != nil {
			log.WithError(err).Error("sync log append failed")
		}
	}
}

func (o *Orchestrator) fail(summary Summary, start time.Time, err error) Summary {
	summary.Status = StatusFailed
	summary.Error = err.Error()
	summary.OperationTime = time.Since(start)
	o.log.WithField("cycle_id", summary.CycleID).WithError(err).Error("cycle failed")
	return summary
}
